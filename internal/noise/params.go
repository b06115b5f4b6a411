package noise

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxResolution bounds the lattice side length (MaxResolution³ texels).
const MaxResolution = 256

// ErrInvalidParams is returned when a parameter set cannot be normalized
// into something safe to build.
var ErrInvalidParams = errors.New("noise: invalid parameters")

// Kind selects the scalar function evaluated for each density level.
type Kind int

const (
	// KindWorley is cellular noise: distance to the nearest scatter point.
	KindWorley Kind = iota
	// KindPerlin is 2D gradient noise over the horizontal plane.
	KindPerlin
	// KindSimplex is seeded 3D OpenSimplex noise.
	KindSimplex
)

func (k Kind) String() string {
	switch k {
	case KindWorley:
		return "worley"
	case KindPerlin:
		return "perlin"
	case KindSimplex:
		return "simplex"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Params describes one lattice. A Field never changes after it is built from
// a Params value; changing anything means building a new Field.
type Params struct {
	Kind Kind
	Seed uint64

	// Cells per axis for the three density levels.
	CellsA int
	CellsB int
	CellsC int

	// Persistence is the weight decay from one level to the next.
	Persistence float32
	Tile        float32
	Resolution  int
	Invert      bool

	// ChannelMask selects which of the four output channels receive the
	// generated value. A channel with mask 0 keeps its previous content.
	ChannelMask mgl32.Vec4
}

// DefaultParams mirrors the shape texture used by the cloud demo.
func DefaultParams() Params {
	return Params{
		Kind:        KindWorley,
		Seed:        0,
		CellsA:      6,
		CellsB:      12,
		CellsC:      22,
		Persistence: 0.84,
		Tile:        1,
		Resolution:  64,
		Invert:      true,
		ChannelMask: mgl32.Vec4{1, 1, 1, 1},
	}
}

// normalized clamps counts to their minimums and rejects values that would
// turn into NaN during sampling.
func (p Params) normalized() (Params, error) {
	switch p.Kind {
	case KindWorley, KindPerlin, KindSimplex:
	default:
		return p, fmt.Errorf("%w: unknown kind %d", ErrInvalidParams, int(p.Kind))
	}
	if p.Resolution > MaxResolution {
		return p, fmt.Errorf("%w: resolution %d exceeds %d", ErrInvalidParams, p.Resolution, MaxResolution)
	}
	if !finite(p.Persistence) || p.Persistence < 0 {
		return p, fmt.Errorf("%w: persistence %v", ErrInvalidParams, p.Persistence)
	}
	if !finite(p.Tile) || p.Tile <= 0 {
		return p, fmt.Errorf("%w: tile %v", ErrInvalidParams, p.Tile)
	}
	for i := range 4 {
		if !finite(p.ChannelMask[i]) {
			return p, fmt.Errorf("%w: channel mask %v", ErrInvalidParams, p.ChannelMask)
		}
	}
	p.Resolution = max(p.Resolution, 1)
	p.CellsA = max(p.CellsA, 1)
	p.CellsB = max(p.CellsB, 1)
	p.CellsC = max(p.CellsC, 1)
	return p, nil
}

func (p Params) cells() [3]int {
	return [3]int{p.CellsA, p.CellsB, p.CellsC}
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
