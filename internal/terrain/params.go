package terrain

import (
	"errors"
	"fmt"
	"image/color"

	"cloudscape/internal/geom"
	"cloudscape/internal/noise"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxScale bounds the grid subdivision count per axis.
const MaxScale = 2048

var ErrInvalidParams = errors.New("terrain: invalid parameters")

type Params struct {
	Box geom.BoundingBox
	// Scale is the number of grid cells along x and along z.
	Scale int
	// NoiseWeight mixes the height lattice channels. Normalized to sum to 1.
	NoiseWeight mgl32.Vec4
	Noise       noise.Params

	TopColor    color.NRGBA
	BottomColor color.NRGBA

	// Cloud shadows: a vertex is never darker than ShadowThreshold, and the
	// light transmittance is raised to DensityScale before use.
	ShadowThreshold float32
	ShadowSteps     int
	DensityScale    float32
	// DiffuseFactor blends between flat (0) and full Lambert (1) shading.
	DiffuseFactor float32
}

func DefaultParams() Params {
	return Params{
		Box:         geom.NewBoundingBox(mgl32.Vec3{-3.5, -0.5, -3.5}, mgl32.Vec3{3.5, 0.6, 3.5}),
		Scale:       64,
		NoiseWeight: mgl32.Vec4{1, 0, 0, 0},
		Noise: noise.Params{
			Kind:        noise.KindPerlin,
			Seed:        7,
			CellsA:      3,
			CellsB:      7,
			CellsC:      13,
			Persistence: 0.45,
			Tile:        1,
			Resolution:  128,
			ChannelMask: mgl32.Vec4{1, 0, 0, 0},
		},
		TopColor:        color.NRGBA{R: 236, G: 240, B: 231, A: 255},
		BottomColor:     color.NRGBA{R: 61, G: 96, B: 53, A: 255},
		ShadowThreshold: 0.3,
		ShadowSteps:     8,
		DensityScale:    1.5,
		DiffuseFactor:   0.7,
	}
}

func (p Params) normalized() (Params, error) {
	p.Box = p.Box.Normalized()
	if p.Scale > MaxScale {
		return p, fmt.Errorf("%w: scale %d exceeds %d", ErrInvalidParams, p.Scale, MaxScale)
	}
	p.Scale = max(p.Scale, 1)
	p.ShadowSteps = max(p.ShadowSteps, 1)

	for _, v := range []float32{p.ShadowThreshold, p.DensityScale, p.DiffuseFactor} {
		if !finite(v) {
			return p, fmt.Errorf("%w: non-finite shading value %v", ErrInvalidParams, v)
		}
	}
	for _, v := range append(append(p.Box.Min[:], p.Box.Max[:]...), p.NoiseWeight[:]...) {
		if !finite(v) {
			return p, fmt.Errorf("%w: non-finite geometry value %v", ErrInvalidParams, v)
		}
	}
	return p, nil
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
