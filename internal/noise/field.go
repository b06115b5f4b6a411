package noise

import (
	"fmt"
	"log"
	"math/rand/v2"
	"runtime"
	"time"

	"cloudscape/internal/profiling"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

// Field is an immutable res³ lattice of 4-component values. It is safe for
// concurrent Sample calls from any number of goroutines.
type Field struct {
	params Params
	res    int
	data   []mgl32.Vec4
	// Scatter points per density level, Worley only.
	points [3][]mgl32.Vec3
}

// Build generates a fresh lattice. Channels outside the mask are zero.
func Build(p Params) (*Field, error) {
	return Compose(nil, p)
}

// Compose generates a lattice for p on top of base: channels whose mask is
// zero keep base's values. base may be nil, in which case they are zero.
// base is not modified.
func Compose(base *Field, p Params) (*Field, error) {
	defer profiling.Track("noise.Build")()

	p, err := p.normalized()
	if err != nil {
		return nil, err
	}
	if base != nil && base.res != p.Resolution {
		return nil, fmt.Errorf("%w: base resolution %d, want %d", ErrInvalidParams, base.res, p.Resolution)
	}

	start := time.Now()
	f := &Field{
		params: p,
		res:    p.Resolution,
		data:   make([]mgl32.Vec4, p.Resolution*p.Resolution*p.Resolution),
	}
	if base != nil {
		copy(f.data, base.data)
	}

	eval := f.levelFunc()
	raw := make([]float32, len(f.data))
	lo, hi := f.generate(eval, raw)
	f.normalize(raw, lo, hi)

	log.Printf("noise: built %s lattice %d³ (seed %d) in %v", p.Kind, p.Resolution, p.Seed, time.Since(start))
	return f, nil
}

// levelFunc returns the scalar function for density level i.
func (f *Field) levelFunc() func(i int, pos mgl32.Vec3) float32 {
	p := f.params
	cells := p.cells()
	switch p.Kind {
	case KindPerlin:
		return func(i int, pos mgl32.Vec3) float32 {
			return perlin(cells[i], pos, p.Tile)
		}
	case KindSimplex:
		levels := newSimplexLevels(p.Seed)
		return func(i int, pos mgl32.Vec3) float32 {
			return levels.eval(i, cells[i], pos, p.Tile)
		}
	}
	rng := rand.New(rand.NewPCG(p.Seed, 0))
	for i, n := range cells {
		f.points[i] = scatterPoints(rng, n)
	}
	return func(i int, pos mgl32.Vec3) float32 {
		return worley(f.points[i], cells[i], pos, p.Tile)
	}
}

// slabs splits [0,res) along z into at most GOMAXPROCS ranges.
func (f *Field) slabs() [][2]int {
	n := min(runtime.GOMAXPROCS(0), f.res)
	out := make([][2]int, 0, n)
	for i := range n {
		out = append(out, [2]int{i * f.res / n, (i + 1) * f.res / n})
	}
	return out
}

// generate is the first pass: it writes the combined level value of every
// texel into raw and returns the global min/max of that value.
func (f *Field) generate(eval func(int, mgl32.Vec3) float32, raw []float32) (lo, hi float32) {
	p := f.params
	res := f.res
	inv := 1 / float32(res)
	norm := 1 + p.Persistence + p.Persistence*p.Persistence

	slabs := f.slabs()
	los := make([]float32, len(slabs))
	his := make([]float32, len(slabs))

	var g errgroup.Group
	for s, slab := range slabs {
		g.Go(func() error {
			l, h := math32.Inf(1), math32.Inf(-1)
			for z := slab[0]; z < slab[1]; z++ {
				for y := range res {
					for x := range res {
						pos := mgl32.Vec3{float32(x) * inv, float32(y) * inv, float32(z) * inv}
						v := (eval(0, pos) +
							eval(1, pos)*p.Persistence +
							eval(2, pos)*p.Persistence*p.Persistence) / norm
						if p.Invert {
							v = 1 - v
						}
						l = min(l, v)
						h = max(h, v)

						raw[x+res*(y+z*res)] = v
					}
				}
			}
			los[s], his[s] = l, h
			return nil
		})
	}
	_ = g.Wait()

	lo, hi = math32.Inf(1), math32.Inf(-1)
	for i := range slabs {
		lo = min(lo, los[i])
		hi = max(hi, his[i])
	}
	return lo, hi
}

// normalize is the second pass. It may only start once lo/hi are final.
// The raw value is normalized first and then blended into the masked
// channels, so a channel with weight m spans [0, m] over a zero base.
// A flat field (hi == lo) normalizes to zero.
func (f *Field) normalize(raw []float32, lo, hi float32) {
	mask := f.params.ChannelMask
	span := hi - lo
	res := f.res

	var g errgroup.Group
	for _, slab := range f.slabs() {
		g.Go(func() error {
			for i := slab[0] * res * res; i < slab[1]*res*res; i++ {
				var n float32
				if span > 0 {
					n = (raw[i] - lo) / span
				}
				f.data[i] = blend(f.data[i], n, mask)
			}
			return nil
		})
	}
	_ = g.Wait()
}

func blend(prev mgl32.Vec4, v float32, mask mgl32.Vec4) mgl32.Vec4 {
	for c := range 4 {
		prev[c] = prev[c]*(1-mask[c]) + v*mask[c]
	}
	return prev
}

// Sample returns the texel containing pos. Coordinates wrap modulo 1 on
// every axis; there is no interpolation.
func (f *Field) Sample(pos mgl32.Vec3) mgl32.Vec4 {
	res := float32(f.res)
	x := min(int(fract(pos[0])*res), f.res-1)
	y := min(int(fract(pos[1])*res), f.res-1)
	z := min(int(fract(pos[2])*res), f.res-1)
	return f.data[x+f.res*(y+z*f.res)]
}

// At returns the texel at integer lattice coordinates, wrapping periodically.
func (f *Field) At(x, y, z int) mgl32.Vec4 {
	x = wrapIndex(x, f.res)
	y = wrapIndex(y, f.res)
	z = wrapIndex(z, f.res)
	return f.data[x+f.res*(y+z*f.res)]
}

// Params returns the normalized parameters the field was built from.
func (f *Field) Params() Params { return f.params }

// Resolution returns the lattice side length.
func (f *Field) Resolution() int { return f.res }

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
