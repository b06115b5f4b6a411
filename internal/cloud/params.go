package cloud

import (
	"errors"
	"fmt"
	"image/color"

	"cloudscape/internal/geom"
	"cloudscape/internal/noise"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var ErrInvalidParams = errors.New("cloud: invalid parameters")

// Params is the full description of a cloud volume. It is a plain value:
// setters copy it, modify the copy and install the result.
type Params struct {
	Box geom.BoundingBox

	// Offset scrolls the shape noise, DetailOffset the detail noise.
	Offset       mgl32.Vec3
	DetailOffset mgl32.Vec3
	Scale        float32

	// Samples at or below DensityThreshold are skipped by the primary march.
	DensityThreshold  float32
	DensityOffset     float32
	DensityMultiplier float32

	NumSteps      int
	NumStepsLight int

	DetailNoiseScale  float32
	DetailNoiseWeight float32

	// Per-channel weights, normalized to sum to 1 before use.
	ShapeWeights  mgl32.Vec4
	DetailWeights mgl32.Vec4

	// PhaseParams is (forward g, back g, base, multiplier).
	PhaseParams mgl32.Vec4

	LightAbsorptionTowardSun    float32
	LightAbsorptionThroughCloud float32
	DarknessThreshold           float32
	HeightMapFactor             float32
	EdgeDistance                float32
	GlowExponent                float32

	ColA       color.NRGBA
	ColB       color.NRGBA
	LightColor color.NRGBA

	Shape  noise.Params
	Detail noise.Params
	// Weather is optional. When set its first channel perturbs the
	// vertical density profile.
	Weather *noise.Params
}

// DefaultParams returns the tuned research scene.
func DefaultParams() Params {
	weather := noise.Params{
		Kind:        noise.KindPerlin,
		CellsA:      1,
		CellsB:      27,
		CellsC:      29,
		Persistence: 0.8,
		Tile:        1,
		Resolution:  128,
		ChannelMask: mgl32.Vec4{1, 1, 1, 1},
	}
	return Params{
		Box:                         geom.NewBoundingBox(mgl32.Vec3{-3.5, 1.9, -3.5}, mgl32.Vec3{3.5, 2.5, 3.5}),
		Scale:                       200,
		DensityMultiplier:           360,
		DensityOffset:               -9.3,
		NumSteps:                    130,
		NumStepsLight:               10,
		DetailNoiseScale:            1.09,
		DetailNoiseWeight:           1,
		ShapeWeights:                mgl32.Vec4{3, 6, 5, 1},
		DetailWeights:               mgl32.Vec4{4, 1.5, 1.5, 3},
		PhaseParams:                 mgl32.Vec4{0, 0.48, 0.37, 0.99},
		LightAbsorptionTowardSun:    0.55,
		LightAbsorptionThroughCloud: 1.8,
		DarknessThreshold:           0.18,
		HeightMapFactor:             2,
		EdgeDistance:                1,
		GlowExponent:                8,
		ColA:                        color.NRGBA{R: 222, G: 233, B: 246, A: 255},
		ColB:                        color.NRGBA{R: 104, G: 158, B: 224, A: 255},
		LightColor:                  color.NRGBA{R: 255, G: 250, B: 240, A: 255},
		Shape: noise.Params{
			Kind:        noise.KindWorley,
			CellsA:      6,
			CellsB:      12,
			CellsC:      22,
			Persistence: 0.84,
			Tile:        1,
			Resolution:  128,
			Invert:      true,
			ChannelMask: mgl32.Vec4{0.9, 1, 1, 1},
		},
		Detail: noise.Params{
			Kind:        noise.KindWorley,
			CellsA:      7,
			CellsB:      7,
			CellsC:      11,
			Persistence: 0.89,
			Tile:        1,
			Resolution:  64,
			Invert:      true,
			ChannelMask: mgl32.Vec4{1, 1, 1, 1},
		},
		Weather: &weather,
	}
}

// normalized orders the box corners, clamps step counts to at least one and
// rejects non-finite numbers.
func (p Params) normalized() (Params, error) {
	p.Box = p.Box.Normalized()
	p.NumSteps = max(p.NumSteps, 1)
	p.NumStepsLight = max(p.NumStepsLight, 1)

	scalars := []struct {
		name string
		v    float32
	}{
		{"scale", p.Scale},
		{"density threshold", p.DensityThreshold},
		{"density offset", p.DensityOffset},
		{"density multiplier", p.DensityMultiplier},
		{"detail noise scale", p.DetailNoiseScale},
		{"detail noise weight", p.DetailNoiseWeight},
		{"light absorption toward sun", p.LightAbsorptionTowardSun},
		{"light absorption through cloud", p.LightAbsorptionThroughCloud},
		{"darkness threshold", p.DarknessThreshold},
		{"height map factor", p.HeightMapFactor},
		{"edge distance", p.EdgeDistance},
		{"glow exponent", p.GlowExponent},
	}
	for _, s := range scalars {
		if !finite(s.v) {
			return p, fmt.Errorf("%w: %s is %v", ErrInvalidParams, s.name, s.v)
		}
	}
	vectors := []struct {
		name string
		v    []float32
	}{
		{"box min", p.Box.Min[:]},
		{"box max", p.Box.Max[:]},
		{"offset", p.Offset[:]},
		{"detail offset", p.DetailOffset[:]},
		{"shape weights", p.ShapeWeights[:]},
		{"detail weights", p.DetailWeights[:]},
		{"phase params", p.PhaseParams[:]},
	}
	for _, vec := range vectors {
		for _, v := range vec.v {
			if !finite(v) {
				return p, fmt.Errorf("%w: %s contains %v", ErrInvalidParams, vec.name, v)
			}
		}
	}
	return p, nil
}

// normalizeWeights scales w to sum to 1. An all-zero vector stays zero.
func normalizeWeights(w mgl32.Vec4) mgl32.Vec4 {
	sum := w[0] + w[1] + w[2] + w[3]
	if sum == 0 {
		return mgl32.Vec4{}
	}
	return w.Mul(1 / sum)
}

func colorVec(c color.NRGBA) mgl32.Vec3 {
	return mgl32.Vec3{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

func finite(f float32) bool {
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}
