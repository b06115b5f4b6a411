package cloud

import (
	"cloudscape/internal/geom"
	"cloudscape/internal/noise"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	baseScale   = 1.0 / 1000
	offsetSpeed = 1.0 / 100

	// Vertical profile without a weather mask.
	gradientMin = 0.2
	gradientMax = 0.7
)

// Snapshot is an immutable view of a volume: parameters plus the noise
// fields built from them. Every method is safe for concurrent use.
type Snapshot struct {
	params  Params
	shape   *noise.Field
	detail  *noise.Field
	weather *noise.Field

	shapeWeights  mgl32.Vec4
	detailWeights mgl32.Vec4
	colA          mgl32.Vec3
	colB          mgl32.Vec3
	lightColor    mgl32.Vec3
}

func newSnapshot(p Params, shape, detail, weather *noise.Field) *Snapshot {
	return &Snapshot{
		params:        p,
		shape:         shape,
		detail:        detail,
		weather:       weather,
		shapeWeights:  normalizeWeights(p.ShapeWeights),
		detailWeights: normalizeWeights(p.DetailWeights),
		colA:          colorVec(p.ColA),
		colB:          colorVec(p.ColB),
		lightColor:    colorVec(p.LightColor),
	}
}

func (s *Snapshot) Params() Params { return s.params }

func (s *Snapshot) Box() geom.BoundingBox { return s.params.Box }

// SkyColors returns the horizon and zenith tints in [0,1].
func (s *Snapshot) SkyColors() (horizon, zenith mgl32.Vec3) { return s.colA, s.colB }

func (s *Snapshot) LightColor() mgl32.Vec3 { return s.lightColor }

// DensityAt returns the cloud density at a world position. It is exactly
// zero wherever the base shape density is not positive.
func (s *Snapshot) DensityAt(pos mgl32.Vec3) float32 {
	p := &s.params
	uvw := pos.Mul(p.Scale * baseScale)
	shapePos := uvw.Add(p.Offset.Mul(offsetSpeed))

	gradient := s.heightGradient(pos, shapePos)
	shapeFbm := s.shape.Sample(shapePos).Dot(s.shapeWeights) * gradient
	base := shapeFbm + p.DensityOffset*0.1
	if !(base > 0) {
		return 0
	}

	detailPos := uvw.Mul(p.DetailNoiseScale).Add(p.DetailOffset.Mul(offsetSpeed))
	detailFbm := s.detail.Sample(detailPos).Dot(s.detailWeights)

	oneMinusShape := 1 - shapeFbm
	erosion := oneMinusShape * oneMinusShape * oneMinusShape * (1 - detailFbm) * p.DetailNoiseWeight
	return (base - erosion) * p.DensityMultiplier
}

// heightGradient is the bell-shaped vertical falloff times the fade towards
// the horizontal box edges.
func (s *Snapshot) heightGradient(pos, shapePos mgl32.Vec3) float32 {
	box := s.params.Box
	size := box.Size()
	if size[1] <= 0 {
		return 0
	}

	gMin, gMax := float32(gradientMin), float32(gradientMax)
	if s.weather != nil {
		wm := s.weather.Sample(mgl32.Vec3{shapePos[0], 0, shapePos[2]})[0]
		wm = saturate(wm * s.params.HeightMapFactor)
		gMin = remap(wm, 0, 1, 0.1, 0.5)
		gMax = remap(wm, 0, 1, gMin, 0.9)
	}

	h := (pos[1] - box.Min[1]) / size[1]
	g := saturate(remap(h, 0, gMin, 0, 1)) * saturate(remap(h, 1, gMax, 0, 1))
	return g * s.edgeWeight(pos)
}

func (s *Snapshot) edgeWeight(pos mgl32.Vec3) float32 {
	fade := s.params.EdgeDistance
	if fade <= 0 {
		return 1
	}
	box := s.params.Box
	dx := min(pos[0]-box.Min[0], box.Max[0]-pos[0])
	dz := min(pos[2]-box.Min[2], box.Max[2]-pos[2])
	return saturate(min(fade, dx, dz) / fade)
}

// TransmittanceToLight marches from pos towards the light using the
// configured light step count.
func (s *Snapshot) TransmittanceToLight(pos, lightDir mgl32.Vec3) float32 {
	return s.TransmittanceToLightSteps(pos, lightDir, s.params.NumStepsLight)
}

// TransmittanceToLightSteps returns the fraction of light reaching pos from
// direction lightDir, floored at the darkness threshold. Positions outside
// the box march from where the light ray enters it.
func (s *Snapshot) TransmittanceToLightSteps(pos, lightDir mgl32.Vec3, steps int) float32 {
	steps = max(steps, 1)
	toBox, inside := s.params.Box.Dst(pos, lightDir)
	if inside <= 0 {
		return 1
	}
	stepSize := inside / float32(steps)
	start := pos.Add(lightDir.Mul(toBox))

	var total float32
	for i := 1; i <= steps; i++ {
		total += max(0, s.DensityAt(start.Add(lightDir.Mul(stepSize*float32(i)))))
	}
	t := Beer(total * s.params.LightAbsorptionTowardSun * stepSize)
	// Same as d + t*(1-d), but exactly 1 when nothing is absorbed.
	d := s.params.DarknessThreshold
	return 1 - (1-d)*(1-t)
}

// Phase blends a forward and a back Henyey-Greenstein lobe for the cosine
// between the view ray and the light direction.
func (s *Snapshot) Phase(cosAngle float32) float32 {
	pp := s.params.PhaseParams
	blend := HenyeyGreenstein(cosAngle, pp[0])*0.5 + HenyeyGreenstein(cosAngle, -pp[1])*0.5
	return pp[2] + blend*pp[3]
}

// HenyeyGreenstein evaluates the phase function for anisotropy g.
func HenyeyGreenstein(cosAngle, g float32) float32 {
	g2 := g * g
	d := 1 + g2 - 2*g*cosAngle
	if d <= 0 {
		return 0
	}
	return (1 - g2) / (4 * math32.Pi * math32.Pow(d, 1.5))
}

// Beer is the Beer-Lambert attenuation for an optical depth.
func Beer(d float32) float32 {
	return math32.Exp(-d)
}

func remap(v, lo, hi, newLo, newHi float32) float32 {
	return newLo + (v-lo)*(newHi-newLo)/(hi-lo)
}

func saturate(v float32) float32 {
	return min(max(v, 0), 1)
}
