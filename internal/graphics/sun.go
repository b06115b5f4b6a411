package graphics

import "github.com/go-gl/mathgl/mgl32"

// Sun is a directional light placed on a sphere around the origin.
// Zenith rotates about z, Azimuth about y; both in degrees.
type Sun struct {
	Distance float32
	Azimuth  float32
	Zenith   float32
}

func NewSun(distance, zenith float32) Sun {
	return Sun{Distance: distance, Zenith: zenith}
}

// Position rotates (-1,0,0) by the zenith, then the azimuth, scaled by
// Distance.
func (s Sun) Position() mgl32.Vec3 {
	m := mgl32.HomogRotate3DY(mgl32.DegToRad(s.Azimuth)).
		Mul4(mgl32.HomogRotate3DZ(mgl32.DegToRad(s.Zenith))).
		Mul4(mgl32.Scale3D(s.Distance, s.Distance, s.Distance))
	return m.Mul4x1(mgl32.Vec4{-1, 0, 0, 0}).Vec3()
}

// Direction is the unit vector from the origin towards the sun.
func (s Sun) Direction() mgl32.Vec3 {
	p := s.Position()
	if p.Len() == 0 {
		return worldUp
	}
	return p.Normalize()
}
