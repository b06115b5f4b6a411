package geom

import "github.com/go-gl/mathgl/mgl32"

// Ray is a half-line. Dir is expected to be unit length.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// IntersectBox is BoundingBox.Dst with the ray's own origin and direction.
func (r Ray) IntersectBox(b BoundingBox) (toBox, inside float32) {
	return b.Dst(r.Origin, r.Dir)
}

// PlaneDistance returns the distance along the ray to the plane through
// point with the given normal. ok is false when the ray is parallel to the
// plane or the plane lies behind the origin.
func (r Ray) PlaneDistance(point, normal mgl32.Vec3) (t float32, ok bool) {
	denom := normal.Dot(r.Dir)
	if denom == 0 {
		return 0, false
	}
	t = normal.Dot(point.Sub(r.Origin)) / denom
	return t, t >= 0
}
