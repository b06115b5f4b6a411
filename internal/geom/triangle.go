package geom

import "github.com/go-gl/mathgl/mgl32"

// FaceNormal is the unnormalized cross product of the edges a→b and a→c.
func FaceNormal(a, b, c mgl32.Vec3) mgl32.Vec3 {
	return b.Sub(a).Cross(c.Sub(a))
}

// EdgeFunction is twice the signed area of the 2D triangle (a, b, p).
// Its sign tells which side of the directed edge a→b the point p is on.
func EdgeFunction(a, b, p mgl32.Vec2) float32 {
	return (b[0]-a[0])*(p[1]-a[1]) - (b[1]-a[1])*(p[0]-a[0])
}

// Barycentric returns the weights of p relative to the 2D triangle
// (a, b, c). ok is false for degenerate triangles. At a vertex the weight
// of that vertex is exactly 1 and the others exactly 0.
func Barycentric(a, b, c, p mgl32.Vec2) (w mgl32.Vec3, ok bool) {
	area := EdgeFunction(a, b, c)
	if area == 0 {
		return mgl32.Vec3{}, false
	}
	switch p {
	case a:
		return mgl32.Vec3{1, 0, 0}, true
	case b:
		return mgl32.Vec3{0, 1, 0}, true
	case c:
		return mgl32.Vec3{0, 0, 1}, true
	}
	w0 := EdgeFunction(b, c, p) / area
	w1 := EdgeFunction(c, a, p) / area
	w2 := EdgeFunction(a, b, p) / area
	return mgl32.Vec3{w0, w1, w2}, true
}

// Inside reports whether barycentric weights describe a point inside the
// triangle or on its boundary.
func Inside(w mgl32.Vec3) bool {
	return w[0] >= 0 && w[1] >= 0 && w[2] >= 0
}

// Interpolate blends three vectors with barycentric weights.
func Interpolate(w mgl32.Vec3, a, b, c mgl32.Vec3) mgl32.Vec3 {
	return a.Mul(w[0]).Add(b.Mul(w[1])).Add(c.Mul(w[2]))
}

// InterpolateScalar blends three scalars with barycentric weights.
func InterpolateScalar(w mgl32.Vec3, a, b, c float32) float32 {
	return a*w[0] + b*w[1] + c*w[2]
}
