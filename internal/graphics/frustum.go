package graphics

import (
	"cloudscape/internal/geom"

	"github.com/go-gl/mathgl/mgl32"
)

// Frustum holds six normalized planes (a, b, c, d) with normals pointing
// inward, in order: left, right, bottom, top, near, far.
type Frustum [6]mgl32.Vec4

// Frustum extracts the view volume planes from the combined
// projection*view matrix.
func (v Viewport) Frustum() Frustum {
	clip := v.vp
	// mgl32 matrices are column-major; row i is (clip[i], clip[4+i], ...).
	row := func(i int) mgl32.Vec4 {
		return mgl32.Vec4{clip[i], clip[4+i], clip[8+i], clip[12+i]}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	return Frustum{
		normalizePlane(r3.Add(r0)),
		normalizePlane(r3.Sub(r0)),
		normalizePlane(r3.Add(r1)),
		normalizePlane(r3.Sub(r1)),
		normalizePlane(r3.Add(r2)),
		normalizePlane(r3.Sub(r2)),
	}
}

func normalizePlane(p mgl32.Vec4) mgl32.Vec4 {
	l := p.Vec3().Len()
	if l == 0 {
		return p
	}
	return p.Mul(1 / l)
}

// IntersectsBox reports whether any part of b may be inside the frustum.
// It is conservative: some boxes just outside a corner still pass.
func (f Frustum) IntersectsBox(b geom.BoundingBox) bool {
	for _, p := range f {
		// Positive vertex: the corner furthest along the plane normal.
		var v mgl32.Vec3
		for i := range 3 {
			if p[i] < 0 {
				v[i] = b.Min[i]
			} else {
				v[i] = b.Max[i]
			}
		}
		if p.Vec3().Dot(v)+p[3] < 0 {
			return false
		}
	}
	return true
}
