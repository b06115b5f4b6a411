package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// BoundingBox is an axis-aligned box with Min <= Max on every axis.
// Use NewBoundingBox to build one from arbitrary corners.
type BoundingBox struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewBoundingBox orders the two corners per component.
func NewBoundingBox(a, b mgl32.Vec3) BoundingBox {
	return BoundingBox{
		Min: mgl32.Vec3{min(a[0], b[0]), min(a[1], b[1]), min(a[2], b[2])},
		Max: mgl32.Vec3{max(a[0], b[0]), max(a[1], b[1]), max(a[2], b[2])},
	}
}

// Normalized returns the box with its corners reordered if needed.
func (b BoundingBox) Normalized() BoundingBox {
	return NewBoundingBox(b.Min, b.Max)
}

func (b BoundingBox) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

func (b BoundingBox) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Contains reports whether p lies inside or on the box.
func (b BoundingBox) Contains(p mgl32.Vec3) bool {
	for i := range 3 {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Corners lists the eight corners. Index bit order matches Edges.
func (b BoundingBox) Corners() [8]mgl32.Vec3 {
	x1, y1, z1 := b.Min.Elem()
	x2, y2, z2 := b.Max.Elem()
	return [8]mgl32.Vec3{
		{x1, y1, z1},
		{x2, y1, z1},
		{x1, y2, z1},
		{x1, y1, z2},
		{x2, y2, z1},
		{x2, y1, z2},
		{x1, y2, z2},
		{x2, y2, z2},
	}
}

// boxEdges indexes into Corners.
var boxEdges = [12][2]int{
	{0, 1}, {0, 2}, {0, 3},
	{1, 4}, {2, 4}, {1, 5},
	{3, 5}, {2, 6}, {3, 6},
	{4, 7}, {6, 7}, {5, 7},
}

// Edges lists the twelve edges as corner pairs.
func (b BoundingBox) Edges() [12][2]mgl32.Vec3 {
	c := b.Corners()
	var out [12][2]mgl32.Vec3
	for i, e := range boxEdges {
		out[i] = [2]mgl32.Vec3{c[e[0]], c[e[1]]}
	}
	return out
}

// Dst intersects a ray with the box using the slab method. It returns the
// distance from origin to the entry point and the distance travelled inside
// the box. Both are zero when the ray misses; toBox is zero when the origin
// is already inside.
func (b BoundingBox) Dst(origin, dir mgl32.Vec3) (toBox, inside float32) {
	near, far := math32.Inf(-1), math32.Inf(1)
	for i := range 3 {
		if dir[i] == 0 {
			// Parallel to this slab: either always within it or never.
			if origin[i] < b.Min[i] || origin[i] > b.Max[i] {
				return 0, 0
			}
			continue
		}
		t0 := (b.Min[i] - origin[i]) / dir[i]
		t1 := (b.Max[i] - origin[i]) / dir[i]
		near = max(near, min(t0, t1))
		far = min(far, max(t0, t1))
	}
	if far < max(near, 0) {
		return 0, 0
	}
	toBox = max(0, near)
	inside = max(0, far-toBox)
	return toBox, inside
}
