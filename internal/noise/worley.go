package noise

import (
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// scatterPoints places one jittered point in every cell of an n×n×n grid
// spanning the unit cube. Index layout is x + n*(y + z*n).
func scatterPoints(rng *rand.Rand, n int) []mgl32.Vec3 {
	points := make([]mgl32.Vec3, n*n*n)
	cell := 1 / float32(n)
	for x := range n {
		for y := range n {
			for z := range n {
				jitter := mgl32.Vec3{rng.Float32(), rng.Float32(), rng.Float32()}
				corner := mgl32.Vec3{float32(x), float32(y), float32(z)}
				points[x+n*(y+z*n)] = corner.Add(jitter).Mul(cell)
			}
		}
	}
	return points
}

// worley returns the distance from pos to the nearest scatter point in the
// 27 cells around it. Neighbours past the tile edge wrap to the opposite
// side and their points are shifted by a whole tile so distances stay
// continuous across the seam. Result is capped at 1.
func worley(points []mgl32.Vec3, n int, pos mgl32.Vec3, tile float32) float32 {
	p := wrapUnit(pos.Mul(tile))
	nf := float32(n)
	cx := int(math32.Floor(p[0] * nf))
	cy := int(math32.Floor(p[1] * nf))
	cz := int(math32.Floor(p[2] * nf))

	minSq := float32(1)
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				ax, sx := wrapCell(cx+dx, n)
				ay, sy := wrapCell(cy+dy, n)
				az, sz := wrapCell(cz+dz, n)
				pt := points[ax+n*(ay+az*n)]
				off := mgl32.Vec3{
					p[0] - (pt[0] + sx),
					p[1] - (pt[1] + sy),
					p[2] - (pt[2] + sz),
				}
				if d := off.Dot(off); d < minSq {
					minSq = d
				}
			}
		}
	}
	return math32.Sqrt(minSq)
}

// wrapCell maps a possibly out-of-range cell index into [0,n) and returns
// the unit-space shift of the image that index refers to.
func wrapCell(i, n int) (int, float32) {
	switch {
	case i < 0:
		return i + n, -1
	case i >= n:
		return i - n, 1
	}
	return i, 0
}

// wrapUnit wraps each component into [0,1).
func wrapUnit(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{fract(v[0]), fract(v[1]), fract(v[2])}
}

func fract(f float32) float32 {
	r := f - math32.Floor(f)
	if r >= 1 {
		// f slightly below an integer can round up to exactly 1
		return 0
	}
	return r
}
