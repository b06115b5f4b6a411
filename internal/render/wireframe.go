package render

import (
	"image"
	"image/color"

	"cloudscape/internal/geom"
	"cloudscape/internal/graphics"
	"cloudscape/internal/profiling"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Wireframe draws world-space line overlays: a ground grid and bounding
// box outlines.
type Wireframe struct {
	Color color.NRGBA
	// Dash is the on/off run length in pixels; zero draws solid lines.
	Dash int
}

// DrawSegment projects a world segment and draws it. Segments with an end
// that fails projection are skipped.
func (wf Wireframe) DrawSegment(img *image.NRGBA, vp graphics.Viewport, a, b mgl32.Vec3) {
	sa, _, okA := vp.Project(a)
	sb, _, okB := vp.Project(b)
	if !okA || !okB {
		return
	}
	wf.drawLine(img, sa, sb)
}

// DrawBox outlines the 12 edges of a box.
func (wf Wireframe) DrawBox(img *image.NRGBA, vp graphics.Viewport, box geom.BoundingBox) {
	defer profiling.Track("render.Box")()
	for _, e := range box.Edges() {
		wf.DrawSegment(img, vp, e[0], e[1])
	}
}

// DrawGrid draws lines every spacing units across the square [-extent,
// extent] on the plane y = height.
func (wf Wireframe) DrawGrid(img *image.NRGBA, vp graphics.Viewport, extent, spacing, height float32) {
	defer profiling.Track("render.Grid")()
	if spacing <= 0 || extent <= 0 {
		return
	}
	n := int(math32.Floor(extent / spacing))
	for i := -n; i <= n; i++ {
		o := float32(i) * spacing
		wf.DrawSegment(img, vp, mgl32.Vec3{o, height, -extent}, mgl32.Vec3{o, height, extent})
		wf.DrawSegment(img, vp, mgl32.Vec3{-extent, height, o}, mgl32.Vec3{extent, height, o})
	}
}

// drawLine walks the segment with Bresenham's algorithm, clipped to img.
func (wf Wireframe) drawLine(img *image.NRGBA, a, b mgl32.Vec2) {
	a, b, ok := clipSegment(a, b, img.Bounds())
	if !ok {
		return
	}
	x0, y0 := int(math32.Floor(a[0])), int(math32.Floor(a[1]))
	x1, y1 := int(math32.Floor(b[0])), int(math32.Floor(b[1]))

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	bounds := img.Bounds()
	err := dx + dy
	for step := 0; ; step++ {
		if wf.Dash <= 0 || (step/wf.Dash)%2 == 0 {
			if (image.Point{X: x0, Y: y0}).In(bounds) {
				img.SetNRGBA(x0, y0, wf.Color)
			}
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// clipSegment clips a→b to r with the Liang-Barsky parametric test.
func clipSegment(a, b mgl32.Vec2, r image.Rectangle) (mgl32.Vec2, mgl32.Vec2, bool) {
	d := b.Sub(a)
	t0, t1 := float32(0), float32(1)
	clip := func(p, q float32) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return false
			}
			t1 = min(t1, t)
		}
		return true
	}
	minX, minY := float32(r.Min.X), float32(r.Min.Y)
	maxX, maxY := float32(r.Max.X)-0.001, float32(r.Max.Y)-0.001
	if !clip(-d[0], a[0]-minX) || !clip(d[0], maxX-a[0]) ||
		!clip(-d[1], a[1]-minY) || !clip(d[1], maxY-a[1]) {
		return a, b, false
	}
	return a.Add(d.Mul(t0)), a.Add(d.Mul(t1)), true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
