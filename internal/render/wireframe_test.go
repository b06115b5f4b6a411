package render

import (
	"image"
	"image/color"
	"testing"

	"cloudscape/internal/geom"
	"cloudscape/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

func countSet(img *image.NRGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			n++
		}
	}
	return n
}

func TestClipSegment(t *testing.T) {
	r := image.Rect(0, 0, 10, 10)
	a, b, ok := clipSegment(mgl32.Vec2{-10, 5}, mgl32.Vec2{20, 5}, r)
	if !ok {
		t.Fatal("horizontal line through the rect should survive clipping")
	}
	if a[0] < -0.01 || a[0] > 0.01 || b[0] >= 10 {
		t.Errorf("clipped to %v..%v", a, b)
	}
	if _, _, ok := clipSegment(mgl32.Vec2{-5, -5}, mgl32.Vec2{-1, 20}, r); ok {
		t.Error("segment left of the rect should be rejected")
	}
}

func TestDashedLineHasGaps(t *testing.T) {
	solid := image.NewNRGBA(image.Rect(0, 0, 40, 1))
	dashed := image.NewNRGBA(image.Rect(0, 0, 40, 1))
	c := color.NRGBA{R: 255, A: 255}

	Wireframe{Color: c}.drawLine(solid, mgl32.Vec2{0, 0}, mgl32.Vec2{39, 0})
	Wireframe{Color: c, Dash: 4}.drawLine(dashed, mgl32.Vec2{0, 0}, mgl32.Vec2{39, 0})

	if got := countSet(solid); got != 40 {
		t.Errorf("solid line set %d pixels, want 40", got)
	}
	if got := countSet(dashed); got != 20 {
		t.Errorf("dashed line set %d pixels, want 20", got)
	}
}

func TestDrawBoxAndGrid(t *testing.T) {
	cam := graphics.DefaultCamera()
	vp := cam.Viewport(64, 48)
	img := image.NewNRGBA(image.Rect(0, 0, 64, 48))
	wf := Wireframe{Color: color.NRGBA{G: 255, A: 255}}

	wf.DrawBox(img, vp, geom.NewBoundingBox(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}))
	if countSet(img) == 0 {
		t.Fatal("box outline should be visible")
	}
	before := countSet(img)
	wf.DrawGrid(img, vp, 3, 1, -1)
	if countSet(img) <= before {
		t.Error("grid should add pixels")
	}
}
