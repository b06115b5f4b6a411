package graphics

import (
	"cloudscape/internal/geom"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	maxPitch    = 89.0
	minDistance = 0.05
)

var worldUp = mgl32.Vec3{0, 1, 0}

// Camera is an arc-ball camera orbiting Pivot. Angles are in degrees.
// It is a small value type; mutators return a modified copy.
type Camera struct {
	FOV  float32
	Near float32
	Far  float32

	Pivot    mgl32.Vec3
	Distance float32
	Yaw      float32
	Pitch    float32

	PanSpeed   float32
	ZoomSpeed  float32
	OrbitSpeed float32
}

func DefaultCamera() Camera {
	return Camera{
		FOV:        60,
		Near:       0.1,
		Far:        1000,
		Distance:   6,
		Yaw:        -90,
		Pitch:      -25,
		PanSpeed:   0.005,
		ZoomSpeed:  0.1,
		OrbitSpeed: 0.3,
	}
}

// Front is the unit vector from the eye towards the pivot.
func (c Camera) Front() mgl32.Vec3 {
	y := mgl32.DegToRad(c.Yaw)
	p := mgl32.DegToRad(clampPitch(c.Pitch))
	return mgl32.Vec3{
		math32.Cos(y) * math32.Cos(p),
		math32.Sin(p),
		math32.Sin(y) * math32.Cos(p),
	}.Normalize()
}

// Position is the eye position in world space.
func (c Camera) Position() mgl32.Vec3 {
	return c.Pivot.Sub(c.Front().Mul(max(c.Distance, minDistance)))
}

func (c Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Pivot, worldUp)
}

func (c Camera) ProjectionMatrix(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// Pan slides the pivot in the view plane by a pointer drag in pixels.
func (c Camera) Pan(dx, dy float32) Camera {
	front := c.Front()
	right := front.Cross(worldUp).Normalize()
	up := right.Cross(front)
	scale := c.PanSpeed * max(c.Distance, minDistance)
	c.Pivot = c.Pivot.Add(right.Mul(-dx * scale)).Add(up.Mul(dy * scale))
	return c
}

// Zoom moves the eye towards the pivot for positive delta.
func (c Camera) Zoom(delta float32) Camera {
	c.Distance = max(minDistance, c.Distance*(1-delta*c.ZoomSpeed))
	return c
}

// Orbit rotates the eye around the pivot.
func (c Camera) Orbit(dx, dy float32) Camera {
	c.Yaw += dx * c.OrbitSpeed
	c.Pitch = clampPitch(c.Pitch - dy*c.OrbitSpeed)
	return c
}

func clampPitch(p float32) float32 {
	if p > maxPitch {
		return maxPitch
	}
	if p < -maxPitch {
		return -maxPitch
	}
	return p
}

// Viewport is a camera bound to a pixel grid with its matrices precomputed.
// It is read-only and safe to share between render workers.
type Viewport struct {
	Camera Camera
	Width  int
	Height int

	eye  mgl32.Vec3
	view mgl32.Mat4
	vp   mgl32.Mat4
	inv  mgl32.Mat4
}

func (c Camera) Viewport(width, height int) Viewport {
	width, height = max(width, 1), max(height, 1)
	view := c.ViewMatrix()
	vp := c.ProjectionMatrix(float32(width) / float32(height)).Mul4(view)
	return Viewport{
		Camera: c,
		Width:  width,
		Height: height,
		eye:    c.Position(),
		view:   view,
		vp:     vp,
		inv:    vp.Inv(),
	}
}

func (v Viewport) Eye() mgl32.Vec3 { return v.eye }

func (v Viewport) View() mgl32.Mat4 { return v.view }

func (v Viewport) ViewProj() mgl32.Mat4 { return v.vp }

// Project maps a world point to pixel coordinates (origin top-left) and a
// normalized depth in [0,1]. ok is false for points behind the eye or
// outside the near/far range.
func (v Viewport) Project(p mgl32.Vec3) (screen mgl32.Vec2, depth float32, ok bool) {
	clip := v.vp.Mul4x1(p.Vec4(1))
	w := clip[3]
	if w <= 0 {
		return mgl32.Vec2{}, 0, false
	}
	ndc := clip.Vec3().Mul(1 / w)
	depth = (ndc[2] + 1) * 0.5
	if depth < 0 || depth > 1 {
		return mgl32.Vec2{}, 0, false
	}
	screen = mgl32.Vec2{
		(ndc[0] + 1) * 0.5 * float32(v.Width),
		(1 - ndc[1]) * 0.5 * float32(v.Height),
	}
	return screen, depth, true
}

// Unproject is the inverse of Project.
func (v Viewport) Unproject(screen mgl32.Vec2, depth float32) mgl32.Vec3 {
	ndc := mgl32.Vec4{
		screen[0]/float32(v.Width)*2 - 1,
		1 - screen[1]/float32(v.Height)*2,
		depth*2 - 1,
		1,
	}
	p := v.inv.Mul4x1(ndc)
	return p.Vec3().Mul(1 / p[3])
}

// Ray returns the world ray from the eye through pixel coordinates (px, py).
// Pass px+0.5, py+0.5 to go through a pixel's center.
func (v Viewport) Ray(px, py float32) geom.Ray {
	target := v.Unproject(mgl32.Vec2{px, py}, 1)
	return geom.Ray{Origin: v.eye, Dir: target.Sub(v.eye).Normalize()}
}
