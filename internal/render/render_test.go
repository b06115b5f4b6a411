package render_test

import (
	"testing"

	"cloudscape/internal/cloud"
	"cloudscape/internal/geom"
	"cloudscape/internal/graphics"
	"cloudscape/internal/render"

	"github.com/go-gl/mathgl/mgl32"
)

// cloudParams is a small, dense cloud layer in the box used by the editor.
func cloudParams(multiplier float32) cloud.Params {
	p := cloud.DefaultParams()
	p.Box = geom.NewBoundingBox(mgl32.Vec3{-1, 1, -1}, mgl32.Vec3{1, 1.5, 1})
	p.Scale = 500
	p.DensityOffset = 2
	p.DensityMultiplier = multiplier
	p.NumSteps = 24
	p.NumStepsLight = 4
	p.Shape.Resolution = 16
	p.Detail.Resolution = 8
	p.Weather = nil
	return p
}

func buildClouds(t testing.TB, p cloud.Params) *cloud.Snapshot {
	t.Helper()
	v, err := cloud.Build(p)
	if err != nil {
		t.Fatalf("cloud.Build: %v", err)
	}
	return v.Snapshot()
}

// topDown looks straight down the box's vertical axis.
func topDown() graphics.Camera {
	cam := graphics.DefaultCamera()
	cam.Pivot = mgl32.Vec3{0, 1.25, 0}
	cam.Distance = 3
	cam.Pitch = -89
	return cam
}

var overhead = graphics.NewSun(10, -90)

// TestEmptyCloudIsTransparent verifies a zero density multiplier leaves every pixel clear
func TestEmptyCloudIsTransparent(t *testing.T) {
	s := buildClouds(t, cloudParams(0))
	in := &render.Integrator{Workers: 2}
	const size = 24
	img := in.Render(s, topDown(), overhead, size, size)

	vp := topDown().Viewport(size, size)
	hits := 0
	for y := range size {
		for x := range size {
			if a := img.NRGBAAt(x, y).A; a != 0 {
				t.Fatalf("pixel (%d,%d) alpha %d, want 0", x, y, a)
			}
			smp := in.Trace(s, vp.Ray(float32(x)+0.5, float32(y)+0.5), overhead)
			if smp.Hit {
				hits++
				if smp.Transmittance != 1 {
					t.Fatalf("pixel (%d,%d) transmittance %v, want 1", x, y, smp.Transmittance)
				}
			}
		}
	}
	if hits == 0 {
		t.Fatal("camera should see the box")
	}
}

func TestDenseCloudAttenuates(t *testing.T) {
	s := buildClouds(t, cloudParams(50))
	in := &render.Integrator{Workers: 2}
	const size = 24
	vp := topDown().Viewport(size, size)

	minT := float32(1)
	for y := range size {
		for x := range size {
			smp := in.Trace(s, vp.Ray(float32(x)+0.5, float32(y)+0.5), overhead)
			minT = min(minT, smp.Transmittance)
		}
	}
	if minT >= 0.99 {
		t.Fatalf("expected some pixel below 0.99 transmittance, min was %v", minT)
	}

	img := in.Render(s, topDown(), overhead, size, size)
	if img.NRGBAAt(size/2, size/2).A == 0 {
		t.Error("center pixel should be covered by cloud")
	}
}

func TestMissLeavesSky(t *testing.T) {
	s := buildClouds(t, cloudParams(50))
	in := &render.Integrator{}
	ray := geom.Ray{Origin: mgl32.Vec3{0, 5, 0}, Dir: mgl32.Vec3{0, 1, 0}}
	smp := in.Trace(s, ray, overhead)
	if smp.Hit || smp.Transmittance != 1 || smp.LightEnergy != 0 {
		t.Errorf("ray away from the box: %+v", smp)
	}
}

// TestTransmittanceMonotonic verifies stronger absorption never lets more light through
func TestTransmittanceMonotonic(t *testing.T) {
	v, err := cloud.Build(cloudParams(20))
	if err != nil {
		t.Fatal(err)
	}
	in := &render.Integrator{DisableEarlyExit: true}
	rays := []geom.Ray{
		{Origin: mgl32.Vec3{0, 3, 0}, Dir: mgl32.Vec3{0, -1, 0}},
		{Origin: mgl32.Vec3{0.3, 3, -0.2}, Dir: mgl32.Vec3{0.1, -1, 0.2}.Normalize()},
		{Origin: mgl32.Vec3{-3, 1.25, 0}, Dir: mgl32.Vec3{1, 0, 0}},
	}
	for _, ray := range rays {
		prev := float32(2)
		for _, a := range []float32{0, 0.5, 1, 1.8, 4, 10} {
			if err := v.SetLightAbsorption(0.55, a); err != nil {
				t.Fatal(err)
			}
			tr := in.Trace(v.Snapshot(), ray, overhead).Transmittance
			if tr > prev {
				t.Errorf("ray %v: absorption %v gave transmittance %v > %v", ray, a, tr, prev)
			}
			prev = tr
		}
	}
}

// TestEarlyExitWithinTolerance verifies stopping at saturation barely changes the image
func TestEarlyExitWithinTolerance(t *testing.T) {
	s := buildClouds(t, cloudParams(200))
	const size = 16
	fast := (&render.Integrator{Workers: 2, Opaque: true}).Render(s, topDown(), overhead, size, size)
	full := (&render.Integrator{Workers: 2, Opaque: true, DisableEarlyExit: true}).Render(s, topDown(), overhead, size, size)

	const tolerance = 8
	for i := range fast.Pix {
		d := int(fast.Pix[i]) - int(full.Pix[i])
		if d > tolerance || d < -tolerance {
			t.Fatalf("byte %d differs by %d", i, d)
		}
	}
}

func TestOffscreenCloudSkipsMarching(t *testing.T) {
	s := buildClouds(t, cloudParams(50))
	cam := graphics.DefaultCamera()
	cam.Pivot = mgl32.Vec3{0, 1.25, -20}
	cam.Pitch = 0

	img := (&render.Integrator{Workers: 2}).Render(s, cam, overhead, 16, 16)
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			t.Fatalf("alpha byte %d = %d, want fully transparent", i, img.Pix[i])
		}
	}

	opaque := (&render.Integrator{Workers: 2, Opaque: true}).Render(s, cam, overhead, 16, 16)
	if opaque.NRGBAAt(8, 8).A != 255 {
		t.Error("opaque mode should still paint the sky")
	}
}

// TestOverlayKeepsSunGlow verifies the glow reaches the transparent layer,
// not only the opaque one
func TestOverlayKeepsSunGlow(t *testing.T) {
	s := buildClouds(t, cloudParams(0))
	sun := graphics.NewSun(10, -135)
	cam := graphics.DefaultCamera()
	cam.Yaw = 0
	cam.Pitch = 45
	if d := cam.Front().Sub(sun.Direction()).Len(); d > 1e-3 {
		t.Fatalf("camera front %v should face the sun %v", cam.Front(), sun.Direction())
	}

	const size = 17
	img := (&render.Integrator{Workers: 2}).Render(s, cam, sun, size, size)
	if got := img.NRGBAAt(size/2, size/2); got.A < 250 {
		t.Errorf("pixel towards the sun = %v, want an opaque glow", got)
	}
	if got := img.NRGBAAt(0, size-1); got.A != 0 {
		t.Errorf("pixel away from the sun = %v, want transparent", got)
	}
}

func BenchmarkRenderClouds(b *testing.B) {
	s := buildClouds(b, cloudParams(50))
	pool := render.NewWorkerPool(4, 16)
	defer pool.Shutdown()
	in := &render.Integrator{Pool: pool}
	cam := topDown()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = in.Render(s, cam, overhead, 64, 64)
	}
}
