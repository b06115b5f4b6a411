package render_test

import (
	"image/color"
	"testing"

	"cloudscape/internal/geom"
	"cloudscape/internal/graphics"
	"cloudscape/internal/render"
	"cloudscape/internal/terrain"

	"github.com/go-gl/mathgl/mgl32"
)

func flatTerrain(t testing.TB) *terrain.Snapshot {
	t.Helper()
	p := terrain.DefaultParams()
	p.Box = geom.NewBoundingBox(mgl32.Vec3{-1, 0, -1}, mgl32.Vec3{1, 0.2, 1})
	p.Scale = 4
	p.NoiseWeight = mgl32.Vec4{}
	p.Noise.Resolution = 8
	f, err := terrain.Build(p)
	if err != nil {
		t.Fatalf("terrain.Build: %v", err)
	}
	return f.Snapshot()
}

func groundCamera() graphics.Camera {
	cam := graphics.DefaultCamera()
	cam.Distance = 4
	cam.Pitch = -89
	return cam
}

func near(a, b color.NRGBA, tol int) bool {
	d := func(x, y uint8) bool { v := int(x) - int(y); return v <= tol && v >= -tol }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func TestRasterizeFlatTerrain(t *testing.T) {
	ts := flatTerrain(t)
	r := &render.Rasterizer{Workers: 2, TileSize: 8}
	const size = 32
	img := r.Render(ts, nil, groundCamera(), overhead, size, size)

	want := ts.Params().BottomColor
	if got := img.NRGBAAt(size/2, size/2); !near(got, want, 1) {
		t.Errorf("center pixel %v, want lit bottom color %v", got, want)
	}
	// The 2x2 patch seen from 4 units away does not reach the corners.
	if got := img.NRGBAAt(0, 0); got.A != 0 {
		t.Errorf("corner pixel should be empty, got %v", got)
	}
}

// TestTileSizeDoesNotChangeImage verifies tiling is only a partition of the work
func TestTileSizeDoesNotChangeImage(t *testing.T) {
	p := terrain.DefaultParams()
	p.Scale = 12
	p.Noise.Resolution = 16
	f, err := terrain.Build(p)
	if err != nil {
		t.Fatal(err)
	}
	cam := graphics.DefaultCamera()
	cam.Distance = 9

	a := (&render.Rasterizer{Workers: 1, TileSize: 8}).Render(f.Snapshot(), nil, cam, overhead, 48, 40)
	b := (&render.Rasterizer{Workers: 4, TileSize: 64}).Render(f.Snapshot(), nil, cam, overhead, 48, 40)
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("byte %d differs between tile sizes: %d vs %d", i, a.Pix[i], b.Pix[i])
		}
	}
}

func TestCloudShadowDarkensTerrain(t *testing.T) {
	ts := flatTerrain(t)
	r := &render.Rasterizer{Workers: 2}
	const size = 16
	lit := r.Render(ts, nil, groundCamera(), overhead, size, size)

	cp := cloudParams(200)
	shadowed := r.Render(ts, buildClouds(t, cp), groundCamera(), overhead, size, size)

	c := lit.NRGBAAt(size/2, size/2)
	s := shadowed.NRGBAAt(size/2, size/2)
	if s.A == 0 {
		t.Fatal("shadowed terrain should still be drawn")
	}
	if s.G >= c.G {
		t.Errorf("shadow should darken: lit %v, shadowed %v", c, s)
	}
	floor := float32(c.G) * ts.Params().ShadowThreshold
	if float32(s.G) < floor-1 {
		t.Errorf("shadow darker than threshold allows: %v < %v", s.G, floor)
	}
}

func BenchmarkRasterize(b *testing.B) {
	p := terrain.DefaultParams()
	p.Noise.Resolution = 32
	f, err := terrain.Build(p)
	if err != nil {
		b.Fatal(err)
	}
	pool := render.NewWorkerPool(4, 16)
	defer pool.Shutdown()
	r := &render.Rasterizer{Pool: pool}
	cam := graphics.DefaultCamera()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = r.Render(f.Snapshot(), nil, cam, overhead, 128, 96)
	}
}
