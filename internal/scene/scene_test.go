package scene_test

import (
	"image/color"
	"testing"

	"cloudscape/internal/cloud"
	"cloudscape/internal/geom"
	"cloudscape/internal/graphics"
	"cloudscape/internal/scene"
	"cloudscape/internal/terrain"

	"github.com/go-gl/mathgl/mgl32"
)

func smallParams() (cloud.Params, terrain.Params) {
	cp := cloud.DefaultParams()
	cp.Shape.Resolution = 8
	cp.Detail.Resolution = 8
	cp.Weather = nil
	cp.NumSteps = 8
	cp.NumStepsLight = 2

	tp := terrain.DefaultParams()
	tp.Scale = 6
	tp.Noise.Resolution = 8
	return cp, tp
}

func TestEmptySceneShowsBackground(t *testing.T) {
	s := scene.NewState(graphics.DefaultCamera(), graphics.NewSun(10, -135))
	bg := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	s.SetBackground(bg)
	img := s.Render(8, 6)
	for y := range 6 {
		for x := range 8 {
			if got := img.NRGBAAt(x, y); got != bg {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, bg)
			}
		}
	}
}

func TestLaterObjectsDrawOnTop(t *testing.T) {
	s := scene.NewState(graphics.DefaultCamera(), graphics.NewSun(10, -135))
	box := geom.NewBoundingBox(mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	s.Add(scene.BoxObject{Box: box, Color: red}, scene.BoxObject{Box: box, Color: blue})

	img := s.Render(64, 48)
	blues := 0
	for y := range 48 {
		for x := range 64 {
			switch img.NRGBAAt(x, y) {
			case red:
				t.Fatalf("pixel (%d,%d) still shows the first outline", x, y)
			case blue:
				blues++
			}
		}
	}
	if blues == 0 {
		t.Error("second outline should be visible")
	}
}

func TestDefaultScene(t *testing.T) {
	cp, tp := smallParams()
	s, err := scene.Default(cp, tp)
	if err != nil {
		t.Fatal(err)
	}
	if s.Clouds() == nil {
		t.Fatal("default scene should contain clouds")
	}
	kinds := map[string]bool{}
	for _, o := range s.Objects() {
		switch o.(type) {
		case scene.CloudObject:
			kinds["cloud"] = true
		case scene.TerrainObject:
			kinds["terrain"] = true
		case scene.GridObject:
			kinds["grid"] = true
		case scene.BoxObject:
			kinds["box"] = true
		}
	}
	if len(kinds) != 4 {
		t.Errorf("default scene kinds = %v", kinds)
	}

	img := s.Render(32, 24)
	covered := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			covered++
		}
	}
	if covered == 0 {
		t.Error("default scene rendered nothing")
	}
}

func TestCameraControls(t *testing.T) {
	s := scene.NewState(graphics.DefaultCamera(), graphics.Sun{})
	before := s.Camera()
	s.Zoom(1)
	s.Orbit(10, 0)
	s.Pan(5, 5)
	after := s.Camera()
	if after.Distance >= before.Distance || after.Yaw == before.Yaw || after.Pivot == before.Pivot {
		t.Errorf("controls not applied: before %+v after %+v", before, after)
	}

	s.SetSun(graphics.NewSun(5, -90))
	if s.Sun().Distance != 5 {
		t.Error("SetSun not applied")
	}
}

func TestNilCloudVolumeIgnored(t *testing.T) {
	cp, _ := smallParams()
	v, err := cloud.Build(cp)
	if err != nil {
		t.Fatal(err)
	}
	s := scene.NewState(graphics.DefaultCamera(), graphics.NewSun(10, -135))
	s.Add(scene.CloudObject{}, scene.CloudObject{Volume: v})
	if s.Clouds() != v {
		t.Error("Clouds should skip empty entries")
	}
	_ = s.Render(4, 4)
}
