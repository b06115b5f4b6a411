package scene

import (
	"testing"

	"cloudscape/internal/cloud"
	"cloudscape/internal/graphics"
	"cloudscape/internal/terrain"
)

func TestFrameCapturesAllSnapshots(t *testing.T) {
	cp := cloud.DefaultParams()
	cp.Shape.Resolution = 8
	cp.Detail.Resolution = 8
	cp.Weather = nil
	clouds, err := cloud.Build(cp)
	if err != nil {
		t.Fatal(err)
	}
	tp := terrain.DefaultParams()
	tp.Scale = 4
	tp.Noise.Resolution = 8
	ground, err := terrain.Build(tp)
	if err != nil {
		t.Fatal(err)
	}

	s := NewState(graphics.DefaultCamera(), graphics.NewSun(10, -135))
	s.Add(TerrainObject{Field: ground}, CloudObject{Volume: clouds}, TerrainObject{})
	f := s.frame()

	if err := ground.SetScale(6); err != nil {
		t.Fatal(err)
	}
	if err := clouds.SetDensityMultiplier(1); err != nil {
		t.Fatal(err)
	}

	if got := f.terrains[ground].Mesh().Scale; got != 4 {
		t.Errorf("captured terrain scale = %d, want 4", got)
	}
	if got := f.clouds[clouds].Params().DensityMultiplier; got != cp.DensityMultiplier {
		t.Errorf("captured density multiplier = %v, want %v", got, cp.DensityMultiplier)
	}
	if f.shadows != f.clouds[clouds] {
		t.Error("terrain shadows should use the captured cloud snapshot")
	}
	if len(f.terrains) != 1 {
		t.Errorf("captured %d terrains, want 1", len(f.terrains))
	}
}
