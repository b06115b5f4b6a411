package scene

import (
	"fmt"
	"image/color"

	"cloudscape/internal/cloud"
	"cloudscape/internal/graphics"
	"cloudscape/internal/terrain"
)

// Default builds the demo scene: a ground grid, the terrain, the cloud
// layer and a dashed outline of the cloud box.
func Default(cp cloud.Params, tp terrain.Params) (*State, error) {
	clouds, err := cloud.Build(cp)
	if err != nil {
		return nil, fmt.Errorf("scene: clouds: %w", err)
	}
	ground, err := terrain.Build(tp)
	if err != nil {
		return nil, fmt.Errorf("scene: terrain: %w", err)
	}

	cam := graphics.DefaultCamera()
	cam.Pivot[1] = 1
	cam.Distance = 9
	cam.Pitch = -20

	s := NewState(cam, graphics.NewSun(10, -135))
	s.Add(
		GridObject{Extent: 5, Spacing: 0.5, Height: tp.Box.Min[1], Color: color.NRGBA{R: 90, G: 90, B: 90, A: 255}},
		TerrainObject{Field: ground},
		CloudObject{Volume: clouds},
		BoxObject{Box: clouds.Params().Box, Color: color.NRGBA{R: 255, G: 200, B: 40, A: 255}, Dashed: true},
	)
	return s, nil
}
