package scene

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"cloudscape/internal/cloud"
	"cloudscape/internal/graphics"
	"cloudscape/internal/profiling"
	"cloudscape/internal/render"
	"cloudscape/internal/terrain"

	"golang.org/x/image/draw"
)

const boxDash = 6

// State is everything a frame needs: view, light, objects in draw order
// and the renderers. Mutators and Render may be called from different
// goroutines.
type State struct {
	mu         sync.Mutex
	camera     graphics.Camera
	sun        graphics.Sun
	objects    []Object
	background color.NRGBA

	Integrator *render.Integrator
	Rasterizer *render.Rasterizer
}

func NewState(cam graphics.Camera, sun graphics.Sun) *State {
	return &State{
		camera:     cam,
		sun:        sun,
		Integrator: &render.Integrator{},
		Rasterizer: &render.Rasterizer{},
	}
}

// UsePool makes both renderers share pool.
func (s *State) UsePool(pool *render.WorkerPool) {
	s.Integrator.Pool = pool
	s.Rasterizer.Pool = pool
}

// Add appends objects; later objects are drawn on top.
func (s *State) Add(objs ...Object) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = append(s.objects, objs...)
}

// Objects returns a copy of the draw list.
func (s *State) Objects() []Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Object(nil), s.objects...)
}

func (s *State) Camera() graphics.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.camera
}

func (s *State) SetCamera(c graphics.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = c
}

// Pan, Zoom and Orbit forward pointer input to the camera controller.
func (s *State) Pan(dx, dy float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = s.camera.Pan(dx, dy)
}

func (s *State) Zoom(delta float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = s.camera.Zoom(delta)
}

func (s *State) Orbit(dx, dy float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = s.camera.Orbit(dx, dy)
}

func (s *State) Sun() graphics.Sun {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sun
}

func (s *State) SetSun(sun graphics.Sun) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sun = sun
}

// SetBackground sets the color under all objects. The zero value leaves
// uncovered pixels transparent.
func (s *State) SetBackground(c color.NRGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.background = c
}

// Clouds returns the first cloud volume in the scene, or nil.
func (s *State) Clouds() *cloud.Volume {
	s.mu.Lock()
	defer s.mu.Unlock()
	return firstCloud(s.objects)
}

func firstCloud(objs []Object) *cloud.Volume {
	for _, o := range objs {
		if c, ok := o.(CloudObject); ok && c.Volume != nil {
			return c.Volume
		}
	}
	return nil
}

// frame is the immutable input of one Render call. Every cloud and terrain
// snapshot is taken before the first layer is drawn.
type frame struct {
	camera     graphics.Camera
	sun        graphics.Sun
	objects    []Object
	background color.NRGBA
	clouds     map[*cloud.Volume]*cloud.Snapshot
	terrains   map[*terrain.Field]*terrain.Snapshot
	shadows    *cloud.Snapshot
}

func (s *State) frame() frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := frame{
		camera:     s.camera,
		sun:        s.sun,
		objects:    append([]Object(nil), s.objects...),
		background: s.background,
		clouds:     make(map[*cloud.Volume]*cloud.Snapshot),
		terrains:   make(map[*terrain.Field]*terrain.Snapshot),
	}
	for _, o := range s.objects {
		switch o := o.(type) {
		case CloudObject:
			if o.Volume != nil {
				f.clouds[o.Volume] = o.Volume.Snapshot()
			}
		case TerrainObject:
			if o.Field != nil {
				f.terrains[o.Field] = o.Field.Snapshot()
			}
		}
	}
	if v := firstCloud(s.objects); v != nil {
		f.shadows = f.clouds[v]
	}
	return f
}

// Render draws every object in order and composites the layers.
func (s *State) Render(width, height int) *image.NRGBA {
	defer profiling.Track("scene.Render")()

	f := s.frame()
	dst := image.NewNRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	bounds := dst.Bounds()
	vp := f.camera.Viewport(bounds.Dx(), bounds.Dy())
	draw.Draw(dst, bounds, image.NewUniform(f.background), image.Point{}, draw.Src)

	for _, obj := range f.objects {
		switch o := obj.(type) {
		case nil:
			continue
		case CloudObject:
			if o.Volume == nil {
				continue
			}
			layer := s.Integrator.Render(f.clouds[o.Volume], f.camera, f.sun, bounds.Dx(), bounds.Dy())
			draw.Draw(dst, bounds, layer, image.Point{}, draw.Over)
		case TerrainObject:
			if o.Field == nil {
				continue
			}
			layer := s.Rasterizer.Render(f.terrains[o.Field], f.shadows, f.camera, f.sun, bounds.Dx(), bounds.Dy())
			draw.Draw(dst, bounds, layer, image.Point{}, draw.Over)
		case GridObject:
			render.Wireframe{Color: o.Color}.DrawGrid(dst, vp, o.Extent, o.Spacing, o.Height)
		case BoxObject:
			wf := render.Wireframe{Color: o.Color}
			if o.Dashed {
				wf.Dash = boxDash
			}
			wf.DrawBox(dst, vp, o.Box)
		default:
			panic(fmt.Sprintf("scene: unhandled object %T", o))
		}
	}
	return dst
}
