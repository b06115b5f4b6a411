package cloud

import (
	"fmt"
	"image/color"
	"log"
	"sync"
	"sync/atomic"

	"cloudscape/internal/noise"
	"cloudscape/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// Volume owns the current cloud state. Readers take a Snapshot once per
// frame; setters build a new Snapshot and swap it in, so a frame never sees
// a half-applied change.
type Volume struct {
	mu    sync.Mutex // serializes writers
	state atomic.Pointer[Snapshot]
}

// Build validates p and generates its noise fields.
func Build(p Params) (*Volume, error) {
	defer profiling.Track("cloud.Build")()

	s, err := rebuild(nil, p)
	if err != nil {
		return nil, err
	}
	v := &Volume{}
	v.state.Store(s)
	log.Printf("cloud: volume ready, box %v..%v, %d steps", s.params.Box.Min, s.params.Box.Max, s.params.NumSteps)
	return v, nil
}

// Snapshot returns the state the next frame should render.
func (v *Volume) Snapshot() *Snapshot {
	return v.state.Load()
}

func (v *Volume) Params() Params {
	return v.state.Load().params
}

// rebuild normalizes p and produces a snapshot, reusing noise fields from
// prev whose parameters did not change.
func rebuild(prev *Snapshot, p Params) (*Snapshot, error) {
	p, err := p.normalized()
	if err != nil {
		return nil, err
	}

	var shape, detail, weather *noise.Field
	if prev != nil {
		if prev.params.Shape == p.Shape {
			shape = prev.shape
		}
		if prev.params.Detail == p.Detail {
			detail = prev.detail
		}
		if sameOptional(prev.params.Weather, p.Weather) {
			weather = prev.weather
		}
	}

	if shape == nil {
		if shape, err = noise.Build(p.Shape); err != nil {
			return nil, fmt.Errorf("%w: shape noise: %w", ErrInvalidParams, err)
		}
	}
	if detail == nil {
		if detail, err = noise.Build(p.Detail); err != nil {
			return nil, fmt.Errorf("%w: detail noise: %w", ErrInvalidParams, err)
		}
	}
	if weather == nil && p.Weather != nil {
		if weather, err = noise.Build(*p.Weather); err != nil {
			return nil, fmt.Errorf("%w: weather noise: %w", ErrInvalidParams, err)
		}
	}
	if p.Weather != nil {
		w := *p.Weather
		p.Weather = &w
	}
	return newSnapshot(p, shape, detail, weather), nil
}

func sameOptional(a, b *noise.Params) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// update applies fn to a copy of the current parameters and installs the
// result. On error the previous state stays in place.
func (v *Volume) update(fn func(p *Params)) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	cur := v.state.Load()
	p := cur.params
	if p.Weather != nil {
		w := *p.Weather
		p.Weather = &w
	}
	fn(&p)
	next, err := rebuild(cur, p)
	if err != nil {
		return err
	}
	v.state.Store(next)
	return nil
}

// SetParams replaces every parameter. Noise fields are rebuilt only when
// their own parameters changed.
func (v *Volume) SetParams(np Params) error {
	return v.update(func(p *Params) { *p = np })
}

func (v *Volume) SetCloudScale(scale float32) error {
	return v.update(func(p *Params) { p.Scale = scale })
}

func (v *Volume) SetDensityMultiplier(m float32) error {
	return v.update(func(p *Params) { p.DensityMultiplier = m })
}

func (v *Volume) SetDensityThreshold(t float32) error {
	return v.update(func(p *Params) { p.DensityThreshold = t })
}

func (v *Volume) SetDensityOffset(o float32) error {
	return v.update(func(p *Params) { p.DensityOffset = o })
}

// SetOffset scrolls the shape noise.
func (v *Volume) SetOffset(o mgl32.Vec3) error {
	return v.update(func(p *Params) { p.Offset = o })
}

func (v *Volume) SetDetailOffset(o mgl32.Vec3) error {
	return v.update(func(p *Params) { p.DetailOffset = o })
}

func (v *Volume) SetNumSteps(n int) error {
	return v.update(func(p *Params) { p.NumSteps = n })
}

func (v *Volume) SetNumStepsLight(n int) error {
	return v.update(func(p *Params) { p.NumStepsLight = n })
}

func (v *Volume) SetLightAbsorption(towardSun, throughCloud float32) error {
	return v.update(func(p *Params) {
		p.LightAbsorptionTowardSun = towardSun
		p.LightAbsorptionThroughCloud = throughCloud
	})
}

func (v *Volume) SetPhaseParams(pp mgl32.Vec4) error {
	return v.update(func(p *Params) { p.PhaseParams = pp })
}

// SetColors sets the sky tints (horizon, zenith) and the light color.
func (v *Volume) SetColors(horizon, zenith, light color.NRGBA) error {
	return v.update(func(p *Params) {
		p.ColA = horizon
		p.ColB = zenith
		p.LightColor = light
	})
}

// RegenerateNoise rebuilds the shape lattice.
func (v *Volume) RegenerateNoise(np noise.Params) error {
	return v.update(func(p *Params) { p.Shape = np })
}

func (v *Volume) RegenerateDetailNoise(np noise.Params) error {
	return v.update(func(p *Params) { p.Detail = np })
}

// RegenerateWeatherNoise replaces the weather mask. nil removes it.
func (v *Volume) RegenerateWeatherNoise(np *noise.Params) error {
	return v.update(func(p *Params) {
		if np == nil {
			p.Weather = nil
			return
		}
		w := *np
		p.Weather = &w
	})
}
