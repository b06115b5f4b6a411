package terrain

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"cloudscape/internal/noise"
	"cloudscape/internal/profiling"
)

// Snapshot pairs a parameter set with the mesh built from it.
type Snapshot struct {
	params Params
	height *noise.Field
	mesh   *Mesh
}

func (s *Snapshot) Params() Params { return s.params }

func (s *Snapshot) Mesh() *Mesh { return s.mesh }

// Field owns the current terrain. Changes rebuild the mesh in full and swap
// it in; readers holding an older Snapshot keep a consistent view.
type Field struct {
	mu    sync.Mutex // serializes writers
	state atomic.Pointer[Snapshot]
}

// Build generates the height lattice and the mesh.
func Build(p Params) (*Field, error) {
	s, err := rebuild(nil, p)
	if err != nil {
		return nil, err
	}
	f := &Field{}
	f.state.Store(s)
	return f, nil
}

func rebuild(prev *Snapshot, p Params) (*Snapshot, error) {
	defer profiling.Track("terrain.Build")()

	p, err := p.normalized()
	if err != nil {
		return nil, err
	}

	var height *noise.Field
	if prev != nil && prev.params.Noise == p.Noise {
		height = prev.height
	} else if height, err = noise.Build(p.Noise); err != nil {
		return nil, fmt.Errorf("%w: height noise: %w", ErrInvalidParams, err)
	}

	start := time.Now()
	mesh := buildMesh(p, height)
	log.Printf("terrain: meshed %d triangles (scale %d) in %v", len(mesh.Triangles), p.Scale, time.Since(start))
	return &Snapshot{params: p, height: height, mesh: mesh}, nil
}

func (f *Field) Snapshot() *Snapshot { return f.state.Load() }

func (f *Field) Mesh() *Mesh { return f.state.Load().mesh }

func (f *Field) Params() Params { return f.state.Load().params }

func (f *Field) update(fn func(p *Params)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	cur := f.state.Load()
	p := cur.params
	fn(&p)
	next, err := rebuild(cur, p)
	if err != nil {
		return err
	}
	f.state.Store(next)
	return nil
}

// SetParams replaces every parameter and remeshes.
func (f *Field) SetParams(np Params) error {
	return f.update(func(p *Params) { *p = np })
}

// SetScale changes the grid subdivision and remeshes.
func (f *Field) SetScale(scale int) error {
	return f.update(func(p *Params) { p.Scale = scale })
}

// RegenerateNoise rebuilds the height lattice and remeshes.
func (f *Field) RegenerateNoise(np noise.Params) error {
	return f.update(func(p *Params) { p.Noise = np })
}
