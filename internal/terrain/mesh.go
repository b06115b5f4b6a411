package terrain

import (
	"cloudscape/internal/geom"
	"cloudscape/internal/noise"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

// normalDivisor is the number of triangles touching an interior vertex of
// the grid. Edge and corner vertices touch fewer, so their averaged normals
// come out shorter than unit length; shading is tuned against that.
const normalDivisor = 6

// Triangle carries world positions and averaged vertex normals.
type Triangle struct {
	Pos    [3]mgl32.Vec3
	Normal [3]mgl32.Vec3
}

// Mesh is an immutable height-field triangulation.
type Mesh struct {
	Scale int
	// Vertices and Normals are indexed x + z*(Scale+1).
	Vertices  []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   [][3]int
	Triangles []Triangle
	// MinHeight and MaxHeight bound the sampled vertex heights.
	MinHeight float32
	MaxHeight float32
	// Bounds is the box footprint clamped to the sampled height range.
	Bounds geom.BoundingBox
}

// VertexIndex maps grid coordinates to an index into Vertices.
func (m *Mesh) VertexIndex(x, z int) int {
	return x + z*(m.Scale+1)
}

// buildMesh samples the height lattice on a (scale+1)² grid spanning box and
// triangulates every cell into two triangles facing +y.
func buildMesh(p Params, height *noise.Field) *Mesh {
	n := p.Scale
	row := n + 1
	m := &Mesh{
		Scale:    n,
		Vertices: make([]mgl32.Vec3, row*row),
		Normals:  make([]mgl32.Vec3, row*row),
	}

	weights := normalizeWeights(p.NoiseWeight)
	box := p.Box
	size := box.Size()

	// Grid corners land on the first and last texel centers, so the far
	// edge does not wrap back onto the near one.
	res := float32(height.Resolution())
	texel := func(f float32) float32 { return (f*(res-1) + 0.5) / res }

	var g errgroup.Group
	for z := range row {
		g.Go(func() error {
			for x := range row {
				fx := float32(x) / float32(n)
				fz := float32(z) / float32(n)
				wx := box.Min[0] + size[0]*fx
				wz := box.Min[2] + size[2]*fz
				h := height.Sample(mgl32.Vec3{texel(fx), 0.5, texel(fz)}).Dot(weights)
				m.Vertices[x+z*row] = mgl32.Vec3{wx, box.Min[1] + h*size[1], wz}
			}
			return nil
		})
	}
	_ = g.Wait()

	m.Indices = make([][3]int, 0, 2*n*n)
	for z := range n {
		for x := range n {
			v00 := x + z*row
			v10 := v00 + 1
			v01 := v00 + row
			v11 := v01 + 1
			m.Indices = append(m.Indices, [3]int{v00, v01, v10}, [3]int{v10, v01, v11})
		}
	}

	for _, tri := range m.Indices {
		fn := geom.FaceNormal(m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]])
		if l := fn.Len(); l > 0 {
			fn = fn.Mul(1 / l)
		}
		for _, vi := range tri {
			m.Normals[vi] = m.Normals[vi].Add(fn)
		}
	}
	for i := range m.Normals {
		m.Normals[i] = m.Normals[i].Mul(1.0 / normalDivisor)
	}

	m.MinHeight, m.MaxHeight = m.Vertices[0][1], m.Vertices[0][1]
	for _, v := range m.Vertices {
		m.MinHeight = min(m.MinHeight, v[1])
		m.MaxHeight = max(m.MaxHeight, v[1])
	}
	m.Bounds = geom.BoundingBox{
		Min: mgl32.Vec3{box.Min[0], m.MinHeight, box.Min[2]},
		Max: mgl32.Vec3{box.Max[0], m.MaxHeight, box.Max[2]},
	}

	m.Triangles = make([]Triangle, len(m.Indices))
	for i, tri := range m.Indices {
		for k, vi := range tri {
			m.Triangles[i].Pos[k] = m.Vertices[vi]
			m.Triangles[i].Normal[k] = m.Normals[vi]
		}
	}
	return m
}

func normalizeWeights(w mgl32.Vec4) mgl32.Vec4 {
	sum := w[0] + w[1] + w[2] + w[3]
	if sum == 0 {
		return mgl32.Vec4{}
	}
	return w.Mul(1 / sum)
}
