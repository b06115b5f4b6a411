package render

import (
	"image"

	"cloudscape/internal/cloud"
	"cloudscape/internal/config"
	"cloudscape/internal/geom"
	"cloudscape/internal/graphics"
	"cloudscape/internal/profiling"
	"cloudscape/internal/terrain"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const verticesPerJob = 512

// Rasterizer draws terrain meshes with a depth buffer and cloud shadows.
// The framebuffer is split into square tiles, each filled by exactly one
// worker, so no pixel is ever written concurrently.
type Rasterizer struct {
	Pool     *WorkerPool
	Workers  int
	TileSize int // config.GetTileSize when zero
}

// screenVertex is a projected mesh vertex.
type screenVertex struct {
	pos mgl32.Vec2
	ok  bool
}

// binnedTriangle is a triangle whose three vertices all projected.
type binnedTriangle struct {
	index  int
	screen [3]mgl32.Vec2
	// Pixel bounding rectangle, half-open.
	x0, y0, x1, y1 int
}

// Render rasterizes the terrain. clouds may be nil, in which case nothing
// is shadowed.
func (r *Rasterizer) Render(t *terrain.Snapshot, clouds *cloud.Snapshot, cam graphics.Camera, sun graphics.Sun, width, height int) *image.NRGBA {
	defer profiling.Track("render.Terrain")()

	img := newFrame(width, height)
	vp := cam.Viewport(img.Rect.Dx(), img.Rect.Dy())
	mesh := t.Mesh()
	params := t.Params()
	sunDir := sun.Direction()

	if !vp.Frustum().IntersectsBox(mesh.Bounds) {
		return img
	}

	pool, release := acquirePool(r.Pool, r.Workers)
	defer release()

	shadows, projected := r.prepareVertices(pool, mesh, params, clouds, vp, sunDir)

	tileSize := r.TileSize
	if tileSize <= 0 {
		tileSize = config.GetTileSize()
	}
	tilesX := (vp.Width + tileSize - 1) / tileSize
	tilesY := (vp.Height + tileSize - 1) / tileSize
	bins := make([][]binnedTriangle, tilesX*tilesY)

	for i, tri := range mesh.Indices {
		a, b, c := projected[tri[0]], projected[tri[1]], projected[tri[2]]
		if !a.ok || !b.ok || !c.ok {
			continue
		}
		bt := binnedTriangle{index: i, screen: [3]mgl32.Vec2{a.pos, b.pos, c.pos}}
		minX := min(a.pos[0], b.pos[0], c.pos[0])
		maxX := max(a.pos[0], b.pos[0], c.pos[0])
		minY := min(a.pos[1], b.pos[1], c.pos[1])
		maxY := max(a.pos[1], b.pos[1], c.pos[1])
		bt.x0 = max(int(math32.Floor(minX)), 0)
		bt.y0 = max(int(math32.Floor(minY)), 0)
		bt.x1 = min(int(math32.Ceil(maxX))+1, vp.Width)
		bt.y1 = min(int(math32.Ceil(maxY))+1, vp.Height)
		if bt.x0 >= bt.x1 || bt.y0 >= bt.y1 {
			continue
		}
		for ty := bt.y0 / tileSize; ty <= (bt.y1-1)/tileSize; ty++ {
			for tx := bt.x0 / tileSize; tx <= (bt.x1-1)/tileSize; tx++ {
				bins[tx+ty*tilesX] = append(bins[tx+ty*tilesX], bt)
			}
		}
	}

	sh := shader{
		params:  params,
		mesh:    mesh,
		shadows: shadows,
		sunDir:  sunDir,
		top:     colorVec(params.TopColor),
		bottom:  colorVec(params.BottomColor),
	}

	var jobs []Job
	for ty := range tilesY {
		for tx := range tilesX {
			bin := bins[tx+ty*tilesX]
			if len(bin) == 0 {
				continue
			}
			rect := image.Rect(tx*tileSize, ty*tileSize, min((tx+1)*tileSize, vp.Width), min((ty+1)*tileSize, vp.Height))
			jobs = append(jobs, func() { fillTile(img, rect, bin, vp, &sh) })
		}
	}
	pool.Run(jobs)
	return img
}

// prepareVertices computes the cloud shadow factor and screen position of
// every mesh vertex.
func (r *Rasterizer) prepareVertices(pool *WorkerPool, mesh *terrain.Mesh, params terrain.Params, clouds *cloud.Snapshot, vp graphics.Viewport, sunDir mgl32.Vec3) ([]float32, []screenVertex) {
	shadows := make([]float32, len(mesh.Vertices))
	projected := make([]screenVertex, len(mesh.Vertices))

	var jobs []Job
	for _, span := range bands(len(mesh.Vertices), verticesPerJob) {
		jobs = append(jobs, func() {
			for i := span[0]; i < span[1]; i++ {
				v := mesh.Vertices[i]
				shadows[i] = vertexShadow(clouds, params, v, sunDir)
				s, _, ok := vp.Project(v)
				projected[i] = screenVertex{pos: s, ok: ok}
			}
		})
	}
	pool.Run(jobs)
	return shadows, projected
}

// vertexShadow is the light reaching v through the clouds, reshaped by
// DensityScale and floored at ShadowThreshold.
func vertexShadow(clouds *cloud.Snapshot, p terrain.Params, v, sunDir mgl32.Vec3) float32 {
	if clouds == nil {
		return 1
	}
	t := clouds.TransmittanceToLightSteps(v, sunDir, p.ShadowSteps)
	return saturate(max(p.ShadowThreshold, math32.Pow(t, p.DensityScale)))
}

type shader struct {
	params      terrain.Params
	mesh        *terrain.Mesh
	shadows     []float32
	sunDir      mgl32.Vec3
	top, bottom mgl32.Vec3
}

// shade returns the lit color for barycentric weights w on triangle i.
func (s *shader) shade(i int, w mgl32.Vec3) mgl32.Vec3 {
	tri := s.mesh.Triangles[i]
	idx := s.mesh.Indices[i]

	n := geom.Interpolate(w, tri.Normal[0], tri.Normal[1], tri.Normal[2])
	shadow := geom.InterpolateScalar(w, s.shadows[idx[0]], s.shadows[idx[1]], s.shadows[idx[2]])
	y := geom.InterpolateScalar(w, tri.Pos[0][1], tri.Pos[1][1], tri.Pos[2][1])

	var h float32
	if span := s.mesh.MaxHeight - s.mesh.MinHeight; span > 0 {
		h = saturate((y - s.mesh.MinHeight) / span)
	}
	base := lerpVec(s.bottom, s.top, h)

	df := s.params.DiffuseFactor
	light := saturate((1 - df) + df*max(n.Dot(s.sunDir), 0))
	return base.Mul(light * shadow)
}

// fillTile rasterizes the triangles of one bin into rect with a tile-local
// depth buffer.
func fillTile(img *image.NRGBA, rect image.Rectangle, bin []binnedTriangle, vp graphics.Viewport, sh *shader) {
	w := rect.Dx()
	depth := make([]float32, w*rect.Dy())
	for i := range depth {
		depth[i] = math32.Inf(1)
	}

	for _, bt := range bin {
		tri := sh.mesh.Triangles[bt.index]
		normal := geom.FaceNormal(tri.Pos[0], tri.Pos[1], tri.Pos[2])

		x0, x1 := max(bt.x0, rect.Min.X), min(bt.x1, rect.Max.X)
		y0, y1 := max(bt.y0, rect.Min.Y), min(bt.y1, rect.Max.Y)
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				p := mgl32.Vec2{float32(x) + 0.5, float32(y) + 0.5}
				bary, ok := geom.Barycentric(bt.screen[0], bt.screen[1], bt.screen[2], p)
				if !ok || !geom.Inside(bary) {
					continue
				}
				// Camera distance to the triangle's plane along this pixel's ray.
				dist, ok := vp.Ray(p[0], p[1]).PlaneDistance(tri.Pos[0], normal)
				if !ok {
					continue
				}
				di := (x - rect.Min.X) + (y-rect.Min.Y)*w
				if dist >= depth[di] {
					continue
				}
				depth[di] = dist
				img.SetNRGBA(x, y, toNRGBA(sh.shade(bt.index, bary), 1))
			}
		}
	}
}
