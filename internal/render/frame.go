package render

import (
	"image"
	"image/color"

	"cloudscape/internal/config"

	"github.com/go-gl/mathgl/mgl32"
)

// acquirePool returns shared if set, otherwise a temporary pool sized by
// workers (or the global setting) together with its release func.
func acquirePool(shared *WorkerPool, workers int) (*WorkerPool, func()) {
	if shared != nil {
		return shared, func() {}
	}
	if workers <= 0 {
		workers = config.GetWorkers()
	}
	p := NewWorkerPool(workers, workers*2)
	return p, p.Shutdown
}

// bands splits [0,n) into chunks of at most size.
func bands(n, size int) [][2]int {
	size = max(size, 1)
	out := make([][2]int, 0, (n+size-1)/size)
	for lo := 0; lo < n; lo += size {
		out = append(out, [2]int{lo, min(lo+size, n)})
	}
	return out
}

func saturate(v float32) float32 {
	return min(max(v, 0), 1)
}

func saturateVec(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{saturate(v[0]), saturate(v[1]), saturate(v[2])}
}

func lerpVec(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func toByte(v float32) uint8 {
	return uint8(saturate(v)*255 + 0.5)
}

func toNRGBA(c mgl32.Vec3, alpha float32) color.NRGBA {
	return color.NRGBA{R: toByte(c[0]), G: toByte(c[1]), B: toByte(c[2]), A: toByte(alpha)}
}

func colorVec(c color.NRGBA) mgl32.Vec3 {
	return mgl32.Vec3{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255}
}

func newFrame(w, h int) *image.NRGBA {
	return image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
}
