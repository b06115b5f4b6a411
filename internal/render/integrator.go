package render

import (
	"image"
	"image/color"

	"cloudscape/internal/cloud"
	"cloudscape/internal/config"
	"cloudscape/internal/geom"
	"cloudscape/internal/graphics"
	"cloudscape/internal/profiling"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Marching stops once this little light gets through.
	saturatedTransmittance = 0.01
	// Pixels letting more than this through are left transparent.
	clearTransmittance = 0.99

	glowAnisotropy = 0.9995
	rowsPerJob     = 4
)

// Sample is the result of marching one ray.
type Sample struct {
	// Color is the final composite over the sky gradient, sun glow included.
	Color mgl32.Vec3
	// Scattered is the light scattered towards the eye by the cloud alone.
	Scattered mgl32.Vec3
	// Overlay is the premultiplied color of the cloud and sun glow without
	// the sky, for compositing over another background.
	Overlay       mgl32.Vec3
	Glow          float32
	Transmittance float32
	LightEnergy   float32
	// Hit is false when the ray misses the cloud box entirely.
	Hit bool
}

// Integrator raymarches a cloud snapshot into a pixel buffer.
type Integrator struct {
	// Pool is shared across frames when set; otherwise each Render starts
	// Workers goroutines (config.GetWorkers when zero).
	Pool    *WorkerPool
	Workers int
	// Opaque paints the sky where no cloud is hit instead of leaving the
	// pixel transparent.
	Opaque           bool
	DisableEarlyExit bool
}

// Render marches one ray per pixel. The camera, sun and snapshot are fixed
// for the whole frame.
func (in *Integrator) Render(s *cloud.Snapshot, cam graphics.Camera, sun graphics.Sun, width, height int) *image.NRGBA {
	defer profiling.Track("render.Clouds")()

	img := newFrame(width, height)
	vp := cam.Viewport(img.Rect.Dx(), img.Rect.Dy())
	sunDir := sun.Direction()
	earlyExit := !in.DisableEarlyExit && config.GetEarlyExit()

	// An off-screen volume is not marched; sky and glow are still drawn.
	visible := vp.Frustum().IntersectsBox(s.Box())

	pool, release := acquirePool(in.Pool, in.Workers)
	defer release()

	var jobs []Job
	for _, rows := range bands(vp.Height, rowsPerJob) {
		jobs = append(jobs, func() {
			for y := rows[0]; y < rows[1]; y++ {
				for x := range vp.Width {
					ray := vp.Ray(float32(x)+0.5, float32(y)+0.5)
					smp := march(s, ray, sunDir, earlyExit, visible)
					img.SetNRGBA(x, y, in.pixel(smp))
				}
			}
		})
	}
	pool.Run(jobs)
	return img
}

// Trace marches a single ray.
func (in *Integrator) Trace(s *cloud.Snapshot, ray geom.Ray, sun graphics.Sun) Sample {
	return march(s, ray, sun.Direction(), !in.DisableEarlyExit && config.GetEarlyExit(), true)
}

func (in *Integrator) pixel(smp Sample) color.NRGBA {
	if in.Opaque {
		return toNRGBA(smp.Color, 1)
	}
	// Straight alpha: drawn over a background B this yields
	// (B*transmittance + scattered)*(1-glow) + light*glow, the opaque
	// composite with B in place of the sky.
	alpha := 1 - smp.Transmittance*(1-smp.Glow)
	if alpha < 1-clearTransmittance {
		return color.NRGBA{}
	}
	return toNRGBA(smp.Overlay.Mul(1/alpha), alpha)
}

func march(s *cloud.Snapshot, ray geom.Ray, sunDir mgl32.Vec3, earlyExit, volume bool) Sample {
	p := s.Params()
	cosAngle := ray.Dir.Dot(sunDir)
	transmittance := float32(1)
	var energy float32

	var toBox, inside float32
	if volume {
		toBox, inside = ray.IntersectBox(p.Box)
	}
	hit := inside > 0
	if hit {
		stepSize := inside / float32(p.NumSteps)
		entry := ray.At(toBox)
		phase := s.Phase(cosAngle)

		for i := range p.NumSteps {
			pos := entry.Add(ray.Dir.Mul(stepSize * float32(i)))
			density := s.DensityAt(pos)
			if density <= p.DensityThreshold {
				continue
			}
			light := s.TransmittanceToLight(pos, sunDir)
			energy += density * stepSize * transmittance * light * phase
			transmittance *= cloud.Beer(density * stepSize * p.LightAbsorptionThroughCloud)
			if earlyExit && transmittance < saturatedTransmittance {
				break
			}
		}
	}

	horizon, zenith := s.SkyColors()
	sky := lerpVec(horizon, zenith, math32.Sqrt(saturate(ray.Dir[1])))
	lightColor := s.LightColor()
	scattered := lightColor.Mul(energy)
	col := sky.Mul(transmittance).Add(scattered)

	focused := math32.Pow(saturate(cosAngle), p.GlowExponent)
	glow := saturate(cloud.HenyeyGreenstein(focused, glowAnisotropy)) * transmittance
	col = saturateVec(col).Mul(1 - glow).Add(lightColor.Mul(glow))
	overlay := scattered.Mul(1 - glow).Add(lightColor.Mul(glow))

	return Sample{
		Color:         col,
		Scattered:     scattered,
		Overlay:       overlay,
		Glow:          glow,
		Transmittance: transmittance,
		LightEnergy:   energy,
		Hit:           hit,
	}
}
