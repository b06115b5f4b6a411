package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"cloudscape/internal/cloud"
	"cloudscape/internal/config"
	"cloudscape/internal/profiling"
	"cloudscape/internal/render"
	"cloudscape/internal/scene"
	"cloudscape/internal/terrain"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"
	"golang.org/x/image/draw"
)

type options struct {
	out         string
	frames      int
	width       int
	height      int
	upscale     int
	workers     int
	tileSize    int
	seed        uint64
	speed       float64
	opaque      bool
	noEarlyExit bool
	quick       bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.out, "out", "frames", "directory for numbered PNG frames")
	flag.IntVar(&o.frames, "frames", 1, "number of frames to render")
	flag.IntVar(&o.width, "width", 320, "render width in pixels")
	flag.IntVar(&o.height, "height", 180, "render height in pixels")
	flag.IntVar(&o.upscale, "upscale", 1, "integer upscale applied before writing")
	flag.IntVar(&o.workers, "workers", runtime.NumCPU(), "number of render workers")
	flag.IntVar(&o.tileSize, "tile", 64, "raster tile size in pixels")
	flag.Uint64Var(&o.seed, "seed", 0, "noise seed")
	flag.Float64Var(&o.speed, "speed", 20, "cloud offset advanced per frame")
	flag.BoolVar(&o.opaque, "opaque", false, "paint the sky behind the clouds")
	flag.BoolVar(&o.noEarlyExit, "no-early-exit", false, "march every step even through saturated cloud")
	flag.BoolVar(&o.quick, "quick", false, "use low resolution noise lattices")
	flag.Parse()
	return o
}

func main() {
	opts := parseFlags()

	config.SetWorkers(opts.workers)
	config.SetTileSize(opts.tileSize)
	config.SetEarlyExit(!opts.noEarlyExit)

	pool := render.NewWorkerPool(config.GetWorkers(), config.GetWorkers()*2)
	closer.Bind(func() {
		pool.Shutdown()
		log.Printf("cloudrender: workers stopped")
	})

	go func() {
		if err := run(opts, pool); err != nil {
			closer.Fatalln(err)
		}
		closer.Close()
	}()
	closer.Hold()
}

func run(opts options, pool *render.WorkerPool) error {
	cp := cloud.DefaultParams()
	tp := terrain.DefaultParams()
	cp.Shape.Seed = opts.seed
	cp.Detail.Seed = opts.seed + 1
	tp.Noise.Seed = opts.seed + 2
	if cp.Weather != nil {
		w := *cp.Weather
		w.Seed = opts.seed + 3
		cp.Weather = &w
	}
	if opts.quick {
		cp.Shape.Resolution = 48
		cp.Detail.Resolution = 32
		cp.Weather = nil
		tp.Noise.Resolution = 64
		cp.NumSteps = 48
	}

	s, err := scene.Default(cp, tp)
	if err != nil {
		return err
	}
	s.UsePool(pool)
	s.Integrator.Opaque = opts.opaque
	s.Rasterizer.TileSize = config.GetTileSize()

	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	clouds := s.Clouds()
	for i := range max(opts.frames, 1) {
		profiling.ResetFrame()
		start := time.Now()

		offset := mgl32.Vec3{float32(opts.speed) * float32(i), 0, 0}
		if err := clouds.SetOffset(offset); err != nil {
			return err
		}
		img := s.Render(opts.width, opts.height)
		if opts.upscale > 1 {
			img = upscale(img, opts.upscale)
		}

		path := filepath.Join(opts.out, fmt.Sprintf("frame_%04d.png", i))
		if err := writePNG(path, img); err != nil {
			return err
		}
		log.Printf("cloudrender: %s in %v [%s]", path, time.Since(start).Round(time.Millisecond), profiling.TopN(4))
	}
	return nil
}

func upscale(src *image.NRGBA, factor int) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
