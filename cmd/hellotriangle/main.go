// Command hellotriangle draws a single triangle on a plum background.
//
// By default it opens a window through gogpu and redraws at the display
// refresh rate. With -headless it renders into an offscreen texture at a
// fixed cadence and can save the last frame:
//
//	hellotriangle -headless -frames 60 -out triangle.png
//
// Headless targets are BGRA8Unorm. In a window the pipeline is built for the
// host's preferred surface format, which the host may report as BGRA8Unorm,
// RGBA8Unorm or an sRGB variant; the chosen format is logged at startup.
// Setting the triangle logger also configures the GPU backend's logger.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/gogpu/gogpu"

	"github.com/gogpu/triangle"
	"github.com/gogpu/triangle/backend"
	"github.com/gogpu/triangle/backend/wgpu"
	"github.com/gogpu/triangle/gpucore"
	"github.com/gogpu/triangle/surface"
)

type config struct {
	headless bool
	frames   uint64
	width    int
	height   int
	fps      int
	out      string
	backend  string
	verbose  bool
}

func main() {
	var cfg config
	flag.BoolVar(&cfg.headless, "headless", false, "render offscreen instead of opening a window")
	flag.Uint64Var(&cfg.frames, "frames", 60, "frames to render in headless mode (0 = until interrupted)")
	flag.IntVar(&cfg.width, "width", 800, "target width")
	flag.IntVar(&cfg.height, "height", 600, "target height")
	flag.IntVar(&cfg.fps, "fps", 60, "frame rate in headless mode")
	flag.StringVar(&cfg.out, "out", "", "headless: write the last frame to this .png or .bmp file")
	flag.StringVar(&cfg.backend, "backend", backend.BackendVulkan, "headless: GPU backend (vulkan, noop)")
	flag.BoolVar(&cfg.verbose, "v", false, "debug logging")
	flag.Parse()

	setupLogging(cfg.verbose)

	var err error
	if cfg.headless {
		err = runHeadless(cfg)
	} else {
		err = runWindowed(cfg)
	}
	if err != nil {
		log.Fatalf("hellotriangle: %v", err)
	}
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	triangle.SetLogger(l)
}

func runHeadless(cfg config) error {
	if cfg.width <= 0 || cfg.height <= 0 {
		return fmt.Errorf("invalid size %dx%d", cfg.width, cfg.height)
	}
	if cfg.fps <= 0 {
		return fmt.Errorf("invalid frame rate %d", cfg.fps)
	}

	provider, err := backend.Get(cfg.backend)
	if err != nil {
		return err
	}
	gctx, err := triangle.NewGraphicsContext(provider)
	if err != nil {
		return err
	}
	defer gctx.Close()

	dev, ok := gctx.Device().(*wgpu.Device)
	if !ok {
		return errors.New("backend does not support offscreen targets")
	}
	target, err := dev.NewOffscreen(uint32(cfg.width), uint32(cfg.height))
	if err != nil {
		return err
	}
	defer target.Release()

	r, err := triangle.NewRenderer(gctx, triangle.DefaultTriangle(),
		triangle.WithColorFormat(target.Format()))
	if err != nil {
		return err
	}
	defer r.Close()

	loop := &triangle.FrameLoop{
		Renderer:  r,
		Source:    triangle.FrameSourceFunc(func() gpucore.Drawable { return target }),
		Interval:  time.Second / time.Duration(cfg.fps),
		MaxFrames: cfg.frames,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	stats := loop.Stats()
	log.Printf("Rendered %d frames on %s in %v (skipped %d, failed %d)",
		stats.Drawn, dev.Name(), time.Since(start).Round(time.Millisecond), stats.Skipped, stats.Failed)

	if cfg.out == "" {
		return nil
	}
	img, err := target.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := surface.WriteFile(cfg.out, img); err != nil {
		return err
	}
	log.Printf("Frame saved to %s (%dx%d)", cfg.out, cfg.width, cfg.height)
	return nil
}

func runWindowed(cfg config) error {
	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle("Hello Triangle").
		WithSize(cfg.width, cfg.height).
		WithContinuousRender(false))

	var (
		gctx      *triangle.GraphicsContext
		r         *triangle.Renderer
		shared    *wgpu.SharedProvider
		animToken *gogpu.AnimationToken
		frame     int
	)

	app.OnDraw(func(dc *gogpu.Context) {
		if r == nil {
			provider := app.GPUContextProvider()
			if provider == nil {
				return
			}
			shared = wgpu.NewSharedProvider(provider)

			var err error
			gctx, err = triangle.NewGraphicsContext(shared)
			if err != nil {
				log.Fatalf("hellotriangle: %v", err)
			}
			r, err = triangle.NewRenderer(gctx, triangle.DefaultTriangle(),
				triangle.WithColorFormat(shared.SurfaceFormat()))
			if err != nil {
				log.Fatalf("hellotriangle: %v", err)
			}
			log.Printf("Backend: %s, surface format: %v", dc.Backend(), shared.SurfaceFormat())
			// Redraw at VSync for as long as the window is open.
			animToken = app.StartAnimation()
		}

		w, h := dc.FramebufferSize()
		if w <= 0 || h <= 0 {
			return
		}
		sv := dc.SurfaceView()
		if sv == nil {
			return
		}
		d := wgpu.NewHostDrawable(sv, uint32(w), uint32(h), shared.SurfaceFormat())
		if err := r.DrawFrame(d); err != nil && !errors.Is(err, triangle.ErrNoDrawableAvailable) {
			log.Printf("Frame %d: %v", frame, err)
		}
		frame++
	})

	app.OnClose(func() {
		if animToken != nil {
			animToken.Stop()
		}
		r.Close()
		if gctx != nil {
			gctx.Close()
		}
	})

	return app.Run()
}
