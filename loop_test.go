package triangle

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/gogpu/triangle/gpucore"
	"github.com/gogpu/triangle/gpucore/gpucoretest"
)

func TestFrameLoopMaxFrames(t *testing.T) {
	r, dev := newTestRenderer(t)
	d := gpucoretest.NewDrawable(8, 8)

	loop := &FrameLoop{
		Renderer:  r,
		Source:    FrameSourceFunc(func() gpucore.Drawable { return d }),
		Interval:  time.Millisecond,
		MaxFrames: 5,
	}
	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	stats := loop.Stats()
	if stats.Ticks != 5 || stats.Drawn != 5 {
		t.Errorf("stats = %+v, want 5 ticks and 5 drawn", stats)
	}
	if dev.Commits() != 5 || d.Presents != 5 {
		t.Errorf("commits = %d, presents = %d, want 5", dev.Commits(), d.Presents)
	}
}

func TestFrameLoopCancel(t *testing.T) {
	r, _ := newTestRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())

	var frames int
	loop := &FrameLoop{
		Renderer: r,
		Source: FrameSourceFunc(func() gpucore.Drawable {
			frames++
			if frames == 3 {
				cancel()
			}
			return gpucoretest.NewDrawable(8, 8)
		}),
		Interval: time.Millisecond,
	}

	err := loop.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
	if loop.Stats().Drawn < 3 {
		t.Errorf("Drawn = %d, want at least 3", loop.Stats().Drawn)
	}
}

func TestFrameLoopSkipsAndContinues(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	r, dev := newTestRenderer(t)
	good := gpucoretest.NewDrawable(8, 8)
	wrongFormat := &gpucoretest.Drawable{Tex: &gpucoretest.Texture{W: 8, H: 8}}

	// good, none, wrong format, good
	sources := []gpucore.Drawable{good, nil, wrongFormat, good}
	i := 0
	loop := &FrameLoop{
		Renderer: r,
		Source: FrameSourceFunc(func() gpucore.Drawable {
			d := sources[i]
			i++
			return d
		}),
	}
	for range sources {
		loop.Step()
	}

	want := FrameStats{Ticks: 4, Drawn: 2, Skipped: 1, Failed: 1}
	if got := loop.Stats(); got != want {
		t.Errorf("stats = %+v, want %+v", got, want)
	}
	if dev.Commits() != 2 {
		t.Errorf("commits = %d, want 2", dev.Commits())
	}

	out := buf.String()
	if !strings.Contains(out, "nothing to draw") {
		t.Error("skipped frame should be logged at debug")
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "frame failed") {
		t.Error("failed frame should be logged at warn")
	}
}

func TestFrameLoopNotReady(t *testing.T) {
	ctx, err := NewGraphicsContext(gpucoretest.NewProvider())
	if err != nil {
		t.Fatalf("NewGraphicsContext() error = %v", err)
	}
	defer ctx.Close()
	r, _ := NewRenderer(ctx, DefaultTriangle(), WithShaderSource(malformedShader))

	loop := &FrameLoop{
		Renderer:  r,
		Source:    FrameSourceFunc(func() gpucore.Drawable { return gpucoretest.NewDrawable(8, 8) }),
		Interval:  time.Millisecond,
		MaxFrames: 3,
	}
	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := loop.Stats(); got.Failed != 3 || got.Drawn != 0 {
		t.Errorf("stats = %+v, want 3 failed", got)
	}
}
