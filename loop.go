package triangle

import (
	"context"
	"errors"
	"time"

	"github.com/gogpu/triangle/gpucore"
)

// DefaultFrameInterval is the reference cadence of 60 frames per second.
const DefaultFrameInterval = time.Second / 60

// FrameSource hands out the drawable for the next frame. It may return nil
// when no target is ready; the frame is then skipped.
type FrameSource interface {
	NextDrawable() gpucore.Drawable
}

// FrameSourceFunc adapts a function to FrameSource.
type FrameSourceFunc func() gpucore.Drawable

// NextDrawable calls f.
func (f FrameSourceFunc) NextDrawable() gpucore.Drawable { return f() }

// FrameStats counts what a FrameLoop did.
type FrameStats struct {
	Ticks   uint64
	Drawn   uint64
	Skipped uint64
	Failed  uint64
}

// FrameLoop drives a Renderer at a fixed cadence for hosts that have no
// display-link callback of their own, such as headless rendering.
//
// A failed frame is logged and counted; it never stops the loop.
type FrameLoop struct {
	// Renderer draws each frame.
	Renderer *Renderer

	// Source supplies a drawable per frame.
	Source FrameSource

	// Interval is the time between frames. Zero means DefaultFrameInterval.
	Interval time.Duration

	// MaxFrames stops the loop after this many ticks. Zero means no limit.
	MaxFrames uint64

	stats FrameStats
}

// Run draws frames until ctx is cancelled or MaxFrames ticks have elapsed.
// It returns ctx.Err() on cancellation and nil when MaxFrames is reached.
func (l *FrameLoop) Run(ctx context.Context) error {
	interval := l.Interval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if l.MaxFrames > 0 && l.stats.Ticks >= l.MaxFrames {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Step()
		}
	}
}

// Step draws a single frame immediately and records the outcome.
func (l *FrameLoop) Step() {
	l.stats.Ticks++
	err := l.Renderer.DrawFrame(l.Source.NextDrawable())
	switch {
	case err == nil:
		l.stats.Drawn++
	case errors.Is(err, ErrNoDrawableAvailable):
		l.stats.Skipped++
		Logger().Debug("triangle: nothing to draw", "frame", l.stats.Ticks)
	default:
		l.stats.Failed++
		Logger().Warn("triangle: frame failed", "frame", l.stats.Ticks, "error", err)
	}
}

// Stats returns the counters accumulated so far.
func (l *FrameLoop) Stats() FrameStats { return l.stats }
