package triangle

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// newNopLogger creates a logger that silently discards all output.
func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	l := newNopLogger()
	loggerPtr.Store(l)
}

// SetLogger configures the logger for triangle and for the GPU backend of
// every open GraphicsContext. By default, triangle produces no log output.
// Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by triangle:
//   - [slog.LevelDebug]: pipeline and buffer details, skipped frames
//   - [slog.LevelInfo]: lifecycle events (device acquired, renderer ready)
//   - [slog.LevelWarn]: failed frames, pipeline build failures
//
// Example:
//
//	triangle.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)

	// Propagate to the devices of open contexts.
	liveMu.Lock()
	defer liveMu.Unlock()
	for c := range live {
		propagateLogger(c.device, l)
	}
}

// Logger returns the current logger used by triangle.
// The frame loop and renderer log through it.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by GPU backends that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// propagateLogger passes the logger to v if it implements loggerSetter.
// Called from SetLogger, NewGraphicsContext and the context registry.
func propagateLogger(v any, l *slog.Logger) {
	if ls, ok := v.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}

// live holds the open contexts whose devices follow SetLogger.
var (
	liveMu sync.Mutex
	live   = make(map[*GraphicsContext]struct{})
)

func trackContext(c *GraphicsContext) {
	liveMu.Lock()
	live[c] = struct{}{}
	liveMu.Unlock()
}

func untrackContext(c *GraphicsContext) {
	liveMu.Lock()
	delete(live, c)
	liveMu.Unlock()
}
