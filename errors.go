package triangle

import (
	"errors"
	"fmt"
)

// Renderer and context errors.
var (
	// ErrNoDeviceAvailable is returned when the provider has no GPU device.
	// Fatal at startup.
	ErrNoDeviceAvailable = errors.New("triangle: no GPU device available")

	// ErrQueueCreationFailed is returned when the device cannot create a
	// command queue. Fatal at startup.
	ErrQueueCreationFailed = errors.New("triangle: command queue creation failed")

	// ErrPipelineBuild matches every *PipelineBuildError via errors.Is.
	ErrPipelineBuild = errors.New("triangle: pipeline build failed")

	// ErrRendererNotReady is returned by DrawFrame when construction did not
	// succeed or the renderer was closed. No GPU work is performed.
	ErrRendererNotReady = errors.New("triangle: renderer not ready")

	// ErrNoDrawableAvailable is returned by DrawFrame when the surface has no
	// target this frame. The frame is skipped; later frames are unaffected.
	ErrNoDrawableAvailable = errors.New("triangle: no drawable available")

	// ErrFormatMismatch is returned by DrawFrame when the drawable's format
	// differs from the pipeline's color format.
	ErrFormatMismatch = errors.New("triangle: drawable format does not match pipeline")

	// ErrInvalidVertexData is returned when the vertex data is not exactly
	// three vertices of three floats.
	ErrInvalidVertexData = errors.New("triangle: vertex data must be 9 floats")

	// ErrNilContext is returned when NewRenderer is called without a context.
	ErrNilContext = errors.New("triangle: graphics context is nil")
)

// PipelineBuildError reports a failure to compile the shader source or to
// build the render pipeline. Diagnostic carries the compiler output.
type PipelineBuildError struct {
	// Stage is "shader" or "pipeline".
	Stage string

	// Diagnostic is the compiler or driver message.
	Diagnostic string

	// Err is the underlying error, if any.
	Err error
}

func (e *PipelineBuildError) Error() string {
	return fmt.Sprintf("triangle: %s build failed: %s", e.Stage, e.Diagnostic)
}

// Unwrap returns the underlying error.
func (e *PipelineBuildError) Unwrap() error { return e.Err }

// Is reports whether target is ErrPipelineBuild.
func (e *PipelineBuildError) Is(target error) bool { return target == ErrPipelineBuild }

func newPipelineBuildError(stage string, err error) *PipelineBuildError {
	return &PipelineBuildError{Stage: stage, Diagnostic: err.Error(), Err: err}
}
