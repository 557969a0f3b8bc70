package triangle

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/triangle/gpucore"
)

// RendererState is the lifecycle state of a Renderer.
type RendererState int

const (
	// StateUninitialized means construction has not finished.
	StateUninitialized RendererState = iota
	// StateReady means the pipeline and vertex buffer are valid.
	StateReady
	// StateFailed means construction failed. DrawFrame always returns
	// ErrRendererNotReady.
	StateFailed
	// StateClosed means Close released the GPU resources.
	StateClosed
)

// String returns the string representation of RendererState.
func (s RendererState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Renderer owns the triangle's render pipeline and vertex buffer and encodes
// one frame per DrawFrame call.
//
// Renderer is NOT safe for concurrent use. The host calls DrawFrame from a
// single goroutine, once per display refresh.
type Renderer struct {
	ctx   *GraphicsContext
	opts  rendererOptions
	state RendererState

	pipeline gpucore.RenderPipeline
	vertices gpucore.Buffer
}

// NewRenderer uploads vertices (exactly 9 floats: three x, y, z positions in
// normalized device coordinates), compiles the shader and builds the render
// pipeline.
//
// The returned Renderer is never nil. When err is non-nil the renderer is in
// StateFailed, everything created so far has been released, and DrawFrame
// returns ErrRendererNotReady. Shader and pipeline failures are reported as
// *PipelineBuildError.
func NewRenderer(ctx *GraphicsContext, vertices []float32, opts ...RendererOption) (*Renderer, error) {
	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}
	r := &Renderer{ctx: ctx, opts: o}

	if err := r.init(vertices); err != nil {
		r.release()
		r.state = StateFailed
		Logger().Warn("triangle: renderer construction failed", "error", err)
		return r, err
	}

	r.state = StateReady
	Logger().Info("triangle: renderer ready",
		"pipeline", r.pipeline.Label(),
		"format", r.opts.colorFormat,
		"vertex_bytes", r.vertices.Size())
	return r, nil
}

// init creates the vertex buffer, then the shader module and pipeline.
func (r *Renderer) init(vertices []float32) error {
	if r.ctx == nil || r.ctx.closed {
		return ErrNilContext
	}
	if err := validateVertices(vertices); err != nil {
		return err
	}
	device := r.ctx.Device()

	buf, err := device.NewBuffer(&gpucore.BufferDescriptor{
		Label:    r.opts.label + "_vertices",
		Contents: encodeVertices(vertices),
		Usage:    gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create vertex buffer: %w", err)
	}
	r.vertices = buf
	Logger().Debug("triangle: vertex buffer uploaded", "label", buf.Label(), "size", buf.Size())

	pipeline, err := r.buildPipeline(device)
	if err != nil {
		return err
	}
	r.pipeline = pipeline
	return nil
}

// buildPipeline compiles the shader source and builds the render pipeline.
// The shader module is released once the pipeline exists.
func (r *Renderer) buildPipeline(device gpucore.Device) (gpucore.RenderPipeline, error) {
	if err := checkEntryPoints(r.opts.shaderSource); err != nil {
		return nil, newPipelineBuildError("shader", err)
	}

	shader, err := device.NewShaderModule(&gpucore.ShaderModuleDescriptor{
		Label:  r.opts.label + "_shader",
		Source: r.opts.shaderSource,
	})
	if err != nil {
		return nil, newPipelineBuildError("shader", err)
	}
	defer shader.Release()

	pipeline, err := device.NewRenderPipeline(&gpucore.RenderPipelineDescriptor{
		Label:       r.opts.label + "_pipeline",
		Vertex:      gpucore.ShaderStage{Module: shader, EntryPoint: VertexEntryPoint},
		Fragment:    gpucore.ShaderStage{Module: shader, EntryPoint: FragmentEntryPoint},
		ColorFormat: r.opts.colorFormat,
		Topology:    gputypes.PrimitiveTopologyTriangleList,
	})
	if err != nil {
		return nil, newPipelineBuildError("pipeline", err)
	}
	Logger().Debug("triangle: render pipeline built", "label", pipeline.Label())
	return pipeline, nil
}

// State returns the lifecycle state.
func (r *Renderer) State() RendererState { return r.state }

// Ready reports whether DrawFrame can encode GPU work. It turns false once
// the GraphicsContext is closed, even if the renderer itself is not.
func (r *Renderer) Ready() bool {
	return r.state == StateReady && r.pipeline != nil && r.vertices != nil &&
		r.ctx != nil && !r.ctx.closed
}

// ClearColor returns the color the target is cleared to each frame.
func (r *Renderer) ClearColor() gputypes.Color { return r.opts.clearColor }

// ColorFormat returns the format the pipeline renders into.
func (r *Renderer) ColorFormat() gputypes.TextureFormat { return r.opts.colorFormat }

// DrawFrame clears the drawable's texture and draws the triangle into it.
//
// It returns ErrRendererNotReady if construction failed, ErrNoDrawableAvailable
// if d has no target this frame, and ErrFormatMismatch if the target's format
// differs from the pipeline's. None of these perform GPU work.
//
// Otherwise it encodes one render pass, schedules presentation of d and
// commits the command buffer, in that order. It does not wait for the GPU
// and does not retain d after it returns.
func (r *Renderer) DrawFrame(d gpucore.Drawable) error {
	if !r.Ready() {
		return ErrRendererNotReady
	}
	if d == nil {
		return ErrNoDrawableAvailable
	}
	target, ok := d.Texture()
	if !ok || target == nil {
		return ErrNoDrawableAvailable
	}
	if target.Format() != r.pipeline.ColorFormat() {
		return fmt.Errorf("%w: drawable %v, pipeline %v",
			ErrFormatMismatch, target.Format(), r.pipeline.ColorFormat())
	}

	cb, err := r.ctx.Queue().NewCommandBuffer(r.opts.label + "_frame")
	if err != nil {
		return fmt.Errorf("create command buffer: %w", err)
	}
	if err := r.encode(cb, target); err != nil {
		cb.Discard()
		return err
	}
	if err := cb.Present(d); err != nil {
		cb.Discard()
		return fmt.Errorf("present: %w", err)
	}
	if err := cb.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// encode records the clear-and-draw render pass into cb.
func (r *Renderer) encode(cb gpucore.CommandBuffer, target gpucore.Texture) error {
	enc, err := cb.NewRenderCommandEncoder(&gpucore.RenderPassDescriptor{
		Label: r.opts.label + "_pass",
		ColorAttachments: []gpucore.ColorAttachment{{
			Texture:    target,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: r.opts.clearColor,
		}},
	})
	if err != nil {
		return fmt.Errorf("begin render pass: %w", err)
	}
	if err := enc.SetRenderPipeline(r.pipeline); err != nil {
		return err
	}
	if err := enc.SetVertexBuffer(r.vertices, 0, 0); err != nil {
		return err
	}
	if err := enc.Draw(r.pipeline.Topology(), 0, triangleVertexCount); err != nil {
		return err
	}
	if err := enc.EndEncoding(); err != nil {
		return err
	}
	return nil
}

// Close releases the pipeline and vertex buffer. The GraphicsContext is not
// closed. Close is idempotent; DrawFrame returns ErrRendererNotReady after it.
func (r *Renderer) Close() {
	if r == nil || r.state == StateClosed {
		return
	}
	r.release()
	r.state = StateClosed
}

// release frees resources in reverse creation order.
func (r *Renderer) release() {
	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}
	if r.vertices != nil {
		r.vertices.Release()
		r.vertices = nil
	}
}
