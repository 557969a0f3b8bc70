// Package gpucoretest provides a recording implementation of the gpucore
// contract for tests. Nothing is sent to a GPU; every resource and command is
// kept in memory so tests can assert on what a renderer encoded.
package gpucoretest

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"

	"github.com/gogpu/triangle/gpucore"
)

// ErrNoDevice is returned by a Provider without a device.
var ErrNoDevice = errors.New("gpucoretest: no device")

// Provider implements gpucore.DeviceProvider.
type Provider struct {
	Device *Device
	Err    error
}

// NewProvider returns a provider handing out a fresh recording device.
func NewProvider() *Provider {
	return &Provider{Device: NewDevice()}
}

// DefaultDevice returns p.Device, or p.Err when set.
func (p *Provider) DefaultDevice() (gpucore.Device, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	if p.Device == nil {
		return nil, ErrNoDevice
	}
	return p.Device, nil
}

// Device implements gpucore.Device. Set the *Err fields to inject failures.
type Device struct {
	QueueErr    error
	BufferErr   error
	ShaderErr   error
	PipelineErr error

	Queues    []*Queue
	Buffers   []*Buffer
	Shaders   []*ShaderModule
	Pipelines []*RenderPipeline
	Released  bool

	// Logger is the logger last handed to SetLogger.
	Logger *slog.Logger
}

// NewDevice returns an empty recording device.
func NewDevice() *Device { return &Device{} }

// Name returns a fixed adapter name.
func (d *Device) Name() string { return "gpucoretest" }

// SetLogger records l.
func (d *Device) SetLogger(l *slog.Logger) { d.Logger = l }

// NewCommandQueue records and returns a new queue.
func (d *Device) NewCommandQueue() (gpucore.CommandQueue, error) {
	if d.QueueErr != nil {
		return nil, d.QueueErr
	}
	q := &Queue{}
	d.Queues = append(d.Queues, q)
	return q, nil
}

// NewBuffer records a buffer holding a private copy of desc.Contents.
func (d *Device) NewBuffer(desc *gpucore.BufferDescriptor) (gpucore.Buffer, error) {
	if d.BufferErr != nil {
		return nil, d.BufferErr
	}
	b := &Buffer{
		label:    desc.Label,
		Usage:    desc.Usage,
		contents: append([]byte(nil), desc.Contents...),
	}
	d.Buffers = append(d.Buffers, b)
	return b, nil
}

// NewShaderModule compiles the source with naga and records the module.
// A compiler failure is returned as *CompileError.
func (d *Device) NewShaderModule(desc *gpucore.ShaderModuleDescriptor) (gpucore.ShaderModule, error) {
	if d.ShaderErr != nil {
		return nil, d.ShaderErr
	}
	if _, err := naga.Compile(desc.Source); err != nil {
		return nil, &CompileError{Label: desc.Label, Err: err}
	}
	m := &ShaderModule{label: desc.Label, Source: desc.Source}
	d.Shaders = append(d.Shaders, m)
	return m, nil
}

// NewRenderPipeline records a pipeline built from desc.
func (d *Device) NewRenderPipeline(desc *gpucore.RenderPipelineDescriptor) (gpucore.RenderPipeline, error) {
	if d.PipelineErr != nil {
		return nil, d.PipelineErr
	}
	p := &RenderPipeline{
		label:          desc.Label,
		format:         desc.ColorFormat,
		topology:       desc.Topology,
		VertexEntry:    desc.Vertex.EntryPoint,
		FragmentEntry:  desc.Fragment.EntryPoint,
		VertexModule:   desc.Vertex.Module,
		FragmentModule: desc.Fragment.Module,
	}
	d.Pipelines = append(d.Pipelines, p)
	return p, nil
}

// Release marks the device released.
func (d *Device) Release() { d.Released = true }

// Commits returns the number of committed command buffers across all queues.
func (d *Device) Commits() int {
	n := 0
	for _, q := range d.Queues {
		n += q.Commits()
	}
	return n
}

// Queue implements gpucore.CommandQueue.
type Queue struct {
	CommandBufferErr error
	// RenderPassErr is returned by NewRenderCommandEncoder on every command
	// buffer created while it is set.
	RenderPassErr error

	CommandBuffers []*CommandBuffer
	Committed      []*CommandBuffer
	Released       bool
}

// NewCommandBuffer records and returns a new command buffer.
func (q *Queue) NewCommandBuffer(label string) (gpucore.CommandBuffer, error) {
	if q.CommandBufferErr != nil {
		return nil, q.CommandBufferErr
	}
	cb := &CommandBuffer{Label: label, queue: q, passErr: q.RenderPassErr}
	q.CommandBuffers = append(q.CommandBuffers, cb)
	return cb, nil
}

// Release marks the queue released.
func (q *Queue) Release() { q.Released = true }

// Commits returns the number of committed command buffers.
func (q *Queue) Commits() int { return len(q.Committed) }

// CommandBuffer implements gpucore.CommandBuffer and records every call in
// Events, in order.
type CommandBuffer struct {
	Label     string
	Passes    []*RenderPass
	Presented []gpucore.Drawable
	Events    []string
	CommitErr error
	Discarded bool

	queue     *Queue
	passErr   error
	committed bool
}

// NewRenderCommandEncoder opens a recorded render pass.
func (cb *CommandBuffer) NewRenderCommandEncoder(desc *gpucore.RenderPassDescriptor) (gpucore.RenderCommandEncoder, error) {
	if cb.committed {
		return nil, gpucore.ErrCommitted
	}
	if desc == nil || len(desc.ColorAttachments) == 0 {
		return nil, gpucore.ErrNoColorAttachment
	}
	if cb.passErr != nil {
		return nil, cb.passErr
	}
	rp := &RenderPass{
		Label:            desc.Label,
		ColorAttachments: append([]gpucore.ColorAttachment(nil), desc.ColorAttachments...),
		VertexBuffers:    make(map[uint32]gpucore.Buffer),
		cb:               cb,
	}
	cb.Passes = append(cb.Passes, rp)
	cb.Events = append(cb.Events, "begin_pass")
	return rp, nil
}

// Present records d for presentation at commit. It fails while a pass is
// still open.
func (cb *CommandBuffer) Present(d gpucore.Drawable) error {
	if cb.committed {
		return gpucore.ErrCommitted
	}
	if cb.passOpen() {
		return gpucore.ErrEncodingIncomplete
	}
	cb.Presented = append(cb.Presented, d)
	cb.Events = append(cb.Events, "present")
	return nil
}

func (cb *CommandBuffer) passOpen() bool {
	for _, rp := range cb.Passes {
		if !rp.Ended {
			return true
		}
	}
	return false
}

// Commit records the buffer on its queue and presents scheduled drawables.
func (cb *CommandBuffer) Commit() error {
	if cb.committed {
		return gpucore.ErrCommitted
	}
	if cb.passOpen() {
		return gpucore.ErrEncodingIncomplete
	}
	if cb.CommitErr != nil {
		return cb.CommitErr
	}
	cb.committed = true
	cb.Events = append(cb.Events, "commit")
	cb.queue.Committed = append(cb.queue.Committed, cb)
	for _, d := range cb.Presented {
		d.Present()
	}
	return nil
}

// Discard marks the buffer discarded. It is never committed afterwards.
func (cb *CommandBuffer) Discard() {
	if cb.committed {
		return
	}
	cb.Discarded = true
	cb.committed = true
	cb.Events = append(cb.Events, "discard")
}

// IsCommitted reports whether Commit succeeded.
func (cb *CommandBuffer) IsCommitted() bool { return cb.committed && !cb.Discarded }

// DrawCall is one recorded draw.
type DrawCall struct {
	Pipeline    gpucore.RenderPipeline
	Topology    gputypes.PrimitiveTopology
	VertexStart uint32
	VertexCount uint32
}

// RenderPass implements gpucore.RenderCommandEncoder.
type RenderPass struct {
	Label            string
	ColorAttachments []gpucore.ColorAttachment
	Pipeline         gpucore.RenderPipeline
	VertexBuffers    map[uint32]gpucore.Buffer
	Draws            []DrawCall
	Ended            bool

	cb *CommandBuffer
}

// SetRenderPipeline records the bound pipeline.
func (rp *RenderPass) SetRenderPipeline(p gpucore.RenderPipeline) error {
	if rp.Ended {
		return fmt.Errorf("set pipeline: %w", gpucore.ErrEncoderEnded)
	}
	if p == nil {
		return gpucore.ErrNilPipeline
	}
	rp.Pipeline = p
	rp.cb.Events = append(rp.cb.Events, "set_pipeline")
	return nil
}

// SetVertexBuffer records buf at index.
func (rp *RenderPass) SetVertexBuffer(buf gpucore.Buffer, _ uint64, index uint32) error {
	if rp.Ended {
		return fmt.Errorf("set vertex buffer: %w", gpucore.ErrEncoderEnded)
	}
	if buf == nil {
		return gpucore.ErrNilVertexBuffer
	}
	rp.VertexBuffers[index] = buf
	rp.cb.Events = append(rp.cb.Events, "set_vertex_buffer")
	return nil
}

// Draw records a draw call.
func (rp *RenderPass) Draw(topology gputypes.PrimitiveTopology, vertexStart, vertexCount uint32) error {
	if rp.Ended {
		return fmt.Errorf("draw: %w", gpucore.ErrEncoderEnded)
	}
	if rp.Pipeline == nil {
		return gpucore.ErrNoPipelineBound
	}
	if len(rp.VertexBuffers) == 0 {
		return gpucore.ErrNoVertexBufferBound
	}
	if rp.Pipeline.Topology() != topology {
		return gpucore.ErrTopologyMismatch
	}
	rp.Draws = append(rp.Draws, DrawCall{
		Pipeline:    rp.Pipeline,
		Topology:    topology,
		VertexStart: vertexStart,
		VertexCount: vertexCount,
	})
	rp.cb.Events = append(rp.cb.Events, "draw")
	return nil
}

// EndEncoding closes the pass.
func (rp *RenderPass) EndEncoding() error {
	if rp.Ended {
		return fmt.Errorf("end encoding: %w", gpucore.ErrEncoderEnded)
	}
	rp.Ended = true
	rp.cb.Events = append(rp.cb.Events, "end_encoding")
	return nil
}

// Buffer implements gpucore.Buffer.
type Buffer struct {
	Usage    gputypes.BufferUsage
	Released bool

	label    string
	contents []byte
}

// Label returns the debug label.
func (b *Buffer) Label() string { return b.label }

// Size returns the buffer size in bytes.
func (b *Buffer) Size() uint64 { return uint64(len(b.contents)) }

// Contents returns a copy of what the GPU would hold.
func (b *Buffer) Contents() []byte { return append([]byte(nil), b.contents...) }

// Release marks the buffer released.
func (b *Buffer) Release() { b.Released = true }

// ShaderModule implements gpucore.ShaderModule.
type ShaderModule struct {
	Source   string
	Released bool

	label string
}

// Label returns the debug label.
func (m *ShaderModule) Label() string { return m.label }

// Release marks the module released.
func (m *ShaderModule) Release() { m.Released = true }

// RenderPipeline implements gpucore.RenderPipeline.
type RenderPipeline struct {
	VertexEntry    string
	FragmentEntry  string
	VertexModule   gpucore.ShaderModule
	FragmentModule gpucore.ShaderModule
	Released       bool

	label    string
	format   gputypes.TextureFormat
	topology gputypes.PrimitiveTopology
}

// Label returns the debug label.
func (p *RenderPipeline) Label() string { return p.label }

// ColorFormat returns the color attachment format.
func (p *RenderPipeline) ColorFormat() gputypes.TextureFormat { return p.format }

// Topology returns the primitive topology.
func (p *RenderPipeline) Topology() gputypes.PrimitiveTopology { return p.topology }

// Release marks the pipeline released.
func (p *RenderPipeline) Release() { p.Released = true }

// Texture implements gpucore.Texture.
type Texture struct {
	Fmt gputypes.TextureFormat
	W   uint32
	H   uint32
}

// Format returns the pixel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.Fmt }

// Width returns the width in pixels.
func (t *Texture) Width() uint32 { return t.W }

// Height returns the height in pixels.
func (t *Texture) Height() uint32 { return t.H }

// Drawable implements gpucore.Drawable. A nil Tex reports no target.
type Drawable struct {
	Tex      *Texture
	Presents int
}

// NewDrawable returns a drawable with a BGRA8Unorm back buffer.
func NewDrawable(width, height uint32) *Drawable {
	return &Drawable{Tex: &Texture{Fmt: gputypes.TextureFormatBGRA8Unorm, W: width, H: height}}
}

// Texture returns the back buffer, if any.
func (d *Drawable) Texture() (gpucore.Texture, bool) {
	if d.Tex == nil {
		return nil, false
	}
	return d.Tex, true
}

// Present counts presentations.
func (d *Drawable) Present() { d.Presents++ }

// CompileError wraps the naga diagnostic for a shader that failed to compile.
type CompileError struct {
	Label string
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("gpucoretest: compile %s: %v", e.Label, e.Err)
}

// Unwrap returns the naga error.
func (e *CompileError) Unwrap() error { return e.Err }
