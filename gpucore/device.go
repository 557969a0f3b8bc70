package gpucore

import (
	"errors"

	"github.com/gogpu/gputypes"
)

// Encoding errors shared by all backends.
var (
	// ErrEncoderEnded is returned when commands are recorded after EndEncoding.
	ErrEncoderEnded = errors.New("gpucore: render encoder has already ended")

	// ErrNilPipeline is returned when SetRenderPipeline is called with nil.
	ErrNilPipeline = errors.New("gpucore: render pipeline is nil")

	// ErrNilVertexBuffer is returned when SetVertexBuffer is called with nil.
	ErrNilVertexBuffer = errors.New("gpucore: vertex buffer is nil")

	// ErrNoPipelineBound is returned when Draw is called before SetRenderPipeline.
	ErrNoPipelineBound = errors.New("gpucore: no render pipeline bound")

	// ErrNoVertexBufferBound is returned when Draw is called before SetVertexBuffer.
	ErrNoVertexBufferBound = errors.New("gpucore: no vertex buffer bound")

	// ErrTopologyMismatch is returned when a draw uses a topology the bound
	// pipeline was not built for.
	ErrTopologyMismatch = errors.New("gpucore: draw topology does not match pipeline")

	// ErrEncodingIncomplete is returned when a command buffer is committed,
	// or a drawable is scheduled, while a render pass is still open.
	ErrEncodingIncomplete = errors.New("gpucore: render pass still encoding")

	// ErrCommitted is returned when a command buffer is used after Commit.
	ErrCommitted = errors.New("gpucore: command buffer already committed")

	// ErrNoColorAttachment is returned when a render pass has no color target.
	ErrNoColorAttachment = errors.New("gpucore: render pass has no color attachment")
)

// DeviceProvider supplies the GPU device for the process.
//
// Implementations decide where the device comes from: a platform default
// adapter, a device shared by a host framework, or a test fake.
type DeviceProvider interface {
	// DefaultDevice returns the device, or an error when no GPU is available.
	DefaultDevice() (Device, error)
}

// Device is a logical GPU device. It creates every other resource.
type Device interface {
	// Name returns a human-readable adapter name.
	Name() string

	// NewCommandQueue creates the queue command buffers are submitted to.
	NewCommandQueue() (CommandQueue, error)

	// NewBuffer creates a buffer initialized with desc.Contents.
	NewBuffer(desc *BufferDescriptor) (Buffer, error)

	// NewShaderModule compiles WGSL source into a shader module.
	NewShaderModule(desc *ShaderModuleDescriptor) (ShaderModule, error)

	// NewRenderPipeline builds a render pipeline from compiled stages.
	NewRenderPipeline(desc *RenderPipelineDescriptor) (RenderPipeline, error)

	// Release frees the device if the caller owns it. Safe to call more than once.
	Release()
}

// CommandQueue orders command buffers for execution on the device.
type CommandQueue interface {
	// NewCommandBuffer begins a new command buffer.
	NewCommandBuffer(label string) (CommandBuffer, error)

	// Release frees the queue and any command buffers still in flight.
	Release()
}

// CommandBuffer records GPU work for a single submission.
type CommandBuffer interface {
	// NewRenderCommandEncoder opens a render pass.
	NewRenderCommandEncoder(desc *RenderPassDescriptor) (RenderCommandEncoder, error)

	// Present schedules d to be presented once this buffer is committed.
	// Encoding must be finished: it returns ErrEncodingIncomplete while a
	// render pass is open and ErrCommitted after Commit or Discard.
	Present(d Drawable) error

	// Commit submits the buffer to its queue. It returns without waiting
	// for the GPU to finish.
	Commit() error

	// Discard abandons an uncommitted buffer and frees what it recorded.
	Discard()
}

// RenderCommandEncoder records the commands of one render pass.
//
// State machine:
//
//	Recording -> EndEncoding() -> Ended
type RenderCommandEncoder interface {
	// SetRenderPipeline binds the pipeline for subsequent draws.
	SetRenderPipeline(p RenderPipeline) error

	// SetVertexBuffer binds buf as the vertex function's buffer argument at
	// index. The vertex function fetches its own data from it using the
	// built-in vertex index; there is no fixed-function vertex layout.
	SetVertexBuffer(buf Buffer, offset uint64, index uint32) error

	// Draw draws vertexCount vertices starting at vertexStart. A pipeline and
	// a vertex buffer must be bound.
	Draw(topology gputypes.PrimitiveTopology, vertexStart, vertexCount uint32) error

	// EndEncoding closes the pass.
	EndEncoding() error
}

// Texture is a render target.
type Texture interface {
	// Format returns the pixel format.
	Format() gputypes.TextureFormat

	// Width returns the width in pixels.
	Width() uint32

	// Height returns the height in pixels.
	Height() uint32
}

// Drawable is the per-frame handle to a presentable back buffer.
//
// A Drawable is borrowed for a single frame. It must not be retained after
// the frame has been committed.
type Drawable interface {
	// Texture returns the current back buffer, or false when no target is
	// available this frame.
	Texture() (Texture, bool)

	// Present hands the back buffer to the display. Called by the command
	// buffer after it has been committed.
	Present()
}
