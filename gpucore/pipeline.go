package gpucore

import (
	"github.com/gogpu/gputypes"
)

// ShaderModule is a compiled shader program. It may contain several entry
// points. A module is only needed while pipelines are being built and may be
// released afterwards.
type ShaderModule interface {
	// Label returns the debug label.
	Label() string

	// Release frees the GPU resources. Safe to call more than once.
	Release()
}

// RenderPipeline is an immutable render pipeline state: vertex stage,
// fragment stage, color format and primitive topology.
type RenderPipeline interface {
	// Label returns the debug label.
	Label() string

	// ColorFormat returns the color attachment format the pipeline was built for.
	ColorFormat() gputypes.TextureFormat

	// Topology returns the primitive topology the pipeline rasterizes.
	Topology() gputypes.PrimitiveTopology

	// Release frees the GPU resources. Safe to call more than once.
	Release()
}

// Buffer is a GPU-resident buffer.
type Buffer interface {
	// Label returns the debug label.
	Label() string

	// Size returns the buffer size in bytes.
	Size() uint64

	// Release frees the GPU resources. Safe to call more than once.
	Release()
}
