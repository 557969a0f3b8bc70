package gpucore

import (
	"github.com/gogpu/gputypes"
)

// BufferDescriptor describes a GPU buffer created with initial contents.
type BufferDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Contents is copied into the buffer at creation time.
	// The buffer size equals len(Contents).
	Contents []byte

	// Usage specifies how the buffer will be used.
	Usage gputypes.BufferUsage
}

// ShaderModuleDescriptor describes a shader module compiled from WGSL text.
type ShaderModuleDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Source is the WGSL source text.
	Source string
}

// ShaderStage names an entry point inside a compiled shader module.
type ShaderStage struct {
	// Module is the compiled shader module.
	Module ShaderModule

	// EntryPoint is the name of the shader function.
	EntryPoint string
}

// RenderPipelineDescriptor describes a render pipeline.
//
// The vertex stage takes no vertex attributes. It reads a read-only storage
// buffer declared at @group(0) @binding(0), bound per pass with
// SetVertexBuffer at index 0, and indexes it with @builtin(vertex_index).
type RenderPipelineDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Vertex is the vertex stage.
	Vertex ShaderStage

	// Fragment is the fragment stage.
	Fragment ShaderStage

	// ColorFormat is the format of the single color attachment the pipeline
	// renders into. It must match every target texture it is used with.
	ColorFormat gputypes.TextureFormat

	// Topology is the primitive topology.
	Topology gputypes.PrimitiveTopology
}

// ColorAttachment describes one color target of a render pass.
type ColorAttachment struct {
	// Texture is the render target.
	Texture Texture

	// LoadOp is applied to the target at the start of the pass.
	LoadOp gputypes.LoadOp

	// StoreOp is applied to the target at the end of the pass.
	StoreOp gputypes.StoreOp

	// ClearValue is used when LoadOp is LoadOpClear.
	ClearValue gputypes.Color
}

// RenderPassDescriptor describes a render pass.
type RenderPassDescriptor struct {
	// Label is an optional debug label.
	Label string

	// ColorAttachments are the color targets of the pass.
	ColorAttachments []ColorAttachment
}
