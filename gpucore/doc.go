// Package gpucore defines the GPU contract the triangle renderer is written against.
//
// The renderer never talks to a graphics API directly. It asks a [DeviceProvider]
// for a [Device], and from there creates a [CommandQueue], a vertex [Buffer], a
// [ShaderModule] and a [RenderPipeline]. Each frame it encodes a single render pass
// into a [CommandBuffer] and commits it.
//
// # Architecture
//
// The contract is implemented once per backend by a thin adapter:
//
//	               +------------------+
//	               |     triangle     |
//	               | (Renderer, loop) |
//	               +--------+---------+
//	                        |
//	               +--------v---------+
//	               |     gpucore      |
//	               |   (interfaces)   |
//	               +--------+---------+
//	                        |
//	         +--------------+--------------+
//	         |                             |
//	+--------v--------+          +--------v--------+
//	|  backend/wgpu   |          |   gpucoretest   |
//	|  (hal.Device)   |          | (recording fake)|
//	+--------+--------+          +-----------------+
//	         |
//	+--------v--------+
//	|   gogpu/wgpu    |
//	|   (Pure Go)     |
//	+-----------------+
//
// # Encoding order
//
// Commands are recorded Metal-style on a per-frame command buffer:
//
//	cb, _ := queue.NewCommandBuffer("frame")
//	enc, _ := cb.NewRenderCommandEncoder(&gpucore.RenderPassDescriptor{...})
//	_ = enc.SetRenderPipeline(pipeline)
//	_ = enc.SetVertexBuffer(vertices, 0, 0)
//	_ = enc.Draw(gputypes.PrimitiveTopologyTriangleList, 0, 3)
//	_ = enc.EndEncoding()
//	_ = cb.Present(drawable)
//	_ = cb.Commit()
//
// Present is only accepted once every pass has ended. The drawable is
// presented after the buffer is committed.
// Buffers execute in commit order. Commit does not wait for the GPU.
//
// # Types
//
// Formats, load/store operations, colors and topologies are the WebGPU types
// from github.com/gogpu/gputypes, so descriptors translate one-to-one into the
// wgpu HAL.
package gpucore
