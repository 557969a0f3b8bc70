// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wgpu implements the gpucore contract on top of gogpu/wgpu.
//
// It uses the gogpu/wgpu Pure Go WebGPU HAL (zero CGO), which drives Vulkan,
// Metal or DX12 depending on the platform, and gogpu/naga to compile WGSL.
//
// # Providers
//
// Three ways to obtain a device:
//
//   - [NewProvider]: a standalone device from a registered HAL backend
//     (Vulkan is registered by this package)
//   - [NewAPIProvider]: a standalone device from any HAL instance factory,
//     such as the noop API used in tests
//   - [NewSharedProvider]: the device of a host framework such as gogpu,
//     reached through a gpucontext.DeviceProvider whose Device() exposes
//     HalDevice() and HalQueue(); the shared device is never destroyed here
//
// # Frame Submission
//
// A command buffer is a HAL command encoder. Commit ends encoding, submits
// and presents the drawables scheduled with Present. It does not wait:
// buffers stay in flight until a later Commit sees their submission index
// reported by the queue's PollCompleted, or until the queue is released.
// Frames for a window host and Snapshot wait for the device to go idle.
//
// # Vertex Data
//
// Pipelines bind a read-only storage buffer at @group(0) @binding(0) for the
// vertex stage. SetVertexBuffer selects that buffer and Draw attaches a bind
// group for it, cached on the pipeline.
//
// # Targets
//
// [Offscreen] is a drawable backed by its own BGRA8 texture that can be read
// back with Snapshot. [HostDrawable] wraps a texture view owned by a window
// host for a single frame.
//
// # Registration
//
// Importing this package registers the "vulkan" and "noop" providers with
// the backend registry:
//
//	import _ "github.com/gogpu/triangle/backend/wgpu"
//
//	p := backend.Default()
package wgpu
