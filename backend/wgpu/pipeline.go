// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/triangle/gpucore"
)

// Buffer is a gpucore.Buffer over a HAL buffer. Vertex data is bound as a
// read-only storage buffer, so the buffer carries Storage usage.
type Buffer struct {
	device *Device
	raw    hal.Buffer
	label  string
	size   uint64
	once   sync.Once
}

var _ gpucore.Buffer = (*Buffer)(nil)

// Label returns the debug label.
func (b *Buffer) Label() string { return b.label }

// Size returns the size in bytes.
func (b *Buffer) Size() uint64 { return b.size }

// Release destroys the HAL buffer.
func (b *Buffer) Release() {
	b.once.Do(func() {
		b.device.device.DestroyBuffer(b.raw)
		b.raw = nil
	})
}

// ShaderModule is a gpucore.ShaderModule over a HAL shader module.
type ShaderModule struct {
	device *Device
	raw    hal.ShaderModule
	label  string
	once   sync.Once
}

var _ gpucore.ShaderModule = (*ShaderModule)(nil)

// Label returns the debug label.
func (m *ShaderModule) Label() string { return m.label }

// Release destroys the HAL shader module.
func (m *ShaderModule) Release() {
	m.once.Do(func() {
		m.device.device.DestroyShaderModule(m.raw)
		m.raw = nil
	})
}

// RenderPipeline is a gpucore.RenderPipeline. It owns its pipeline layout,
// the bind group layout for the vertex storage buffer at @group(0)
// @binding(0), and a bind group for the last buffer drawn with it.
type RenderPipeline struct {
	device     *Device
	raw        hal.RenderPipeline
	layout     hal.PipelineLayout
	bindLayout hal.BindGroupLayout
	label      string
	format     gputypes.TextureFormat
	topology   gputypes.PrimitiveTopology
	once       sync.Once

	mu       sync.Mutex
	boundBuf *Buffer
	group    hal.BindGroup
}

var _ gpucore.RenderPipeline = (*RenderPipeline)(nil)

// Label returns the debug label.
func (p *RenderPipeline) Label() string { return p.label }

// ColorFormat returns the color target format.
func (p *RenderPipeline) ColorFormat() gputypes.TextureFormat { return p.format }

// Topology returns the primitive topology.
func (p *RenderPipeline) Topology() gputypes.PrimitiveTopology { return p.topology }

// bindGroupFor returns the bind group exposing b at binding 0. The group is
// rebuilt only when b differs from the previous call, so a renderer drawing
// the same buffer every frame allocates nothing per frame.
func (p *RenderPipeline) bindGroupFor(b *Buffer) (hal.BindGroup, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.group != nil && p.boundBuf == b {
		return p.group, nil
	}

	dev := p.device.device
	group, err := dev.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  p.label + "_vertices",
		Layout: p.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: b.raw.NativeHandle(), Offset: 0, Size: b.size,
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	if p.group != nil {
		dev.DestroyBindGroup(p.group)
	}
	p.group = group
	p.boundBuf = b
	return group, nil
}

// Release destroys the cached bind group, the pipeline and its layouts.
// The bound buffer is not released.
func (p *RenderPipeline) Release() {
	p.once.Do(func() {
		dev := p.device.device
		p.mu.Lock()
		if p.group != nil {
			dev.DestroyBindGroup(p.group)
			p.group = nil
			p.boundBuf = nil
		}
		p.mu.Unlock()
		dev.DestroyRenderPipeline(p.raw)
		dev.DestroyPipelineLayout(p.layout)
		dev.DestroyBindGroupLayout(p.bindLayout)
		p.raw = nil
		p.layout = nil
		p.bindLayout = nil
	})
}
