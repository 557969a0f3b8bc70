// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/triangle/gpucore"
)

// Device is a gpucore.Device over a HAL device and its queue.
type Device struct {
	mu       sync.Mutex
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance
	name     string
	owned    bool
	released bool
}

var _ gpucore.Device = (*Device)(nil)

func newDevice(device hal.Device, queue hal.Queue, name string, instance hal.Instance, owned bool) *Device {
	return &Device{
		device:   device,
		queue:    queue,
		instance: instance,
		name:     name,
		owned:    owned,
	}
}

// Name returns the adapter name, or "shared" for a host device.
func (d *Device) Name() string { return d.name }

// HalDevice returns the underlying HAL device.
func (d *Device) HalDevice() hal.Device { return d.device }

// HalQueue returns the underlying HAL queue.
func (d *Device) HalQueue() hal.Queue { return d.queue }

// SetLogger sets the backend logger. It lets the device follow
// triangle.SetLogger.
func (d *Device) SetLogger(l *slog.Logger) { SetLogger(l) }

// Owned reports whether Release destroys the HAL device.
func (d *Device) Owned() bool { return d.owned }

func (d *Device) checkLive() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return ErrReleased
	}
	return nil
}

// NewCommandQueue returns a queue wrapper. A HAL device has a single queue,
// so every call shares it.
func (d *Device) NewCommandQueue() (gpucore.CommandQueue, error) {
	if err := d.checkLive(); err != nil {
		return nil, err
	}
	if d.queue == nil {
		return nil, ErrNilQueue
	}
	return &CommandQueue{device: d}, nil
}

// NewBuffer creates a buffer and uploads desc.Contents. CopyDst is added to
// the usage so the upload is legal.
func (d *Device) NewBuffer(desc *gpucore.BufferDescriptor) (gpucore.Buffer, error) {
	if err := d.checkLive(); err != nil {
		return nil, err
	}
	if len(desc.Contents) == 0 {
		return nil, ErrEmptyBuffer
	}
	size := uint64(len(desc.Contents))
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  size,
		Usage: desc.Usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", desc.Label, err)
	}
	if err := d.queue.WriteBuffer(buf, 0, desc.Contents); err != nil {
		d.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("upload %s: %w", desc.Label, err)
	}
	slogger().Debug("wgpu: buffer created", "label", desc.Label, "size", size)
	return &Buffer{device: d, raw: buf, label: desc.Label, size: size}, nil
}

// NewShaderModule compiles WGSL to SPIR-V with naga and creates a module from
// the result. A front-end failure is returned as *CompileError.
func (d *Device) NewShaderModule(desc *gpucore.ShaderModuleDescriptor) (gpucore.ShaderModule, error) {
	if err := d.checkLive(); err != nil {
		return nil, err
	}
	spirv, err := compileWGSL(desc.Source)
	if err != nil {
		return nil, &CompileError{Label: desc.Label, Err: err}
	}
	module, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label,
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", desc.Label, err)
	}
	slogger().Debug("wgpu: shader compiled", "label", desc.Label, "spirv_words", len(spirv))
	return &ShaderModule{device: d, raw: module, label: desc.Label}, nil
}

// compileWGSL returns little-endian SPIR-V words for src.
func compileWGSL(src string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(src)
	if err != nil {
		return nil, err
	}
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirvBytes[i*4:])
	}
	return words, nil
}

// NewRenderPipeline creates a pipeline whose layout holds one bind group:
// a read-only storage buffer at binding 0, visible to the vertex stage. The
// pipeline declares no vertex buffer layouts; the vertex function fetches
// its input by vertex index.
func (d *Device) NewRenderPipeline(desc *gpucore.RenderPipelineDescriptor) (gpucore.RenderPipeline, error) {
	if err := d.checkLive(); err != nil {
		return nil, err
	}
	vs, ok := desc.Vertex.Module.(*ShaderModule)
	if !ok || vs == nil {
		return nil, fmt.Errorf("%w: vertex module", ErrForeignResource)
	}
	fs, ok := desc.Fragment.Module.(*ShaderModule)
	if !ok || fs == nil {
		return nil, fmt.Errorf("%w: fragment module", ErrForeignResource)
	}

	bindLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: desc.Label + "_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer: &gputypes.BufferBindingLayout{
					Type: gputypes.BufferBindingTypeReadOnlyStorage,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}

	layout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + "_layout",
		BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		d.device.DestroyBindGroupLayout(bindLayout)
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}

	pipeline, err := d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: layout,
		Vertex: hal.VertexState{
			Module:     vs.raw,
			EntryPoint: desc.Vertex.EntryPoint,
		},
		Primitive: gputypes.PrimitiveState{
			Topology: desc.Topology,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		Fragment: &hal.FragmentState{
			Module:     fs.raw,
			EntryPoint: desc.Fragment.EntryPoint,
			Targets: []gputypes.ColorTargetState{{
				Format:    desc.ColorFormat,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
	})
	if err != nil {
		d.device.DestroyPipelineLayout(layout)
		d.device.DestroyBindGroupLayout(bindLayout)
		return nil, fmt.Errorf("create render pipeline: %w", err)
	}

	slogger().Debug("wgpu: render pipeline created", "label", desc.Label, "format", desc.ColorFormat)
	return &RenderPipeline{
		device:     d,
		raw:        pipeline,
		layout:     layout,
		bindLayout: bindLayout,
		label:      desc.Label,
		format:     desc.ColorFormat,
		topology:   desc.Topology,
	}, nil
}

// NewOffscreen creates an offscreen drawable of the given size in
// BGRA8Unorm.
func (d *Device) NewOffscreen(width, height uint32) (*Offscreen, error) {
	if err := d.checkLive(); err != nil {
		return nil, err
	}
	return newOffscreen(d, width, height)
}

// Release destroys the HAL device and instance when the device is owned.
// A shared device is left untouched.
func (d *Device) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.released {
		return
	}
	d.released = true
	if !d.owned {
		return
	}
	if d.device != nil {
		d.device.Destroy()
	}
	if d.instance != nil {
		d.instance.Destroy()
	}
	slogger().Debug("wgpu: device released", "name", d.name)
}
