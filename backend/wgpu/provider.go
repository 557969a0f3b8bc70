// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/triangle/gpucore"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// InstanceFactory creates HAL instances. Both the backends returned by
// hal.GetBackend and the noop API satisfy it.
type InstanceFactory interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

// Provider opens a standalone device on the first suitable adapter.
// It implements gpucore.DeviceProvider.
type Provider struct {
	name    string
	factory func() (InstanceFactory, error)
}

var _ gpucore.DeviceProvider = (*Provider)(nil)

// NewProvider returns a provider for a HAL backend registered in this build.
func NewProvider(backend gputypes.Backend) (*Provider, error) {
	if _, ok := hal.GetBackend(backend); !ok {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, backend)
	}
	return &Provider{
		name: fmt.Sprint(backend),
		factory: func() (InstanceFactory, error) {
			b, ok := hal.GetBackend(backend)
			if !ok {
				return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, backend)
			}
			return b, nil
		},
	}, nil
}

// NewAPIProvider returns a provider over an explicit instance factory.
func NewAPIProvider(name string, api InstanceFactory) *Provider {
	return &Provider{
		name:    name,
		factory: func() (InstanceFactory, error) { return api, nil },
	}
}

// Name returns the backend name.
func (p *Provider) Name() string { return p.name }

// SetLogger sets the backend logger, so adapter selection in DefaultDevice
// follows triangle.SetLogger.
func (p *Provider) SetLogger(l *slog.Logger) { SetLogger(l) }

// DefaultDevice creates an instance, prefers a discrete or integrated GPU
// adapter and opens it. The returned device owns the instance.
func (p *Provider) DefaultDevice() (gpucore.Device, error) {
	api, err := p.factory()
	if err != nil {
		return nil, err
	}
	instance, err := api.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}

	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	slogger().Info("wgpu: GPU initialized (standalone)", "backend", p.name, "adapter", selected.Info.Name)
	return newDevice(openDev.Device, openDev.Queue, selected.Info.Name, instance, true), nil
}

// halDevice is implemented by host device handles that expose their HAL
// device and queue, such as *wgpu.Device from gogpu.
type halDevice interface {
	HalDevice() hal.Device
	HalQueue() hal.Queue
}

// SharedProvider hands out a device owned by a host framework such as gogpu.
// It implements gpucore.DeviceProvider. Releasing the device it returns does
// not destroy the host's device.
type SharedProvider struct {
	host gpucontext.DeviceProvider
}

var _ gpucore.DeviceProvider = (*SharedProvider)(nil)

// NewSharedProvider wraps a host's gpucontext.DeviceProvider. The host's
// Device() must implement HalDevice() hal.Device and HalQueue() hal.Queue.
func NewSharedProvider(host gpucontext.DeviceProvider) *SharedProvider {
	return &SharedProvider{host: host}
}

// SurfaceFormat returns the host's surface format.
func (p *SharedProvider) SurfaceFormat() gputypes.TextureFormat {
	if p.host == nil {
		return gputypes.TextureFormatUndefined
	}
	return p.host.SurfaceFormat()
}

// SetLogger sets the backend logger.
func (p *SharedProvider) SetLogger(l *slog.Logger) { SetLogger(l) }

// DefaultDevice returns the host's device.
func (p *SharedProvider) DefaultDevice() (gpucore.Device, error) {
	if p.host == nil {
		return nil, ErrNoHalProvider
	}
	hd, ok := p.host.Device().(halDevice)
	if !ok || hd == nil {
		return nil, ErrNoHalProvider
	}
	device := hd.HalDevice()
	if device == nil {
		return nil, fmt.Errorf("%w: nil HAL device", ErrNoHalProvider)
	}
	queue := hd.HalQueue()
	if queue == nil {
		return nil, fmt.Errorf("%w: nil HAL queue", ErrNoHalProvider)
	}
	slogger().Debug("wgpu: using shared GPU device")
	return newDevice(device, queue, "shared", nil, false), nil
}
