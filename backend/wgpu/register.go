// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/triangle/backend"
	"github.com/gogpu/triangle/gpucore"
)

func init() {
	backend.Register(backend.BackendVulkan, func() (gpucore.DeviceProvider, error) {
		return NewProvider(gputypes.BackendVulkan)
	})
	backend.Register(backend.BackendNoop, func() (gpucore.DeviceProvider, error) {
		return NewNoopProvider(), nil
	})
}

// NewNoopProvider returns a provider over the no-op HAL. Every call succeeds
// and nothing is rendered.
func NewNoopProvider() *Provider {
	return NewAPIProvider(backend.BackendNoop, &noop.API{})
}
