package backend

import (
	"errors"

	"github.com/gogpu/triangle/gpucore"
)

// Backend names.
const (
	// BackendVulkan is the Vulkan HAL backend from gogpu/wgpu.
	BackendVulkan = "vulkan"

	// BackendNoop is the no-op HAL backend. It accepts every command and
	// renders nothing, which makes it useful in tests and CI.
	BackendNoop = "noop"
)

// ErrBackendNotAvailable is returned when a requested backend is not registered.
var ErrBackendNotAvailable = errors.New("backend: not available")

// Factory creates a device provider. It returns an error when the backend
// cannot run on this machine.
type Factory func() (gpucore.DeviceProvider, error)
