package triangle

import (
	"fmt"

	"github.com/gogpu/triangle/gpucore"
)

// GraphicsContext owns the GPU device and its command queue.
//
// Create one per process with NewGraphicsContext and keep it alive for as
// long as any Renderer built from it is in use.
type GraphicsContext struct {
	device gpucore.Device
	queue  gpucore.CommandQueue
	closed bool
}

// NewGraphicsContext acquires the device from provider and creates exactly
// one command queue on it. The provider and the device receive the current
// Logger when they implement SetLogger(*slog.Logger), and the device follows
// later SetLogger calls until Close.
//
// It returns an error wrapping ErrNoDeviceAvailable when provider is nil or
// has no device, and ErrQueueCreationFailed when the queue cannot be created.
// On queue failure the device is released before returning.
func NewGraphicsContext(provider gpucore.DeviceProvider) (*GraphicsContext, error) {
	if provider == nil {
		return nil, ErrNoDeviceAvailable
	}
	propagateLogger(provider, Logger())
	device, err := provider.DefaultDevice()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoDeviceAvailable, err)
	}
	if device == nil {
		return nil, ErrNoDeviceAvailable
	}

	queue, err := device.NewCommandQueue()
	if err != nil {
		device.Release()
		return nil, fmt.Errorf("%w: %w", ErrQueueCreationFailed, err)
	}
	if queue == nil {
		device.Release()
		return nil, ErrQueueCreationFailed
	}

	propagateLogger(device, Logger())
	c := &GraphicsContext{device: device, queue: queue}
	trackContext(c)
	Logger().Info("triangle: GPU device acquired", "device", device.Name())
	return c, nil
}

// Device returns the GPU device.
func (c *GraphicsContext) Device() gpucore.Device { return c.device }

// Queue returns the command queue.
func (c *GraphicsContext) Queue() gpucore.CommandQueue { return c.queue }

// Close releases the queue and then the device. Renderers built from this
// context must be closed first. Close is idempotent.
func (c *GraphicsContext) Close() {
	if c == nil || c.closed {
		return
	}
	c.closed = true
	untrackContext(c)
	c.queue.Release()
	c.device.Release()
	Logger().Debug("triangle: graphics context closed")
}
