package triangle

import (
	"errors"
	"testing"

	"github.com/gogpu/triangle/gpucore/gpucoretest"
)

func TestNewGraphicsContext(t *testing.T) {
	provider := gpucoretest.NewProvider()
	ctx, err := NewGraphicsContext(provider)
	if err != nil {
		t.Fatalf("NewGraphicsContext() error = %v", err)
	}

	if ctx.Device() != provider.Device {
		t.Error("Device() is not the provider's device")
	}
	if len(provider.Device.Queues) != 1 {
		t.Fatalf("queues created = %d, want exactly 1", len(provider.Device.Queues))
	}
	if ctx.Queue() != provider.Device.Queues[0] {
		t.Error("Queue() is not the created queue")
	}

	ctx.Close()
	ctx.Close()
	if !provider.Device.Queues[0].Released || !provider.Device.Released {
		t.Error("Close should release queue and device")
	}
}

func TestNewGraphicsContextErrors(t *testing.T) {
	queueErr := errors.New("queue limit")

	tests := []struct {
		name          string
		provider      *gpucoretest.Provider
		want          error
		deviceRelease bool
	}{
		{
			name:     "no device",
			provider: &gpucoretest.Provider{},
			want:     ErrNoDeviceAvailable,
		},
		{
			name:     "provider error",
			provider: &gpucoretest.Provider{Err: errors.New("no adapters")},
			want:     ErrNoDeviceAvailable,
		},
		{
			name: "queue failure",
			provider: &gpucoretest.Provider{
				Device: &gpucoretest.Device{QueueErr: queueErr},
			},
			want:          ErrQueueCreationFailed,
			deviceRelease: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, err := NewGraphicsContext(tt.provider)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if ctx != nil {
				t.Error("context should be nil on error")
			}
			if tt.deviceRelease && !tt.provider.Device.Released {
				t.Error("device should be released when the queue cannot be created")
			}
		})
	}
}

func TestNewGraphicsContextNilProvider(t *testing.T) {
	if _, err := NewGraphicsContext(nil); !errors.Is(err, ErrNoDeviceAvailable) {
		t.Errorf("err = %v, want ErrNoDeviceAvailable", err)
	}
}

func TestNewRendererOnClosedContext(t *testing.T) {
	ctx, err := NewGraphicsContext(gpucoretest.NewProvider())
	if err != nil {
		t.Fatalf("NewGraphicsContext() error = %v", err)
	}
	ctx.Close()

	r, err := NewRenderer(ctx, DefaultTriangle())
	if !errors.Is(err, ErrNilContext) {
		t.Errorf("err = %v, want ErrNilContext", err)
	}
	if r.Ready() {
		t.Error("renderer on a closed context should not be ready")
	}
}
