package backend

import (
	"errors"
	"testing"

	"github.com/gogpu/triangle/gpucore"
	"github.com/gogpu/triangle/gpucore/gpucoretest"
)

// withRegistry replaces the registry for the duration of a test.
func withRegistry(t *testing.T, entries map[string]Factory) {
	t.Helper()
	registryMu.Lock()
	saved := backends
	backends = make(map[string]Factory, len(entries))
	for name, f := range entries {
		backends[name] = f
	}
	registryMu.Unlock()

	t.Cleanup(func() {
		registryMu.Lock()
		backends = saved
		registryMu.Unlock()
	})
}

func fakeFactory(p gpucore.DeviceProvider) Factory {
	return func() (gpucore.DeviceProvider, error) { return p, nil }
}

func failingFactory() (gpucore.DeviceProvider, error) {
	return nil, errors.New("no driver")
}

func TestRegistryRegisterAndGet(t *testing.T) {
	want := gpucoretest.NewProvider()
	withRegistry(t, nil)
	Register("fake", fakeFactory(want))

	if !IsRegistered("fake") {
		t.Error("fake backend should be registered")
	}

	got, err := Get("fake")
	if err != nil {
		t.Fatalf("Get(fake) error = %v", err)
	}
	if got != want {
		t.Error("Get(fake) returned a different provider")
	}
}

func TestRegistryGetUnregistered(t *testing.T) {
	withRegistry(t, nil)
	p, err := Get("nonexistent")
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Get(nonexistent) error = %v, want ErrBackendNotAvailable", err)
	}
	if p != nil {
		t.Error("Get(nonexistent) should return nil")
	}
}

func TestRegistryGetFactoryError(t *testing.T) {
	withRegistry(t, map[string]Factory{BackendVulkan: failingFactory})
	if _, err := Get(BackendVulkan); err == nil {
		t.Error("Get(vulkan) should fail when the factory fails")
	}
}

func TestRegistryAvailable(t *testing.T) {
	withRegistry(t, map[string]Factory{
		"b": fakeFactory(gpucoretest.NewProvider()),
		"a": fakeFactory(gpucoretest.NewProvider()),
	})
	got := Available()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Available() = %v, want [a b]", got)
	}
}

func TestRegistryDefault(t *testing.T) {
	vulkan := gpucoretest.NewProvider()
	noop := gpucoretest.NewProvider()
	other := gpucoretest.NewProvider()

	tests := []struct {
		name    string
		entries map[string]Factory
		want    gpucore.DeviceProvider
	}{
		{
			name: "vulkan preferred",
			entries: map[string]Factory{
				BackendVulkan: fakeFactory(vulkan),
				BackendNoop:   fakeFactory(noop),
			},
			want: vulkan,
		},
		{
			name: "vulkan fails, noop used",
			entries: map[string]Factory{
				BackendVulkan: failingFactory,
				BackendNoop:   fakeFactory(noop),
			},
			want: noop,
		},
		{
			name: "unprioritized fallback",
			entries: map[string]Factory{
				"other": fakeFactory(other),
			},
			want: other,
		},
		{
			name:    "empty",
			entries: nil,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withRegistry(t, tt.entries)
			got := Default()
			if tt.want == nil {
				if got != nil {
					t.Errorf("Default() = %v, want nil", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Default() returned the wrong provider")
			}
		})
	}
}

func TestRegistryMustDefault(t *testing.T) {
	withRegistry(t, nil)
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustDefault() should panic with an empty registry")
		}
	}()
	_ = MustDefault()
}

func TestRegistryUnregister(t *testing.T) {
	withRegistry(t, nil)
	Register("test-backend", fakeFactory(gpucoretest.NewProvider()))

	if !IsRegistered("test-backend") {
		t.Error("test-backend should be registered")
	}

	Unregister("test-backend")

	if IsRegistered("test-backend") {
		t.Error("test-backend should be unregistered")
	}
}
