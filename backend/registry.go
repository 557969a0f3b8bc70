package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/gogpu/triangle/gpucore"
)

// registry holds registered backends.
var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for backend selection (first available wins).
	// Noop is last so a real GPU is always preferred.
	backendPriority = []string{BackendVulkan, BackendNoop}
)

// Register registers a provider factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it will be replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get returns the provider of the named backend.
func Get(name string) (gpucore.DeviceProvider, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	p, err := factory()
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	return p, nil
}

// Default returns the provider of the best available backend by priority,
// then any other registered backend. Returns nil if none can be created.
func Default() gpucore.DeviceProvider {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range backendPriority {
		if factory, ok := backends[name]; ok {
			if p, err := factory(); err == nil && p != nil {
				return p
			}
		}
	}

	// Fallback: first available in name order
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if p, err := backends[name](); err == nil && p != nil {
			return p
		}
	}

	return nil
}

// MustDefault returns the default provider or panics.
func MustDefault() gpucore.DeviceProvider {
	p := Default()
	if p == nil {
		panic("backend: no backend available")
	}
	return p
}
