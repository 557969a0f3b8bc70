// Package backend is a registry of GPU device providers.
//
// Backend packages register a factory from init(), and the application picks
// one by name or takes the best available:
//
//	import _ "github.com/gogpu/triangle/backend/wgpu"
//
//	p := backend.Default()
//	if p == nil {
//		log.Fatal("no GPU backend")
//	}
//	ctx, err := triangle.NewGraphicsContext(p)
//
// Or request a specific backend:
//
//	p, err := backend.Get(backend.BackendNoop)
//
// # Available Backends
//
// - "vulkan": gogpu/wgpu Vulkan HAL (registered by backend/wgpu)
// - "noop": gogpu/wgpu no-op HAL, renders nothing (registered by backend/wgpu)
package backend
