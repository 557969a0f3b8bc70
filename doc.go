// Package triangle renders a single flat-shaded triangle with a GPU render
// pipeline and redraws it at a fixed cadence.
//
// # Overview
//
// Two objects form a single ownership chain:
//
//   - [GraphicsContext] owns the GPU device and its command queue.
//   - [Renderer] owns the render pipeline and the vertex buffer, both built
//     from the context, and exposes [Renderer.DrawFrame].
//
// The host owns the window and its drawable surface. It creates one context
// and one renderer, then calls DrawFrame once per display refresh.
//
// # Quick Start
//
//	provider, err := wgpu.NewProvider(gputypes.BackendVulkan)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ctx, err := triangle.NewGraphicsContext(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Close()
//
//	r, err := triangle.NewRenderer(ctx, triangle.DefaultTriangle())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	// once per frame:
//	if err := r.DrawFrame(drawable); err != nil {
//	    log.Printf("frame: %v", err)
//	}
//
// # Frame Encoding
//
// Each successful DrawFrame records, in order: one render pass that clears the
// target to [DefaultClearColor] and keeps the result, the pipeline and vertex
// buffer bound at slot 0, a single 3-vertex triangle-list draw, end of
// encoding, presentation of the drawable, and commit. Nothing waits for the GPU.
//
// # Coordinate System
//
// Vertices are given in normalized device coordinates ([-1, 1] on each axis)
// and are not transformed, so the triangle does not react to the viewport
// size.
//
// # Errors
//
//   - [ErrNoDeviceAvailable], [ErrQueueCreationFailed]: fatal at startup
//   - [*PipelineBuildError]: the renderer is left in [StateFailed]
//   - [ErrRendererNotReady]: DrawFrame on a failed or closed renderer
//   - [ErrNoDrawableAvailable]: the surface had no target; skip the frame
//
// Per-frame errors never poison the renderer: the next call starts afresh.
package triangle
