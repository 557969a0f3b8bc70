package triangle

import (
	"github.com/gogpu/gputypes"
)

// DefaultClearColor is the pale lavender the target is cleared to each frame.
var DefaultClearColor = gputypes.Color{R: 221.0 / 255.0, G: 160.0 / 255.0, B: 221.0 / 255.0, A: 1.0}

// DefaultColorFormat is the color format the pipeline is built for.
const DefaultColorFormat = gputypes.TextureFormatBGRA8Unorm

// RendererOption configures a Renderer during creation.
// Use functional options to customize Renderer behavior.
//
// Example:
//
//	// Default pipeline, lavender clear
//	r, err := triangle.NewRenderer(ctx, triangle.DefaultTriangle())
//
//	// Custom clear color
//	r, err := triangle.NewRenderer(ctx, triangle.DefaultTriangle(),
//	    triangle.WithClearColor(gputypes.Color{R: 0, G: 0, B: 0, A: 1}))
type RendererOption func(*rendererOptions)

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	shaderSource string
	clearColor   gputypes.Color
	colorFormat  gputypes.TextureFormat
	label        string
}

// defaultRendererOptions returns the default renderer options.
func defaultRendererOptions() rendererOptions {
	return rendererOptions{
		shaderSource: triangleShaderSource,
		clearColor:   DefaultClearColor,
		colorFormat:  DefaultColorFormat,
		label:        "triangle",
	}
}

// WithShaderSource replaces the embedded WGSL source. The source must declare
// the entry points basic_vertex and basic_fragment.
func WithShaderSource(src string) RendererOption {
	return func(o *rendererOptions) {
		o.shaderSource = src
	}
}

// WithClearColor sets the color the target is cleared to each frame.
func WithClearColor(c gputypes.Color) RendererOption {
	return func(o *rendererOptions) {
		o.clearColor = c
	}
}

// WithColorFormat sets the color format the pipeline is built for. Every
// drawable passed to DrawFrame must use the same format.
func WithColorFormat(f gputypes.TextureFormat) RendererOption {
	return func(o *rendererOptions) {
		o.colorFormat = f
	}
}

// WithLabel sets the prefix for GPU debug labels.
func WithLabel(label string) RendererOption {
	return func(o *rendererOptions) {
		o.label = label
	}
}
