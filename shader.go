package triangle

import (
	_ "embed"
	"fmt"
	"regexp"
)

//go:embed shaders/triangle.wgsl
var triangleShaderSource string

// Shader entry points the pipeline is built from.
const (
	VertexEntryPoint   = "basic_vertex"
	FragmentEntryPoint = "basic_fragment"
)

// ShaderSource returns the embedded WGSL source of the triangle shader.
func ShaderSource() string { return triangleShaderSource }

var (
	vertexEntryRE   = regexp.MustCompile(`@vertex\s+fn\s+` + VertexEntryPoint + `\s*\(`)
	fragmentEntryRE = regexp.MustCompile(`@fragment\s+fn\s+` + FragmentEntryPoint + `\s*\(`)
	anyEntryRE      = regexp.MustCompile(`@(vertex|fragment|compute)(\s+@\w+(\([^)]*\))?)*\s+fn\s+\w+`)
)

// checkEntryPoints verifies src declares exactly the two stages the pipeline
// needs and nothing else.
func checkEntryPoints(src string) error {
	if !vertexEntryRE.MatchString(src) {
		return fmt.Errorf("missing @vertex entry point %q", VertexEntryPoint)
	}
	if !fragmentEntryRE.MatchString(src) {
		return fmt.Errorf("missing @fragment entry point %q", FragmentEntryPoint)
	}
	if n := len(anyEntryRE.FindAllString(src, -1)); n != 2 {
		return fmt.Errorf("expected 2 entry points, found %d", n)
	}
	return nil
}
