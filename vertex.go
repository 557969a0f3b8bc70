package triangle

import (
	"encoding/binary"
	"math"
)

const (
	// floatsPerVertex is the number of float32 components per vertex (x, y, z).
	floatsPerVertex = 3

	// triangleVertexCount is the number of vertices drawn each frame.
	triangleVertexCount = 3

	// vertexStride is the byte stride per vertex. The vertex function reads
	// vertex_array[3*vid .. 3*vid+2] from the storage buffer:
	//
	//	position (x, y, z f32) = 12 bytes
	vertexStride = floatsPerVertex * 4
)

// DefaultTriangle returns the triangle in normalized device coordinates:
// apex at the top center, base along y = -0.5.
func DefaultTriangle() []float32 {
	return []float32{
		0.0, 0.5, 0.0,
		-0.5, -0.5, 0.0,
		0.5, -0.5, 0.0,
	}
}

// encodeVertices packs vertices as little-endian float32 values, the layout
// the GPU reads at vertexStride.
func encodeVertices(vertices []float32) []byte {
	buf := make([]byte, len(vertices)*4)
	for i, v := range vertices {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// validateVertices checks the triangle holds exactly 9 finite floats.
func validateVertices(vertices []float32) error {
	if len(vertices) != triangleVertexCount*floatsPerVertex {
		return ErrInvalidVertexData
	}
	for _, v := range vertices {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ErrInvalidVertexData
		}
	}
	return nil
}
