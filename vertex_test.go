package triangle

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
)

func TestDefaultTriangle(t *testing.T) {
	v := DefaultTriangle()
	if err := validateVertices(v); err != nil {
		t.Fatalf("DefaultTriangle() invalid: %v", err)
	}
	for i, f := range v {
		if f < -1 || f > 1 {
			t.Errorf("component %d = %v outside NDC", i, f)
		}
	}

	// Callers may modify the returned slice.
	v[0] = 42
	if DefaultTriangle()[0] == 42 {
		t.Error("DefaultTriangle() shares its backing array")
	}
}

func TestEncodeVertices(t *testing.T) {
	v := DefaultTriangle()
	buf := encodeVertices(v)

	if len(buf) != triangleVertexCount*vertexStride {
		t.Fatalf("len = %d, want %d", len(buf), triangleVertexCount*vertexStride)
	}
	for i, want := range v {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		if got != want {
			t.Errorf("float %d = %v, want %v", i, got, want)
		}
	}
}

func TestValidateVertices(t *testing.T) {
	withValue := func(f float32) []float32 {
		v := DefaultTriangle()
		v[4] = f
		return v
	}
	tests := []struct {
		name    string
		in      []float32
		wantErr bool
	}{
		{"default", DefaultTriangle(), false},
		{"empty", nil, true},
		{"short", make([]float32, 8), true},
		{"long", make([]float32, 10), true},
		{"NaN", withValue(float32(math.NaN())), true},
		{"+Inf", withValue(float32(math.Inf(1))), true},
		{"-Inf", withValue(float32(math.Inf(-1))), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateVertices(tt.in)
			if tt.wantErr != (err != nil) {
				t.Fatalf("validateVertices() err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidVertexData) {
				t.Errorf("err = %v, want ErrInvalidVertexData", err)
			}
		})
	}
}
