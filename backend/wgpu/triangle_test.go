// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/triangle"
)

// TestTriangleEndToEnd drives the renderer through the noop HAL: context,
// renderer and several frames into an offscreen target.
func TestTriangleEndToEnd(t *testing.T) {
	ctx, err := triangle.NewGraphicsContext(NewNoopProvider())
	if err != nil {
		t.Fatalf("NewGraphicsContext failed: %v", err)
	}
	defer ctx.Close()

	r, err := triangle.NewRenderer(ctx, triangle.DefaultTriangle())
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	defer r.Close()

	target, err := ctx.Device().(*Device).NewOffscreen(64, 48)
	if err != nil {
		t.Fatalf("NewOffscreen failed: %v", err)
	}
	defer target.Release()

	const frames = 5
	for i := range frames {
		if err := r.DrawFrame(target); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if target.Presents() != frames {
		t.Errorf("Presents() = %d, want %d", target.Presents(), frames)
	}

	img, err := target.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("snapshot bounds = %v, want 64x48", b)
	}
}

func TestTriangleMalformedShader(t *testing.T) {
	ctx, err := triangle.NewGraphicsContext(NewNoopProvider())
	if err != nil {
		t.Fatalf("NewGraphicsContext failed: %v", err)
	}
	defer ctx.Close()

	src := "@vertex fn basic_vertex() -> @builtin(position) vec4<f32> { return vec4<f32>(0.0 }\n" +
		"@fragment fn basic_fragment() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }\n"
	r, err := triangle.NewRenderer(ctx, triangle.DefaultTriangle(), triangle.WithShaderSource(src))
	if err == nil {
		t.Fatal("NewRenderer succeeded with a malformed shader")
	}
	var pbe *triangle.PipelineBuildError
	if !errors.As(err, &pbe) {
		t.Fatalf("err = %v, want *PipelineBuildError", err)
	}
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Errorf("err = %v, want a wrapped *CompileError", err)
	}

	target, err := ctx.Device().(*Device).NewOffscreen(8, 8)
	if err != nil {
		t.Fatalf("NewOffscreen failed: %v", err)
	}
	defer target.Release()

	if err := r.DrawFrame(target); !errors.Is(err, triangle.ErrRendererNotReady) {
		t.Errorf("DrawFrame err = %v, want ErrRendererNotReady", err)
	}
	if target.Presents() != 0 {
		t.Errorf("Presents() = %d, want 0", target.Presents())
	}
}

func TestTriangleFormatMismatch(t *testing.T) {
	ctx, err := triangle.NewGraphicsContext(NewNoopProvider())
	if err != nil {
		t.Fatalf("NewGraphicsContext failed: %v", err)
	}
	defer ctx.Close()

	r, err := triangle.NewRenderer(ctx, triangle.DefaultTriangle(),
		triangle.WithColorFormat(gputypes.TextureFormatRGBA8Unorm))
	if err != nil {
		t.Fatalf("NewRenderer failed: %v", err)
	}
	defer r.Close()

	target, err := ctx.Device().(*Device).NewOffscreen(8, 8)
	if err != nil {
		t.Fatalf("NewOffscreen failed: %v", err)
	}
	defer target.Release()

	if err := r.DrawFrame(target); !errors.Is(err, triangle.ErrFormatMismatch) {
		t.Errorf("DrawFrame err = %v, want ErrFormatMismatch", err)
	}
}
