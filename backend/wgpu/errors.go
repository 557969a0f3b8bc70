// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"errors"
	"fmt"
)

// Backend errors.
var (
	// ErrBackendUnavailable is returned when the requested HAL backend is not
	// registered in this build.
	ErrBackendUnavailable = errors.New("wgpu: HAL backend not available")

	// ErrNoAdapter is returned when the instance exposes no GPU adapter.
	ErrNoAdapter = errors.New("wgpu: no GPU adapters found")

	// ErrNoHalProvider is returned when a shared provider does not expose HAL types.
	ErrNoHalProvider = errors.New("wgpu: provider does not expose HAL types")

	// ErrNilQueue is returned when the device has no queue to hand out.
	ErrNilQueue = errors.New("wgpu: device has no queue")

	// ErrForeignResource is returned when a resource from another backend is
	// passed to this one.
	ErrForeignResource = errors.New("wgpu: resource was not created by this backend")

	// ErrEmptyBuffer is returned when a buffer is created without contents.
	ErrEmptyBuffer = errors.New("wgpu: buffer contents are empty")

	// ErrInvalidSize is returned when an offscreen target has zero area.
	ErrInvalidSize = errors.New("wgpu: invalid target size")

	// ErrUnsupportedBinding is returned when a vertex buffer is bound at an
	// index or offset other than zero.
	ErrUnsupportedBinding = errors.New("wgpu: vertex buffer must be bound at index 0, offset 0")

	// ErrReleased is returned when a released resource is used.
	ErrReleased = errors.New("wgpu: resource has been released")
)

// CompileError carries the WGSL front-end diagnostic for a shader that failed
// to compile.
type CompileError struct {
	Label string
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("wgpu: compile %s: %v", e.Label, e.Err)
}

// Unwrap returns the compiler error.
func (e *CompileError) Unwrap() error { return e.Err }
