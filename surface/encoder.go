// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/bmp"
)

// ErrUnsupportedFormat is returned when no encoder is registered for a file
// extension.
var ErrUnsupportedFormat = errors.New("surface: unsupported image format")

// ErrNilImage is returned when there is nothing to encode.
var ErrNilImage = errors.New("surface: image is nil")

// Encoder writes img to w.
type Encoder func(w io.Writer, img image.Image) error

// Registry maps lower-case file extensions (".png") to encoders.
type Registry struct {
	mu       sync.RWMutex
	encoders map[string]Encoder
}

// NewRegistry creates an empty registry.
// Most code should use the package-level functions.
func NewRegistry() *Registry {
	return &Registry{encoders: make(map[string]Encoder)}
}

// globalRegistry holds the built-in encoders.
var globalRegistry = NewRegistry()

func init() {
	globalRegistry.Register(".png", png.Encode)
	globalRegistry.Register(".bmp", bmp.Encode)
}

// Register adds an encoder for ext, replacing any previous one.
func (r *Registry) Register(ext string, enc Encoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.encoders[normalizeExt(ext)] = enc
}

// Formats returns the registered extensions in sorted order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.encoders))
	for ext := range r.encoders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Lookup returns the encoder for ext.
func (r *Registry) Lookup(ext string) (Encoder, error) {
	r.mu.RLock()
	enc, ok := r.encoders[normalizeExt(ext)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return enc, nil
}

// WriteFile encodes img into path using the encoder for its extension.
// A partially written file is removed on failure.
func (r *Registry) WriteFile(path string, img *image.RGBA) (err error) {
	if img == nil {
		return ErrNilImage
	}
	enc, err := r.Lookup(filepath.Ext(path))
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("surface: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("surface: close %s: %w", path, cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := enc(f, img); err != nil {
		return fmt.Errorf("surface: encode %s: %w", path, err)
	}
	return nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// Register adds an encoder to the global registry.
func Register(ext string, enc Encoder) { globalRegistry.Register(ext, enc) }

// Formats returns the extensions WriteFile accepts.
func Formats() []string { return globalRegistry.Formats() }

// WriteFile encodes img into path with the global registry.
func WriteFile(path string, img *image.RGBA) error {
	return globalRegistry.WriteFile(path, img)
}
