// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := range 3 {
		for x := range 4 {
			img.SetRGBA(x, y, color.RGBA{R: 221, G: 160, B: 221, A: 255})
		}
	}
	img.SetRGBA(1, 1, color.RGBA{A: 255})
	return img
}

// TestWriteFileRoundTrip writes each built-in format and decodes it back.
func TestWriteFileRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		decode func(io.Reader) (image.Image, error)
	}{
		{"png", "frame.png", png.Decode},
		{"bmp", "frame.bmp", bmp.Decode},
		{"upper case ext", "FRAME.PNG", png.Decode},
	}

	src := testImage()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := WriteFile(path, src); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}

			f, err := os.Open(path)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer f.Close()

			got, err := tt.decode(f)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Bounds() != src.Bounds() {
				t.Fatalf("bounds = %v, want %v", got.Bounds(), src.Bounds())
			}
			r, g, b, a := got.At(1, 1).RGBA()
			if r != 0 || g != 0 || b != 0 || a != 0xFFFF {
				t.Errorf("pixel (1,1) = %v, want opaque black", got.At(1, 1))
			}
			r, _, _, _ = got.At(0, 0).RGBA()
			if r>>8 != 221 {
				t.Errorf("pixel (0,0) red = %d, want 221", r>>8)
			}
		})
	}
}

func TestWriteFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.tiff")
	err := WriteFile(path, testImage())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("no file should be created for an unsupported format")
	}
}

func TestWriteFileNilImage(t *testing.T) {
	if err := WriteFile(filepath.Join(t.TempDir(), "x.png"), nil); !errors.Is(err, ErrNilImage) {
		t.Errorf("err = %v, want ErrNilImage", err)
	}
}

func TestWriteFileEncodeErrorRemovesFile(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")
	r.Register("raw", func(w io.Writer, _ image.Image) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})

	path := filepath.Join(t.TempDir(), "frame.raw")
	if err := r.WriteFile(path, testImage()); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("partial file should be removed")
	}
}

func TestRegistryFormats(t *testing.T) {
	got := Formats()
	if len(got) < 2 || got[0] != ".bmp" || got[1] != ".png" {
		t.Errorf("Formats() = %v, want [.bmp .png ...]", got)
	}

	r := NewRegistry()
	r.Register("PNG", png.Encode)
	if _, err := r.Lookup(".png"); err != nil {
		t.Errorf("Lookup(.png) after Register(PNG): %v", err)
	}
}
