// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/triangle/gpucore"
)

// copyPitchAlignment is the required BytesPerRow alignment for
// texture-to-buffer copies.
const copyPitchAlignment = 256

// offscreenFormat is the pixel format of offscreen targets.
const offscreenFormat = gputypes.TextureFormatBGRA8Unorm

// Offscreen is a drawable backed by a texture the backend owns. It is always
// available, and its contents can be read back with Snapshot.
type Offscreen struct {
	device *Device
	tex    hal.Texture
	view   hal.TextureView
	width  uint32
	height uint32

	presents atomic.Uint64
	once     sync.Once
}

var (
	_ gpucore.Drawable = (*Offscreen)(nil)
	_ gpucore.Texture  = (*Offscreen)(nil)
)

func newOffscreen(d *Device, width, height uint32) (*Offscreen, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	tex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "offscreen_target",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        offscreenFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create offscreen texture: %w", err)
	}
	view, err := d.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "offscreen_target_view",
	})
	if err != nil {
		d.device.DestroyTexture(tex)
		return nil, fmt.Errorf("create offscreen view: %w", err)
	}
	return &Offscreen{device: d, tex: tex, view: view, width: width, height: height}, nil
}

// Texture returns the target itself.
func (o *Offscreen) Texture() (gpucore.Texture, bool) {
	if o.view == nil {
		return nil, false
	}
	return o, true
}

// Present counts the presentation. Offscreen targets are never displayed.
func (o *Offscreen) Present() { o.presents.Add(1) }

// Presents returns how many times the target has been presented.
func (o *Offscreen) Presents() uint64 { return o.presents.Load() }

// Format returns BGRA8Unorm.
func (o *Offscreen) Format() gputypes.TextureFormat { return offscreenFormat }

// Width returns the width in pixels.
func (o *Offscreen) Width() uint32 { return o.width }

// Height returns the height in pixels.
func (o *Offscreen) Height() uint32 { return o.height }

func (o *Offscreen) halView() hal.TextureView { return o.view }

// Snapshot copies the target to a staging buffer, waits for the GPU and
// returns the pixels as RGBA.
func (o *Offscreen) Snapshot() (*image.RGBA, error) {
	if o.view == nil {
		return nil, ErrReleased
	}
	dev := o.device.device
	w, h := o.width, o.height

	encoder, err := dev.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "snapshot_encoder"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("snapshot"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := dev.CreateBuffer(&hal.BufferDescriptor{
		Label: "snapshot_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer dev.DestroyBuffer(staging)

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: o.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(o.tex, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: o.tex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: o.tex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmd, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer dev.FreeCommandBuffer(cmd)

	if _, err := o.device.queue.Submit([]hal.CommandBuffer{cmd}); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	if err := dev.WaitIdle(); err != nil {
		return nil, fmt.Errorf("wait for GPU: %w", err)
	}

	m, err := dev.MapBuffer(staging, 0, stagingSize)
	if err != nil {
		return nil, fmt.Errorf("map staging buffer: %w", err)
	}
	readback := make([]byte, stagingSize)
	copy(readback, unsafe.Slice((*byte)(m.Ptr), stagingSize))
	if err := dev.UnmapBuffer(staging); err != nil {
		return nil, fmt.Errorf("unmap staging buffer: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	unpackBGRA(img, readback, int(alignedBytesPerRow))
	return img, nil
}

// unpackBGRA copies padded BGRA rows into img, swapping red and blue.
func unpackBGRA(img *image.RGBA, src []byte, srcStride int) {
	width := img.Rect.Dx()
	for y := range img.Rect.Dy() {
		s := src[y*srcStride : y*srcStride+width*4]
		d := img.Pix[y*img.Stride : y*img.Stride+width*4]
		for x := 0; x < len(s); x += 4 {
			d[x+0] = s[x+2]
			d[x+1] = s[x+1]
			d[x+2] = s[x+0]
			d[x+3] = s[x+3]
		}
	}
}

// Release destroys the view and texture.
func (o *Offscreen) Release() {
	o.once.Do(func() {
		o.device.device.DestroyTextureView(o.view)
		o.device.device.DestroyTexture(o.tex)
		o.view = nil
		o.tex = nil
	})
}

// halViewer is implemented by texture view wrappers that expose their HAL
// view, such as *wgpu.TextureView from gogpu's SurfaceView.
type halViewer interface {
	HalTextureView() hal.TextureView
}

// HostDrawable wraps a texture view owned by a window host for one frame.
// The host presents the surface itself once its draw callback returns, so
// Present only records that the frame was handed over.
type HostDrawable struct {
	view      hal.TextureView
	width     uint32
	height    uint32
	format    gputypes.TextureFormat
	presented bool
}

var (
	_ gpucore.Drawable = (*HostDrawable)(nil)
	_ gpucore.Texture  = (*HostDrawable)(nil)
)

// NewHostDrawable wraps view, which may be a hal.TextureView or a wrapper
// with a HalTextureView() hal.TextureView method. Anything else, including nil, yields a
// drawable with no texture so the frame is skipped.
func NewHostDrawable(view any, width, height uint32, format gputypes.TextureFormat) *HostDrawable {
	d := &HostDrawable{width: width, height: height, format: format}
	switch v := view.(type) {
	case hal.TextureView:
		d.view = v
	case halViewer:
		d.view = v.HalTextureView()
	}
	return d
}

// Texture returns the host view, or false when there is none or it has zero area.
func (d *HostDrawable) Texture() (gpucore.Texture, bool) {
	if d.view == nil || d.width == 0 || d.height == 0 {
		return nil, false
	}
	return d, true
}

// Present marks the frame as handed to the host.
func (d *HostDrawable) Present() { d.presented = true }

// Presented reports whether Present was called.
func (d *HostDrawable) Presented() bool { return d.presented }

// Format returns the surface format.
func (d *HostDrawable) Format() gputypes.TextureFormat { return d.format }

// Width returns the width in pixels.
func (d *HostDrawable) Width() uint32 { return d.width }

// Height returns the height in pixels.
func (d *HostDrawable) Height() uint32 { return d.height }

func (d *HostDrawable) halView() hal.TextureView { return d.view }
