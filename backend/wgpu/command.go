// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/triangle/gpucore"
)

// submission is a committed command buffer the GPU may still be executing.
type submission struct {
	label string
	cmd   hal.CommandBuffer
	index uint64
}

// CommandQueue is a gpucore.CommandQueue over the device's HAL queue.
//
// Committed buffers are tracked by submission index. Each Commit asks the
// queue which index has completed and frees everything up to it.
type CommandQueue struct {
	device *Device

	mu       sync.Mutex
	inFlight []submission
	released bool
}

var _ gpucore.CommandQueue = (*CommandQueue)(nil)

// NewCommandBuffer creates a HAL command encoder and begins encoding.
func (q *CommandQueue) NewCommandBuffer(label string) (gpucore.CommandBuffer, error) {
	q.mu.Lock()
	released := q.released
	q.mu.Unlock()
	if released {
		return nil, ErrReleased
	}

	encoder, err := q.device.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: label + "_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}
	return &CommandBuffer{queue: q, encoder: encoder, label: label}, nil
}

// InFlight returns the number of committed buffers not yet retired.
func (q *CommandQueue) InFlight() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.inFlight)
}

func (q *CommandQueue) track(s submission) {
	q.mu.Lock()
	q.inFlight = append(q.inFlight, s)
	q.mu.Unlock()
}

// retire frees every submission the GPU has completed and reports how many
// remain.
func (q *CommandQueue) retire() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	dev := q.device.device
	completed := q.device.queue.PollCompleted()
	kept := q.inFlight[:0]
	for _, s := range q.inFlight {
		if s.index <= completed {
			dev.FreeCommandBuffer(s.cmd)
			continue
		}
		kept = append(kept, s)
	}
	for i := len(kept); i < len(q.inFlight); i++ {
		q.inFlight[i] = submission{}
	}
	q.inFlight = kept
	return len(kept)
}

// Release waits for the device to go idle and frees in-flight buffers.
func (q *CommandQueue) Release() {
	q.mu.Lock()
	if q.released {
		q.mu.Unlock()
		return
	}
	q.released = true
	q.mu.Unlock()

	if err := q.device.device.WaitIdle(); err != nil {
		slogger().Warn("wgpu: wait idle at release failed", "error", err)
	}
	if n := q.retire(); n > 0 {
		slogger().Warn("wgpu: command buffers still in flight at release", "count", n)
	}
}

// CommandBuffer is a gpucore.CommandBuffer over a HAL command encoder.
type CommandBuffer struct {
	queue     *CommandQueue
	encoder   hal.CommandEncoder
	label     string
	pass      *RenderEncoder
	drawables []gpucore.Drawable
	done      bool
}

var _ gpucore.CommandBuffer = (*CommandBuffer)(nil)

// viewTexture is a render target this backend can attach to a pass.
type viewTexture interface {
	gpucore.Texture
	halView() hal.TextureView
}

// NewRenderCommandEncoder begins a render pass on the buffer. Only one pass
// may be open at a time.
func (cb *CommandBuffer) NewRenderCommandEncoder(desc *gpucore.RenderPassDescriptor) (gpucore.RenderCommandEncoder, error) {
	if cb.done {
		return nil, gpucore.ErrCommitted
	}
	if cb.pass != nil && !cb.pass.ended {
		return nil, gpucore.ErrEncodingIncomplete
	}
	if len(desc.ColorAttachments) == 0 {
		return nil, gpucore.ErrNoColorAttachment
	}

	attachments := make([]hal.RenderPassColorAttachment, 0, len(desc.ColorAttachments))
	for i, ca := range desc.ColorAttachments {
		vt, ok := ca.Texture.(viewTexture)
		if !ok || vt.halView() == nil {
			return nil, fmt.Errorf("%w: color attachment %d", ErrForeignResource, i)
		}
		attachments = append(attachments, hal.RenderPassColorAttachment{
			View:       vt.halView(),
			LoadOp:     ca.LoadOp,
			StoreOp:    ca.StoreOp,
			ClearValue: ca.ClearValue,
		})
	}

	rp := cb.encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label:            desc.Label,
		ColorAttachments: attachments,
	})
	cb.pass = &RenderEncoder{rp: rp}
	return cb.pass, nil
}

// Present schedules d for presentation after Commit. It fails with
// gpucore.ErrEncodingIncomplete while a render pass is open. A nil d is
// ignored.
func (cb *CommandBuffer) Present(d gpucore.Drawable) error {
	if cb.done {
		return gpucore.ErrCommitted
	}
	if cb.pass != nil && !cb.pass.ended {
		return gpucore.ErrEncodingIncomplete
	}
	if d == nil {
		return nil
	}
	cb.drawables = append(cb.drawables, d)
	return nil
}

// Commit ends encoding and submits. It returns without waiting unless a
// scheduled drawable belongs to a window host, whose presentation must not
// start before the GPU has finished.
func (cb *CommandBuffer) Commit() error {
	if cb.done {
		return gpucore.ErrCommitted
	}
	if cb.pass != nil && !cb.pass.ended {
		return gpucore.ErrEncodingIncomplete
	}
	cb.done = true

	q := cb.queue
	dev := q.device.device

	cmd, err := cb.encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	index, err := q.device.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		dev.FreeCommandBuffer(cmd)
		return fmt.Errorf("submit: %w", err)
	}

	if cb.needsSync() {
		err := dev.WaitIdle()
		dev.FreeCommandBuffer(cmd)
		if err != nil {
			return fmt.Errorf("wait for GPU: %w", err)
		}
	} else {
		q.track(submission{label: cb.label, cmd: cmd, index: index})
	}
	q.retire()

	for _, d := range cb.drawables {
		d.Present()
	}
	cb.drawables = nil
	return nil
}

func (cb *CommandBuffer) needsSync() bool {
	for _, d := range cb.drawables {
		if _, ok := d.(*HostDrawable); ok {
			return true
		}
	}
	return false
}

// Discard abandons the recorded commands. Scheduled drawables are not presented.
func (cb *CommandBuffer) Discard() {
	if cb.done {
		return
	}
	cb.done = true
	if cb.pass != nil && !cb.pass.ended {
		cb.pass.rp.End()
		cb.pass.ended = true
	}
	cb.encoder.DiscardEncoding()
	cb.drawables = nil
}

// RenderEncoder is a gpucore.RenderCommandEncoder over a HAL render pass.
type RenderEncoder struct {
	rp        hal.RenderPassEncoder
	pipeline  *RenderPipeline
	vertexBuf *Buffer
	ended     bool
}

var _ gpucore.RenderCommandEncoder = (*RenderEncoder)(nil)

// SetRenderPipeline binds p.
func (e *RenderEncoder) SetRenderPipeline(p gpucore.RenderPipeline) error {
	if e.ended {
		return gpucore.ErrEncoderEnded
	}
	if p == nil {
		return gpucore.ErrNilPipeline
	}
	rp, ok := p.(*RenderPipeline)
	if !ok {
		return fmt.Errorf("%w: pipeline", ErrForeignResource)
	}
	if rp == nil || rp.raw == nil {
		return gpucore.ErrNilPipeline
	}
	e.rp.SetPipeline(rp.raw)
	e.pipeline = rp
	return nil
}

// SetVertexBuffer selects buf as the storage buffer the vertex function
// reads. Only index 0 with a zero offset exists; the bind group is attached
// at Draw.
func (e *RenderEncoder) SetVertexBuffer(buf gpucore.Buffer, offset uint64, index uint32) error {
	if e.ended {
		return gpucore.ErrEncoderEnded
	}
	if buf == nil {
		return gpucore.ErrNilVertexBuffer
	}
	b, ok := buf.(*Buffer)
	if !ok {
		return fmt.Errorf("%w: vertex buffer", ErrForeignResource)
	}
	if b == nil || b.raw == nil {
		return gpucore.ErrNilVertexBuffer
	}
	if index != 0 || offset != 0 {
		return fmt.Errorf("%w: index %d offset %d", ErrUnsupportedBinding, index, offset)
	}
	e.vertexBuf = b
	return nil
}

// Draw records a non-instanced draw. The topology must be the one the bound
// pipeline was built with.
func (e *RenderEncoder) Draw(topology gputypes.PrimitiveTopology, vertexStart, vertexCount uint32) error {
	if e.ended {
		return gpucore.ErrEncoderEnded
	}
	if e.pipeline == nil {
		return gpucore.ErrNoPipelineBound
	}
	if e.vertexBuf == nil {
		return gpucore.ErrNoVertexBufferBound
	}
	if topology != e.pipeline.topology {
		return fmt.Errorf("%w: draw %v, pipeline %v", gpucore.ErrTopologyMismatch, topology, e.pipeline.topology)
	}
	group, err := e.pipeline.bindGroupFor(e.vertexBuf)
	if err != nil {
		return err
	}
	e.rp.SetBindGroup(0, group, nil)
	e.rp.Draw(vertexCount, 1, vertexStart, 0)
	return nil
}

// EndEncoding ends the render pass.
func (e *RenderEncoder) EndEncoding() error {
	if e.ended {
		return gpucore.ErrEncoderEnded
	}
	e.rp.End()
	e.ended = true
	return nil
}
