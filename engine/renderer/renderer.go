package renderer

import (
	"sync"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/edison-moreland/creature-creator-prototype/engine/renderer/bind_group_provider"
	"github.com/edison-moreland/creature-creator-prototype/engine/window"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
}

// Renderer defines the interface for the rendering system.
//
// This is the graphics-pipeline side of the camera uniform handshake. The
// Renderer owns one GPU uniform buffer and bind group per pool slot, uploads
// slot bytes each frame, and signals frame retirement back to the host once
// the graphics processor has finished executing the submitted work.
type Renderer interface {
	// InitUniformSlots creates one GPU uniform buffer and bind group per pool
	// slot. Must be called once before the first frame. All slot buffers share
	// a single bind group layout.
	//
	// Parameters:
	//   - count: the number of pool slots
	//   - size: the byte size of one slot's uniform record
	//
	// Returns:
	//   - error: an error if GPU resource creation fails
	InitUniformSlots(count int, size uint64) error

	// SlotProvider returns the bind group provider backing the given slot.
	// Returns nil if InitUniformSlots has not been called.
	//
	// Parameters:
	//   - slot: the pool slot index
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the slot's provider or nil
	SlotProvider(slot int) bind_group_provider.BindGroupProvider

	// SlotBindGroup returns the bind group to set for draw calls reading the
	// given slot's uniform data.
	//
	// Parameters:
	//   - slot: the pool slot index
	//
	// Returns:
	//   - *wgpu.BindGroup: the slot's bind group or nil
	SlotBindGroup(slot int) *wgpu.BindGroup

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	// Each BufferWrite targets a specific buffer on a BindGroupProvider at a given binding and offset.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// WriteUniformSlot uploads serialized uniform bytes into the GPU buffer
	// backing the given slot. The write is staged as a BufferWrite against the
	// slot's provider (binding 0, offset 0) and flushed through WriteBuffers.
	//
	// Parameters:
	//   - slot: the pool slot index
	//   - data: the slot's serialized uniform bytes
	WriteUniformSlot(slot int, data []byte)

	// BeginFrame acquires the surface texture and opens the frame's render pass.
	// Must be paired with SubmitFrame after all draw work for the frame.
	//
	// Returns:
	//   - error: an error if the surface texture could not be acquired
	BeginFrame() error

	// RenderPass returns the active render pass encoder for the current frame,
	// for draw submission between BeginFrame and SubmitFrame.
	//
	// Returns:
	//   - *wgpu.RenderPassEncoder: the active pass or nil outside a frame
	RenderPass() *wgpu.RenderPassEncoder

	// SubmitFrame ends the frame's render pass, submits the command buffer to
	// the GPU queue, and registers onRetired to fire once the graphics
	// processor has finished all work for this submission (and therefore all
	// reads of the slot assigned to this frame).
	//
	// Parameters:
	//   - slot: the pool slot index bound as this frame's uniform source
	//   - onRetired: callback invoked on graphics-processor completion
	//
	// Returns:
	//   - error: an error if command buffer creation or submission fails
	SubmitFrame(slot int, onRetired func()) error

	// Present presents the rendered frame to the display surface.
	// Must be called once per frame after SubmitFrame.
	Present()

	// Poll pumps the device so pending work-done callbacks are delivered.
	// Call once per frame on the host timeline.
	Poll()

	// Resize configures the underlying backend to handle a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// Release releases all GPU resources held by the renderer, including every
	// slot's buffer and bind group. Safe to call with frames still in flight.
	Release()
}

// Compile-time interface compliance check
var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type and window surface.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - win: the window providing the render surface
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the newly created renderer
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(win.Width(), win.Height())
	return r
}

func (r *renderer) InitUniformSlots(count int, size uint64) error {
	return r.backend.InitUniformSlots(count, size)
}

func (r *renderer) SlotProvider(slot int) bind_group_provider.BindGroupProvider {
	return r.backend.SlotProvider(slot)
}

func (r *renderer) SlotBindGroup(slot int) *wgpu.BindGroup {
	provider := r.backend.SlotProvider(slot)
	if provider == nil {
		return nil
	}
	return provider.BindGroup()
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) WriteUniformSlot(slot int, data []byte) {
	provider := r.backend.SlotProvider(slot)
	if provider == nil {
		return
	}
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: provider, Binding: 0, Offset: 0, Data: data},
	})
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) RenderPass() *wgpu.RenderPassEncoder {
	return r.backend.RenderPass()
}

func (r *renderer) SubmitFrame(slot int, onRetired func()) error {
	return r.backend.SubmitFrame(slot, onRetired)
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Poll() {
	r.backend.Poll()
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Release() {
	r.backend.Release()
}
