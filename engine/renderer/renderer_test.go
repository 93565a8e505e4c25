package renderer

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edison-moreland/creature-creator-prototype/engine/renderer/bind_group_provider"
)

// fakeBackend records staged buffer writes without touching a GPU device.
type fakeBackend struct {
	providers []bind_group_provider.BindGroupProvider
	writes    []bind_group_provider.BufferWrite
}

var _ RendererBackend = &fakeBackend{}

func (f *fakeBackend) Device() *wgpu.Device                { return nil }
func (f *fakeBackend) Queue() *wgpu.Queue                  { return nil }
func (f *fakeBackend) ConfigureSurface(width, height int)  {}
func (f *fakeBackend) SetPresentMode(mode PresentMode)     {}
func (f *fakeBackend) BeginFrame() error                   { return nil }
func (f *fakeBackend) RenderPass() *wgpu.RenderPassEncoder { return nil }
func (f *fakeBackend) Present()                            {}
func (f *fakeBackend) Poll()                               {}
func (f *fakeBackend) Release()                            {}

func (f *fakeBackend) SubmitFrame(slot int, onRetired func()) error {
	return nil
}

func (f *fakeBackend) InitUniformSlots(count int, size uint64) error {
	f.providers = make([]bind_group_provider.BindGroupProvider, count)
	for i := range f.providers {
		f.providers[i] = bind_group_provider.NewBindGroupProvider("camera_slot")
	}
	return nil
}

func (f *fakeBackend) SlotProvider(slot int) bind_group_provider.BindGroupProvider {
	if slot < 0 || slot >= len(f.providers) {
		return nil
	}
	return f.providers[slot]
}

func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	f.writes = append(f.writes, writes...)
}

func TestWriteUniformSlotStagesBufferWrite(t *testing.T) {
	b := &fakeBackend{}
	require.NoError(t, b.InitUniformSlots(2, 80))
	r := &renderer{backend: b}

	data := []byte{1, 2, 3, 4}
	r.WriteUniformSlot(1, data)

	// The upload arrives as a single staged write against the slot's provider,
	// targeting binding 0 at offset 0.
	require.Len(t, b.writes, 1)
	w := b.writes[0]
	assert.Same(t, b.providers[1], w.Provider)
	assert.Equal(t, 0, w.Binding)
	assert.Equal(t, uint64(0), w.Offset)
	assert.Equal(t, data, w.Data)
}

func TestWriteUniformSlotWithoutProvidersIgnored(t *testing.T) {
	b := &fakeBackend{}
	r := &renderer{backend: b}

	// Slots were never initialized: nothing to write to.
	r.WriteUniformSlot(0, []byte{1, 2, 3})
	assert.Empty(t, b.writes)
}

func TestSlotBindGroupWithoutProvider(t *testing.T) {
	b := &fakeBackend{}
	r := &renderer{backend: b}

	assert.Nil(t, r.SlotBindGroup(0))
}
