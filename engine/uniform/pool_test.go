package uniform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(seed float32) GPUCameraUniform {
	var m [16]float32
	for i := range m {
		m[i] = seed + float32(i)
	}
	return NewGPUCameraUniform(m, [3]float32{seed, seed + 100, seed + 200})
}

func TestPoolSlotCountMinimum(t *testing.T) {
	p := NewUniformPool(WithSlotCount(1))
	defer p.Release()
	assert.Equal(t, 2, p.SlotCount())
}

func TestAcquireRoundRobin(t *testing.T) {
	p := NewUniformPool(WithSlotCount(3))
	defer p.Release()

	for _, want := range []int{0, 1, 2, 0, 1, 2} {
		slot, err := p.AcquireWriteSlot()
		require.NoError(t, err)
		assert.Equal(t, want, slot)

		p.Publish(slot, testRecord(float32(want)))
		p.SignalComplete(slot)
	}
}

func TestPublishRoundTrip(t *testing.T) {
	p := NewUniformPool(WithSlotCount(2))
	defer p.Release()

	record := testRecord(42)

	slot, err := p.AcquireWriteSlot()
	require.NoError(t, err)
	p.Publish(slot, record)

	// Before SignalComplete the slot bytes must read back bit-identically.
	got, err := UnmarshalGPUCameraUniform(p.SlotBytes(slot))
	require.NoError(t, err)
	assert.Equal(t, record.Camera, got.Camera)
	assert.Equal(t, record.CameraPosition, got.CameraPosition)
	assert.Equal(t, record.Marshal(), p.SlotBytes(slot))
}

func TestDoubleBufferBlocksUntilSignal(t *testing.T) {
	p := NewUniformPool(WithSlotCount(2), WithStallTimeout(5*time.Second))
	defer p.Release()

	// Frame 1 and 2 take both slots.
	slot0, err := p.AcquireWriteSlot()
	require.NoError(t, err)
	require.Equal(t, 0, slot0)
	p.Publish(slot0, testRecord(1))

	slot1, err := p.AcquireWriteSlot()
	require.NoError(t, err)
	require.Equal(t, 1, slot1)
	p.Publish(slot1, testRecord(2))

	// Frame 3 must block until slot 0 is signaled, then return slot 0.
	acquired := make(chan int, 1)
	go func() {
		slot, err := p.AcquireWriteSlot()
		if err == nil {
			acquired <- slot
		}
	}()

	select {
	case slot := <-acquired:
		t.Fatalf("acquire returned slot %d before completion was signaled", slot)
	case <-time.After(100 * time.Millisecond):
	}

	p.SignalComplete(0)

	select {
	case slot := <-acquired:
		assert.Equal(t, 0, slot)
	case <-time.After(2 * time.Second):
		t.Fatal("acquire did not return after completion signal")
	}
}

func TestAcquireStallTimeout(t *testing.T) {
	p := NewUniformPool(WithSlotCount(2), WithStallTimeout(50*time.Millisecond))
	defer p.Release()

	for range 2 {
		slot, err := p.AcquireWriteSlot()
		require.NoError(t, err)
		p.Publish(slot, testRecord(0))
	}

	// The graphics processor never retires anything: surface a hard stall.
	_, err := p.AcquireWriteSlot()
	require.ErrorIs(t, err, ErrPoolStall)
}

func TestSignalCompleteIdempotent(t *testing.T) {
	p := NewUniformPool(WithSlotCount(2), WithStallTimeout(50*time.Millisecond))
	defer p.Release()

	slot0, err := p.AcquireWriteSlot()
	require.NoError(t, err)
	p.Publish(slot0, testRecord(1))

	// Duplicate signal without an intervening acquire/publish.
	p.SignalComplete(slot0)
	p.SignalComplete(slot0)

	slot1, err := p.AcquireWriteSlot()
	require.NoError(t, err)
	require.Equal(t, 1, slot1)
	p.Publish(slot1, testRecord(2))

	slot0Again, err := p.AcquireWriteSlot()
	require.NoError(t, err)
	require.Equal(t, 0, slot0Again)
	p.Publish(slot0Again, testRecord(3))

	// Slot 1 is still in flight and slot 0's stale duplicate signal must not
	// have double-freed anything: the next acquire has to stall.
	_, err = p.AcquireWriteSlot()
	require.ErrorIs(t, err, ErrPoolStall)
}

func TestSignalCompleteOnUnpublishedSlotIgnored(t *testing.T) {
	p := NewUniformPool(WithSlotCount(2), WithStallTimeout(50*time.Millisecond))
	defer p.Release()

	slot, err := p.AcquireWriteSlot()
	require.NoError(t, err)

	// Signaling a slot that was never published must not free it out from
	// under the writer.
	p.SignalComplete(slot)

	p.Publish(slot, testRecord(7))
	want := testRecord(7)
	assert.Equal(t, want.Marshal(), p.SlotBytes(slot))
}

func TestAcquireAfterRelease(t *testing.T) {
	p := NewUniformPool(WithSlotCount(2))
	p.Release()

	_, err := p.AcquireWriteSlot()
	require.ErrorIs(t, err, ErrPoolReleased)
}

func TestReleaseWakesBlockedAcquirer(t *testing.T) {
	p := NewUniformPool(WithSlotCount(2), WithStallTimeout(5*time.Second))

	for range 2 {
		slot, err := p.AcquireWriteSlot()
		require.NoError(t, err)
		p.Publish(slot, testRecord(0))
	}

	errs := make(chan error, 1)
	go func() {
		_, err := p.AcquireWriteSlot()
		errs <- err
	}()

	time.Sleep(50 * time.Millisecond)
	p.Release()

	select {
	case err := <-errs:
		require.ErrorIs(t, err, ErrPoolReleased)
	case <-time.After(2 * time.Second):
		t.Fatal("blocked acquirer was not woken by Release")
	}
}

func TestReleaseIdempotent(t *testing.T) {
	p := NewUniformPool()
	p.Release()
	p.Release()
}
