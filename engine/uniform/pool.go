package uniform

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrPoolStall is returned when a write slot could not be acquired within the
	// stall timeout, indicating the graphics processor has stopped retiring frames.
	ErrPoolStall = errors.New("uniform pool stalled: graphics processor is not retiring slots")

	// ErrPoolReleased is returned when a write slot is requested after the pool
	// has been released.
	ErrPoolReleased = errors.New("uniform pool has been released")
)

// slotState tracks where a pool slot is in its per-frame lifecycle.
type slotState uint8

const (
	// slotFree means the slot holds no in-flight frame data and may be acquired.
	slotFree slotState = iota

	// slotInUse means the host holds exclusive write access between
	// AcquireWriteSlot and Publish.
	slotInUse

	// slotPendingSignal means the slot has been published for a frame and is
	// readable by the graphics processor until SignalComplete is called.
	slotPendingSignal
)

// poolSlot is one rotating memory region sized for exactly one camera uniform,
// plus the bookkeeping the pool needs to recycle it safely.
type poolSlot struct {
	index int
	data  []byte
	state slotState

	// retired carries the graphics processor's completion signal to a host
	// goroutine blocked in AcquireWriteSlot. Buffered so SignalComplete never
	// blocks on the graphics callback thread.
	retired chan struct{}
}

// uniformPool is the implementation of the UniformPool interface.
type uniformPool struct {
	mu *sync.Mutex

	slots  []*poolSlot
	cursor int

	slotCount    int
	stallTimeout time.Duration
	released     bool
}

// UniformPool owns a small fixed set of rotating memory regions, each sized for
// one GPUCameraUniform, and mediates access so the host never overwrites a
// region the graphics processor is still reading. The pool is the sole owner of
// slot assignment; no other component may touch slot memory directly.
type UniformPool interface {
	// AcquireWriteSlot returns the next slot index in round-robin order,
	// blocking until the graphics processor has signaled completion for that
	// slot's previous frame. Blocking here is backpressure, not an error; it
	// becomes ErrPoolStall only after the configured stall timeout elapses.
	// On success the caller holds exclusive write access until Publish.
	//
	// Returns:
	//   - int: the acquired slot index
	//   - error: ErrPoolStall on stall timeout, ErrPoolReleased after Release
	AcquireWriteSlot() (int, error)

	// Publish copies the uniform's bytes into the slot's memory and marks the
	// slot readable by the graphics processor for the current frame.
	//
	// Parameters:
	//   - slot: the index returned by AcquireWriteSlot
	//   - record: the camera uniform for this frame
	Publish(slot int, record GPUCameraUniform)

	// SignalComplete records that the graphics processor has finished all reads
	// of the slot for its assigned frame, clearing it for reuse. Calling it
	// again for the same frame is a harmless no-op; pool state is unaffected.
	//
	// Parameters:
	//   - slot: the slot index being retired
	SignalComplete(slot int)

	// SlotCount returns the number of rotating slots in the pool.
	//
	// Returns:
	//   - int: the slot count
	SlotCount() int

	// SlotBytes returns a copy of the slot's current memory contents, for GPU
	// upload staging or verification. The copy never aliases pool memory.
	//
	// Parameters:
	//   - slot: the slot index to read
	//
	// Returns:
	//   - []byte: a copy of the slot's GPUCameraUniformSize bytes
	SlotBytes(slot int) []byte

	// Release tears the pool down unconditionally. Slots still pending a
	// completion signal are never reused; goroutines blocked in
	// AcquireWriteSlot are woken with ErrPoolReleased.
	Release()
}

// Compile-time interface compliance check
var _ UniformPool = &uniformPool{}

// NewUniformPool creates a pool of rotating uniform slots. All slot memory is
// allocated once here and lives until Release. The default is triple buffering
// (3 slots) with a 1 second stall timeout.
//
// Parameters:
//   - options: functional options to configure the pool
//
// Returns:
//   - UniformPool: the newly created pool
func NewUniformPool(options ...UniformPoolOption) UniformPool {
	p := &uniformPool{
		mu:           &sync.Mutex{},
		slotCount:    3,
		stallTimeout: time.Second,
	}

	for _, option := range options {
		option(p)
	}
	if p.slotCount < 2 {
		p.slotCount = 2
	}

	p.slots = make([]*poolSlot, p.slotCount)
	for i := range p.slots {
		p.slots[i] = &poolSlot{
			index:   i,
			data:    make([]byte, GPUCameraUniformSize),
			retired: make(chan struct{}, 1),
		}
	}
	return p
}

func (p *uniformPool) AcquireWriteSlot() (int, error) {
	p.mu.Lock()
	if p.released {
		p.mu.Unlock()
		return -1, ErrPoolReleased
	}

	s := p.slots[p.cursor]
	p.cursor = (p.cursor + 1) % len(p.slots)

	deadline := time.NewTimer(p.stallTimeout)
	defer deadline.Stop()

	for s.state != slotFree {
		p.mu.Unlock()
		select {
		case <-s.retired:
		case <-deadline.C:
			return -1, fmt.Errorf("slot %d held beyond %v: %w", s.index, p.stallTimeout, ErrPoolStall)
		}
		p.mu.Lock()
		if p.released {
			p.mu.Unlock()
			return -1, ErrPoolReleased
		}
	}

	s.state = slotInUse
	// Drain any stale completion token so a prior same-slot signal cannot
	// satisfy a future frame's wait.
	select {
	case <-s.retired:
	default:
	}
	p.mu.Unlock()
	return s.index, nil
}

func (p *uniformPool) Publish(slot int, record GPUCameraUniform) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.slots[slot]
	if s.state != slotInUse {
		return
	}
	copy(s.data, record.Marshal())
	s.state = slotPendingSignal
}

func (p *uniformPool) SignalComplete(slot int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.slots[slot]
	if s.state != slotPendingSignal {
		// Duplicate or out-of-order signal; slot availability is unchanged.
		return
	}
	s.state = slotFree
	select {
	case s.retired <- struct{}{}:
	default:
	}
}

func (p *uniformPool) SlotCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.slots)
}

func (p *uniformPool) SlotBytes(slot int) []byte {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]byte, len(p.slots[slot].data))
	copy(out, p.slots[slot].data)
	return out
}

func (p *uniformPool) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return
	}
	p.released = true
	for _, s := range p.slots {
		// Wake any blocked acquirer; it re-checks released under the lock.
		select {
		case s.retired <- struct{}{}:
		default:
		}
	}
}
