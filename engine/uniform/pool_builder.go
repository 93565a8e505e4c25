package uniform

import "time"

// UniformPoolOption is a functional option applied to a pool during construction via NewUniformPool.
type UniformPoolOption func(*uniformPool)

// WithSlotCount sets the number of rotating slots in the pool. Values below 2
// are raised to 2, the minimum for the host and graphics processor to overlap.
//
// Parameters:
//   - count: the number of slots (2 = double buffering, 3 = triple buffering)
//
// Returns:
//   - UniformPoolOption: a function that sets the slot count on a pool
func WithSlotCount(count int) UniformPoolOption {
	return func(p *uniformPool) {
		p.slotCount = count
	}
}

// WithStallTimeout sets how long AcquireWriteSlot blocks on an unretired slot
// before surfacing ErrPoolStall. This bounds backpressure so a hung graphics
// pipeline is reported as a hard stall instead of being retried silently.
//
// Parameters:
//   - timeout: the maximum blocking duration
//
// Returns:
//   - UniformPoolOption: a function that sets the stall timeout on a pool
func WithStallTimeout(timeout time.Duration) UniformPoolOption {
	return func(p *uniformPool) {
		p.stallTimeout = timeout
	}
}
