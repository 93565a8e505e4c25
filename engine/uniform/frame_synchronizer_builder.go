package uniform

// FrameSynchronizerOption is a functional option applied to a synchronizer during construction via NewFrameSynchronizer.
type FrameSynchronizerOption func(*frameSynchronizer)

// WithPool supplies an externally constructed uniform pool instead of the
// default triple-buffered one. The synchronizer takes ownership and releases
// the pool in Release.
//
// Parameters:
//   - pool: the pool to use
//
// Returns:
//   - FrameSynchronizerOption: a function that sets the pool on a synchronizer
func WithPool(pool UniformPool) FrameSynchronizerOption {
	return func(f *frameSynchronizer) {
		f.pool = pool
	}
}

// WithRetireWorkers sets how many reusable worker goroutines dispatch slot
// retirement signals. The default of 2 covers any realistic frames-in-flight
// depth.
//
// Parameters:
//   - workers: the worker count
//
// Returns:
//   - FrameSynchronizerOption: a function that sets the worker count on a synchronizer
func WithRetireWorkers(workers int) FrameSynchronizerOption {
	return func(f *frameSynchronizer) {
		if workers > 0 {
			f.retireWorkers = workers
		}
	}
}
