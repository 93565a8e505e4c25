package uniform

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// CameraSource is the producer boundary: whatever computes the camera each
// frame (scene or camera logic) satisfies this to feed the uniform pipeline.
// No constraints are imposed on how the values are computed, only on their
// numeric shape.
type CameraSource interface {
	// ViewProjectionMatrix returns the current combined view-projection matrix
	// as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the combined view-projection matrix
	ViewProjectionMatrix() [16]float32

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)
}

// GraphicsQueue is the consumer boundary: the graphics pipeline's draw
// submission surface. Implementations upload slot bytes to GPU-visible memory
// and invoke the retirement callback once the graphics processor has finished
// all reads for the submitted frame.
type GraphicsQueue interface {
	// WriteUniformSlot uploads the slot's serialized uniform bytes to the
	// GPU-visible memory region backing that slot.
	//
	// Parameters:
	//   - slot: the pool slot index
	//   - data: the slot's GPUCameraUniformSize bytes
	WriteUniformSlot(slot int, data []byte)

	// SubmitFrame submits the current frame's draw work bound to the given
	// slot and registers onRetired to fire once the graphics processor has
	// finished executing it.
	//
	// Parameters:
	//   - slot: the pool slot index bound as the frame's uniform source
	//   - onRetired: callback invoked on graphics-processor completion
	//
	// Returns:
	//   - error: an error if submission fails
	SubmitFrame(slot int, onRetired func()) error
}

// frameSynchronizer is the implementation of the FrameSynchronizer interface.
type frameSynchronizer struct {
	mu *sync.Mutex

	cam   CameraSource
	queue GraphicsQueue
	pool  UniformPool

	// retirePool manages a bounded set of reusable goroutines for dispatching
	// slot retirement off the graphics callback thread. Workers are reused
	// across frames and idle-exit when the pipeline goes quiet.
	retirePool    worker.DynamicWorkerPool
	retireWorkers int
	taskID        int
}

// FrameSynchronizer orchestrates the per-frame camera uniform handshake between
// the host timeline and the graphics processor. It is stateless across frames
// except for the pool's round-robin cursor and per-slot completion flags.
type FrameSynchronizer interface {
	// BeginFrame runs the host side of the per-frame cycle: reads the camera
	// source, constructs the uniform, acquires the next pool slot (blocking as
	// backpressure if all slots are in flight), publishes into it, and uploads
	// the slot bytes to the graphics queue. The returned slot index is the
	// frame's uniform binding for draw submission.
	//
	// Returns:
	//   - int: the slot index bound for this frame
	//   - error: ErrPoolStall if the graphics pipeline is hung, ErrPoolReleased after Release
	BeginFrame() (int, error)

	// EndFrame submits the frame's draw work against the given slot and
	// registers the completion signal that recycles the slot once the graphics
	// processor retires the frame.
	//
	// Parameters:
	//   - slot: the slot index returned by BeginFrame
	//
	// Returns:
	//   - error: an error if draw submission fails
	EndFrame(slot int) error

	// Pool returns the uniform pool owned by this synchronizer.
	//
	// Returns:
	//   - UniformPool: the pool
	Pool() UniformPool

	// Release tears down the pool unconditionally. Frames still in flight are
	// never reused; their late retirement signals are harmless no-ops.
	Release()
}

// Compile-time interface compliance check
var _ FrameSynchronizer = &frameSynchronizer{}

// NewFrameSynchronizer creates a frame synchronizer wiring a camera source to
// a graphics queue through a rotating uniform pool. If no pool is supplied via
// WithPool, a default triple-buffered pool is created and owned by the
// synchronizer.
//
// Parameters:
//   - cam: the camera transform producer (must not be nil)
//   - queue: the graphics pipeline's submission surface (must not be nil)
//   - options: functional options to configure the synchronizer
//
// Returns:
//   - FrameSynchronizer: the newly created synchronizer
func NewFrameSynchronizer(cam CameraSource, queue GraphicsQueue, options ...FrameSynchronizerOption) FrameSynchronizer {
	f := &frameSynchronizer{
		mu:            &sync.Mutex{},
		cam:           cam,
		queue:         queue,
		retireWorkers: 2,
	}

	for _, option := range options {
		option(f)
	}

	if f.pool == nil {
		f.pool = NewUniformPool()
	}
	f.retirePool = worker.NewDynamicWorkerPool(f.retireWorkers, 64, 1*time.Second)
	return f
}

func (f *frameSynchronizer) BeginFrame() (int, error) {
	vp := f.cam.ViewProjectionMatrix()
	px, py, pz := f.cam.Position()
	record := NewGPUCameraUniform(vp, [3]float32{px, py, pz})

	slot, err := f.pool.AcquireWriteSlot()
	if err != nil {
		return -1, err
	}

	f.pool.Publish(slot, record)
	f.queue.WriteUniformSlot(slot, f.pool.SlotBytes(slot))
	return slot, nil
}

func (f *frameSynchronizer) EndFrame(slot int) error {
	f.mu.Lock()
	id := f.taskID
	f.taskID++
	f.mu.Unlock()

	return f.queue.SubmitFrame(slot, func() {
		// Hand retirement to the worker pool so the graphics callback thread
		// never blocks on pool bookkeeping.
		f.retirePool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				f.pool.SignalComplete(slot)
				return nil, nil
			},
		})
	})
}

func (f *frameSynchronizer) Pool() UniformPool {
	return f.pool
}

func (f *frameSynchronizer) Release() {
	f.pool.Release()
}
