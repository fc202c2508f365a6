package renderer

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// WorkerPool runs independent tasks on a bounded number of goroutines
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// A non-positive count uses one worker per CPU.
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run calls task for every index in [0, count) and waits for all of them.
// The first error cancels ctx for the remaining tasks and is returned.
// A panicking task is reported as an error instead of crashing the process.
func (wp *WorkerPool) Run(ctx context.Context, count int, task func(ctx context.Context, index int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wp.numWorkers)

	for i := 0; i < count; i++ {
		if gctx.Err() != nil {
			break
		}
		index := i
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("task %d panicked: %v", index, r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			return task(gctx, index)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
