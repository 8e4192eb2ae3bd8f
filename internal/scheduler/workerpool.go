package scheduler

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/cloudbulk/bulk/bulktypes"
	"github.com/cloudbulk/bulk/errors"
)

// WorkerPool runs units on a fixed pool of worker goroutines drawing from a
// shared queue. Submission blocks while every worker is busy, so at most
// maxConcurrency storage operations are in flight at any moment. This is the
// strategy for storage clients that block the calling goroutine on I/O.
type WorkerPool struct {
	maxConcurrency int
}

// NewWorkerPool creates a worker-pool scheduler with the given budget.
// Returns an error wrapping errors.ErrInvalidConcurrency for budgets <= 0.
func NewWorkerPool(maxConcurrency int) (*WorkerPool, error) {
	if err := validateBudget(maxConcurrency); err != nil {
		return nil, err
	}
	return &WorkerPool{maxConcurrency: maxConcurrency}, nil
}

// Run implements Scheduler. A fresh pool is created per batch and released
// when the batch drains.
func (w *WorkerPool) Run(
	ctx context.Context,
	units []bulktypes.TransferUnit,
	worker Worker,
) ([]bulktypes.TransferOutcome, error) {
	outcomes := make([]bulktypes.TransferOutcome, len(units))
	if len(units) == 0 {
		return outcomes, nil
	}

	pool, err := ants.NewPool(w.maxConcurrency)
	if err != nil {
		return nil, errors.NewError("workerPool", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, unit := range units {
		unit := unit
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					outcomes[unit.Ordinal] = recoveredOutcome(unit, r)
				}
				wg.Done()
			}()

			// Cancellation stops admitting queued units; in-flight ones finish.
			select {
			case <-ctx.Done():
				outcomes[unit.Ordinal] = cancelledOutcome(unit, ctx.Err())
				return
			default:
			}

			outcomes[unit.Ordinal] = worker(ctx, unit)
		})
		if submitErr != nil {
			wg.Done()
			outcomes[unit.Ordinal] = bulktypes.TransferOutcome{
				Unit: unit,
				Err:  errors.NewError("submit", submitErr).WithKey(unit.Path.StoragePath),
			}
		}
	}
	wg.Wait()

	return outcomes, nil
}
