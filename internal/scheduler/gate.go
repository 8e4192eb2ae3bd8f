package scheduler

import (
	"context"
	"sync"

	"github.com/cloudbulk/bulk/bulktypes"
)

// Gate issues every unit as its own goroutine up front and throttles them
// through a counting admission gate of size maxConcurrency. The gate is the
// only throttle: a unit acquires a slot before touching storage and releases
// it when done, success or failure. This is the strategy for storage clients
// whose I/O multiplexes instead of blocking a worker.
type Gate struct {
	maxConcurrency int
}

// NewGate creates an admission-gate scheduler with the given budget.
// Returns an error wrapping errors.ErrInvalidConcurrency for budgets <= 0.
func NewGate(maxConcurrency int) (*Gate, error) {
	if err := validateBudget(maxConcurrency); err != nil {
		return nil, err
	}
	return &Gate{maxConcurrency: maxConcurrency}, nil
}

// Run implements Scheduler.
func (g *Gate) Run(
	ctx context.Context,
	units []bulktypes.TransferUnit,
	worker Worker,
) ([]bulktypes.TransferOutcome, error) {
	outcomes := make([]bulktypes.TransferOutcome, len(units))
	if len(units) == 0 {
		return outcomes, nil
	}

	gate := make(chan struct{}, g.maxConcurrency)

	var wg sync.WaitGroup
	for _, unit := range units {
		unit := unit
		wg.Add(1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					outcomes[unit.Ordinal] = recoveredOutcome(unit, r)
				}
				wg.Done()
			}()

			select {
			case <-ctx.Done():
				outcomes[unit.Ordinal] = cancelledOutcome(unit, ctx.Err())
				return
			default:
			}

			// Park until a slot frees up. Cancellation stops admitting
			// parked units; units already past the gate finish.
			select {
			case gate <- struct{}{}:
			case <-ctx.Done():
				outcomes[unit.Ordinal] = cancelledOutcome(unit, ctx.Err())
				return
			}
			defer func() { <-gate }()

			outcomes[unit.Ordinal] = worker(ctx, unit)
		}()
	}
	wg.Wait()

	return outcomes, nil
}
