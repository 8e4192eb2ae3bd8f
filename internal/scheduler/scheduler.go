// Package scheduler bounds and coordinates the concurrent execution of
// transfer units. It provides two interchangeable strategies behind one
// interface: a fixed worker pool for blocking storage clients and a counting
// admission gate for non-blocking ones.
//
// Both strategies guarantee that no more than the configured budget of
// storage operations is in flight at once, that every submitted unit yields
// exactly one outcome, and that one failing unit never prevents the others
// from running.
package scheduler

import (
	"context"
	"fmt"

	"github.com/cloudbulk/bulk/bulktypes"
	"github.com/cloudbulk/bulk/errors"
	"github.com/cloudbulk/bulk/internal/validation"
)

// Worker executes one transfer unit and returns its outcome. Workers must
// not panic; the schedulers still convert a panicking worker into a failed
// outcome so the unit is not silently dropped.
type Worker func(ctx context.Context, unit bulktypes.TransferUnit) bulktypes.TransferOutcome

// Scheduler runs a batch of transfer units under a concurrency budget.
type Scheduler interface {
	// Run executes worker once per unit and returns one outcome per unit,
	// indexed by the unit's ordinal. The returned error reports only
	// infrastructure failures that prevented any unit from starting;
	// per-unit failures live in the outcomes.
	Run(ctx context.Context, units []bulktypes.TransferUnit, worker Worker) ([]bulktypes.TransferOutcome, error)
}

// New constructs the scheduler for the given strategy kind.
func New(kind bulktypes.SchedulerKind, maxConcurrency int) (Scheduler, error) {
	switch kind {
	case bulktypes.SchedulerWorkerPool:
		return NewWorkerPool(maxConcurrency)
	case bulktypes.SchedulerGate:
		return NewGate(maxConcurrency)
	default:
		return nil, errors.NewError("scheduler", errors.ErrInvalidInput).
			WithMessage(fmt.Sprintf("unknown scheduler kind %d", kind))
	}
}

// cancelledOutcome builds the failed outcome for a unit that never started
// because the context was cancelled first. In-flight units are unaffected.
func cancelledOutcome(unit bulktypes.TransferUnit, err error) bulktypes.TransferOutcome {
	return bulktypes.TransferOutcome{
		Unit: unit,
		Err:  errors.NewError("schedule", err).WithKey(unit.Path.StoragePath),
	}
}

// recoveredOutcome builds the failed outcome for a unit whose worker panicked.
func recoveredOutcome(unit bulktypes.TransferUnit, recovered any) bulktypes.TransferOutcome {
	return bulktypes.TransferOutcome{
		Unit: unit,
		Err: errors.NewError("worker", fmt.Errorf("panic: %v", recovered)).
			WithKey(unit.Path.StoragePath),
	}
}

// validateBudget is shared by both strategy constructors.
func validateBudget(maxConcurrency int) error {
	return validation.ValidateConcurrency(maxConcurrency)
}
