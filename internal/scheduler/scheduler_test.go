package scheduler

import (
	"context"
	goerrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudbulk/bulk/bulktypes"
	"github.com/cloudbulk/bulk/errors"
)

func makeUnits(n int) []bulktypes.TransferUnit {
	units := make([]bulktypes.TransferUnit, n)
	for i := range units {
		units[i] = bulktypes.TransferUnit{
			Path: bulktypes.TransferPath{
				LocalPath:   "local",
				StoragePath: "key",
			},
			Direction: bulktypes.DirectionUpload,
			Ordinal:   i,
		}
	}
	return units
}

// strategies under test; both must satisfy the same guarantees.
var strategies = []struct {
	name string
	kind bulktypes.SchedulerKind
}{
	{"worker pool", bulktypes.SchedulerWorkerPool},
	{"gate", bulktypes.SchedulerGate},
}

func TestSchedulerBudget(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(strategy.name, func(t *testing.T) {
			const budget = 3
			sched, err := New(strategy.kind, budget)
			require.NoError(t, err)

			var inFlight, peak atomic.Int32
			worker := func(ctx context.Context, unit bulktypes.TransferUnit) bulktypes.TransferOutcome {
				cur := inFlight.Add(1)
				for {
					max := peak.Load()
					if cur <= max || peak.CompareAndSwap(max, cur) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				inFlight.Add(-1)
				return bulktypes.TransferOutcome{Unit: unit}
			}

			outcomes, err := sched.Run(context.Background(), makeUnits(20), worker)
			require.NoError(t, err)
			assert.Len(t, outcomes, 20)
			assert.LessOrEqual(t, int(peak.Load()), budget)
			assert.Positive(t, int(peak.Load()))
		})
	}
}

func TestSchedulerOutcomeOrdering(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(strategy.name, func(t *testing.T) {
			sched, err := New(strategy.kind, 4)
			require.NoError(t, err)

			worker := func(ctx context.Context, unit bulktypes.TransferUnit) bulktypes.TransferOutcome {
				return bulktypes.TransferOutcome{Unit: unit, Bytes: int64(unit.Ordinal)}
			}

			outcomes, err := sched.Run(context.Background(), makeUnits(50), worker)
			require.NoError(t, err)
			require.Len(t, outcomes, 50)
			for i, outcome := range outcomes {
				assert.Equal(t, i, outcome.Unit.Ordinal)
				assert.Equal(t, int64(i), outcome.Bytes)
			}
		})
	}
}

func TestSchedulerFailureIsolation(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(strategy.name, func(t *testing.T) {
			sched, err := New(strategy.kind, 2)
			require.NoError(t, err)

			failure := goerrors.New("injected")
			worker := func(ctx context.Context, unit bulktypes.TransferUnit) bulktypes.TransferOutcome {
				if unit.Ordinal%3 == 0 {
					return bulktypes.TransferOutcome{Unit: unit, Err: failure}
				}
				return bulktypes.TransferOutcome{Unit: unit}
			}

			outcomes, err := sched.Run(context.Background(), makeUnits(9), worker)
			require.NoError(t, err)

			failed := 0
			for _, outcome := range outcomes {
				if !outcome.Succeeded() {
					failed++
				}
			}
			assert.Equal(t, 3, failed)
		})
	}
}

func TestSchedulerPanicRecovery(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(strategy.name, func(t *testing.T) {
			sched, err := New(strategy.kind, 2)
			require.NoError(t, err)

			worker := func(ctx context.Context, unit bulktypes.TransferUnit) bulktypes.TransferOutcome {
				if unit.Ordinal == 1 {
					panic("worker exploded")
				}
				return bulktypes.TransferOutcome{Unit: unit}
			}

			outcomes, err := sched.Run(context.Background(), makeUnits(3), worker)
			require.NoError(t, err)
			require.Len(t, outcomes, 3)

			assert.True(t, outcomes[0].Succeeded())
			assert.False(t, outcomes[1].Succeeded())
			assert.Contains(t, outcomes[1].Err.Error(), "panic")
			assert.True(t, outcomes[2].Succeeded())
		})
	}
}

func TestSchedulerCancellation(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(strategy.name, func(t *testing.T) {
			sched, err := New(strategy.kind, 1)
			require.NoError(t, err)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			worker := func(ctx context.Context, unit bulktypes.TransferUnit) bulktypes.TransferOutcome {
				return bulktypes.TransferOutcome{Unit: unit}
			}

			outcomes, err := sched.Run(ctx, makeUnits(5), worker)
			require.NoError(t, err)
			require.Len(t, outcomes, 5)
			for _, outcome := range outcomes {
				assert.False(t, outcome.Succeeded())
			}
		})
	}
}

func TestSchedulerEmptyBatch(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(strategy.name, func(t *testing.T) {
			sched, err := New(strategy.kind, 2)
			require.NoError(t, err)

			outcomes, err := sched.Run(context.Background(), nil, nil)
			require.NoError(t, err)
			assert.Empty(t, outcomes)
		})
	}
}

func TestSchedulerRejectsBadBudget(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(strategy.name, func(t *testing.T) {
			for _, budget := range []int{0, -1, -100} {
				_, err := New(strategy.kind, budget)
				require.Error(t, err)
				assert.True(t, goerrors.Is(err, errors.ErrInvalidConcurrency))
			}
		})
	}
}

func TestSchedulerUnknownKind(t *testing.T) {
	_, err := New(bulktypes.SchedulerKind(99), 2)
	require.Error(t, err)
}
