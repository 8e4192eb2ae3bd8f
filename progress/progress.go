// Package progress provides ready-made ProgressReporter implementations.
// Reporters observe unit completion; they never influence scheduling.
package progress

import (
	"sync"

	"go.uber.org/zap"

	"github.com/cloudbulk/bulk/bulktypes"
)

// Nop returns a reporter that discards every update. Useful as an explicit
// per-call override to silence an orchestrator-level reporter.
func Nop() bulktypes.ProgressReporter {
	return nopReporter{}
}

type nopReporter struct{}

func (nopReporter) Advance(bulktypes.Progress) {}
func (nopReporter) Complete()                  {}

// Log returns a reporter that writes each progress snapshot to the given
// logger at debug level and a single info line on completion.
func Log(logger *zap.Logger) bulktypes.ProgressReporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &logReporter{logger: logger}
}

type logReporter struct {
	logger *zap.Logger

	mu   sync.Mutex
	last bulktypes.Progress
}

func (r *logReporter) Advance(p bulktypes.Progress) {
	r.mu.Lock()
	if p.CompletedUnits > r.last.CompletedUnits {
		r.last = p
	}
	r.mu.Unlock()

	r.logger.Debug("transfer progress",
		zap.Int("completed", p.CompletedUnits),
		zap.Int("total", p.TotalUnits),
		zap.Int64("bytes", p.BytesTransferred))
}

func (r *logReporter) Complete() {
	r.mu.Lock()
	last := r.last
	r.mu.Unlock()

	r.logger.Info("transfer complete",
		zap.Int("units", last.TotalUnits),
		zap.Int64("bytes", last.BytesTransferred))
}
