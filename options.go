package bulk

import (
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cloudbulk/bulk/bulktypes"
)

// WithConcurrency sets the maximum number of transfers in flight at once.
// Values <= 0 are rejected by New.
func WithConcurrency(n int) bulktypes.Option {
	return func(cfg *bulktypes.OrchestratorConfig) {
		cfg.Concurrency = n
	}
}

// WithScheduler selects the concurrency strategy. SchedulerWorkerPool runs a
// fixed pool of workers drawing from a queue; SchedulerGate launches every
// unit and throttles through an admission gate. Both honor the same budget.
func WithScheduler(kind bulktypes.SchedulerKind) bulktypes.Option {
	return func(cfg *bulktypes.OrchestratorConfig) {
		cfg.Scheduler = kind
	}
}

// WithProgress installs the default progress reporter for every bulk call.
// Pass nil to disable reporting.
func WithProgress(reporter bulktypes.ProgressReporter) bulktypes.Option {
	return func(cfg *bulktypes.OrchestratorConfig) {
		cfg.Reporter = reporter
	}
}

// WithRateLimit throttles unit admission through the given limiter. Each
// unit waits for one token before its transfer starts. A nil limiter means
// no throttling.
func WithRateLimit(limiter *rate.Limiter) bulktypes.Option {
	return func(cfg *bulktypes.OrchestratorConfig) {
		cfg.RateLimiter = limiter
	}
}

// WithLogger sets the logger for transfer lifecycle events. Defaults to a
// no-op logger.
func WithLogger(logger *zap.Logger) bulktypes.Option {
	return func(cfg *bulktypes.OrchestratorConfig) {
		cfg.Logger = logger
	}
}

// WithFilesystem substitutes the local filesystem implementation. Defaults
// to the OS filesystem rooted at /. Useful for testing with an in-memory
// filesystem.
func WithFilesystem(filesystem fs.Filesystem) bulktypes.Option {
	return func(cfg *bulktypes.OrchestratorConfig) {
		cfg.Filesystem = filesystem
	}
}

// WithTransferConcurrency overrides the orchestrator's concurrency budget
// for a single bulk call.
func WithTransferConcurrency(n int) bulktypes.TransferOption {
	return func(cfg *bulktypes.TransferOptionConfig) {
		cfg.Concurrency = n
	}
}

// WithTransferProgress overrides the orchestrator's progress reporter for a
// single bulk call. Pass nil to silence reporting for the call.
func WithTransferProgress(reporter bulktypes.ProgressReporter) bulktypes.TransferOption {
	return func(cfg *bulktypes.TransferOptionConfig) {
		cfg.Reporter = reporter
	}
}
