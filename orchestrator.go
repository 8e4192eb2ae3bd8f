package bulk

import (
	"context"
	"sync"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cloudbulk/bulk/bulktypes"
	"github.com/cloudbulk/bulk/errors"
	"github.com/cloudbulk/bulk/internal/executor"
	"github.com/cloudbulk/bulk/internal/expand"
	"github.com/cloudbulk/bulk/internal/scheduler"
	"github.com/cloudbulk/bulk/internal/validation"
	"github.com/cloudbulk/bulk/storage"
)

// DefaultConcurrency is the transfer budget used when none is configured.
const DefaultConcurrency = 5

// Orchestrator coordinates bulk transfers: it expands path sets, schedules
// each pair as an independent unit, bounds concurrent execution, and folds
// per-unit outcomes into a BulkResult while reporting progress.
//
// An Orchestrator is safe for concurrent use; each bulk call owns its units
// and result exclusively.
type Orchestrator struct {
	client storage.Client

	concurrency int
	kind        bulktypes.SchedulerKind
	reporter    bulktypes.ProgressReporter
	limiter     *rate.Limiter
	logger      *zap.Logger

	filesystem fs.Filesystem
	expander   *expand.Expander
	executor   *executor.Executor
}

// New creates an Orchestrator bound to the given storage client.
// The client's credentials and endpoint are the caller's responsibility;
// the orchestrator never configures it.
//
// Example:
//
//	orch, err := bulk.New(store,
//	    bulk.WithConcurrency(50),
//	    bulk.WithScheduler(bulktypes.SchedulerGate),
//	)
func New(client storage.Client, opts ...bulktypes.Option) (*Orchestrator, error) {
	if client == nil {
		return nil, errors.NewError("new", errors.ErrInvalidInput).
			WithMessage("storage client cannot be nil")
	}

	cfg := &bulktypes.OrchestratorConfig{
		Concurrency: DefaultConcurrency,
		Scheduler:   bulktypes.SchedulerWorkerPool,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := validation.ValidateConcurrency(cfg.Concurrency); err != nil {
		return nil, err
	}

	filesystem := cfg.Filesystem
	if filesystem == nil {
		filesystem = billy.NewOSFS("/")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Orchestrator{
		client:      client,
		concurrency: cfg.Concurrency,
		kind:        cfg.Scheduler,
		reporter:    cfg.Reporter,
		limiter:     cfg.RateLimiter,
		logger:      logger,
		filesystem:  filesystem,
		expander:    expand.New(filesystem),
		executor:    executor.New(client, filesystem),
	}, nil
}

// Transfer is the core entry point: it moves every path in the given
// direction under the configured concurrency budget and returns the
// aggregated result.
//
// An empty path list is legal and returns an empty result immediately.
// Partial failure is a normal outcome: the call returns a nil error even
// when some units fail, and callers inspect BulkResult.Failed and
// BulkResult.Failures to decide how to react. The error return is reserved
// for conditions that prevent any work from starting, such as an invalid
// concurrency budget.
//
// Returns:
//   - *bulktypes.BulkResult: Aggregated counts, failure list, bytes, duration
//   - error: Non-nil only when the call aborts before scheduling
//
// Errors:
//   - ErrInvalidConcurrency: If the effective budget is zero or negative
//   - ErrInvalidInput: If a path is missing its local or storage half
func (o *Orchestrator) Transfer(
	ctx context.Context,
	paths []bulktypes.TransferPath,
	direction bulktypes.Direction,
	opts ...bulktypes.TransferOption,
) (*bulktypes.BulkResult, error) {
	cfg := &bulktypes.TransferOptionConfig{
		Concurrency: o.concurrency,
		Reporter:    o.reporter,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := validation.ValidateConcurrency(cfg.Concurrency); err != nil {
		return nil, err
	}

	start := time.Now()

	if len(paths) == 0 {
		return &bulktypes.BulkResult{Duration: time.Since(start)}, nil
	}

	units := make([]bulktypes.TransferUnit, len(paths))
	for i, p := range paths {
		p = p.Normalize()
		if err := p.Validate(); err != nil {
			return nil, errors.NewError("transfer", errors.ErrInvalidInput).
				WithMessage(err.Error())
		}
		units[i] = bulktypes.TransferUnit{
			Path:      p,
			Direction: direction,
			Ordinal:   i,
		}
	}

	sched, err := scheduler.New(o.kind, cfg.Concurrency)
	if err != nil {
		return nil, err
	}

	o.logger.Debug("bulk transfer starting",
		zap.Stringer("direction", direction),
		zap.Int("units", len(units)),
		zap.Int("concurrency", cfg.Concurrency))

	// Progress accounting shared by all in-flight workers.
	var mu sync.Mutex
	completed := 0
	var bytes int64

	worker := func(ctx context.Context, unit bulktypes.TransferUnit) bulktypes.TransferOutcome {
		if o.limiter != nil {
			if err := o.limiter.Wait(ctx); err != nil {
				return bulktypes.TransferOutcome{
					Unit: unit,
					Err:  errors.NewKeyError("throttle", unit.Path.StoragePath, err),
				}
			}
		}

		outcome := o.executor.Execute(ctx, unit)

		mu.Lock()
		completed++
		if outcome.Succeeded() {
			bytes += outcome.Bytes
		}
		// Advance is invoked under the lock so snapshots arrive in
		// completion order.
		if cfg.Reporter != nil {
			cfg.Reporter.Advance(bulktypes.Progress{
				CompletedUnits:   completed,
				TotalUnits:       len(units),
				BytesTransferred: bytes,
			})
		}
		mu.Unlock()
		return outcome
	}

	outcomes, err := sched.Run(ctx, units, worker)
	if err != nil {
		return nil, err
	}

	result := &bulktypes.BulkResult{
		TotalUnits: len(units),
	}
	for _, outcome := range outcomes {
		if outcome.Succeeded() {
			result.Succeeded++
			result.BytesTransferred += outcome.Bytes
		} else {
			result.Failed++
			result.Failures = append(result.Failures, outcome)
		}
	}
	result.Duration = time.Since(start)

	if cfg.Reporter != nil {
		cfg.Reporter.Complete()
	}

	o.logger.Debug("bulk transfer finished",
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Int64("bytes", result.BytesTransferred),
		zap.Duration("duration", result.Duration))

	return result, nil
}

// Upload transfers an explicit list of local-file/storage-key pairs to
// object storage. Every local path must exist and be a regular file.
//
// Errors:
//   - ErrDiscovery: If a local path is missing or not a regular file
//   - ErrInvalidInput: If a storage key is syntactically invalid
func (o *Orchestrator) Upload(
	ctx context.Context,
	paths []bulktypes.TransferPath,
	opts ...bulktypes.TransferOption,
) (*bulktypes.BulkResult, error) {
	validated, err := o.expander.ValidateUploads(paths)
	if err != nil {
		return nil, err
	}
	return o.Transfer(ctx, validated, bulktypes.DirectionUpload, opts...)
}

// Download transfers an explicit list of storage-key/local-file pairs from
// object storage. Keys are validated syntactically; a key that turns out not
// to exist is a per-unit failure, not a call failure.
func (o *Orchestrator) Download(
	ctx context.Context,
	paths []bulktypes.TransferPath,
	opts ...bulktypes.TransferOption,
) (*bulktypes.BulkResult, error) {
	validated, err := o.expander.ValidateDownloads(paths)
	if err != nil {
		return nil, err
	}
	return o.Transfer(ctx, validated, bulktypes.DirectionDownload, opts...)
}

// UploadDir walks localDir and uploads every regular file beneath it,
// preserving the directory structure under storagePrefix.
//
// Example:
//
//	result, err := orch.UploadDir(ctx, "test_dir", "my_storage_dir")
//
// Errors:
//   - ErrDiscovery: If localDir does not exist or cannot be read
func (o *Orchestrator) UploadDir(
	ctx context.Context,
	localDir, storagePrefix string,
	opts ...bulktypes.TransferOption,
) (*bulktypes.BulkResult, error) {
	paths, err := o.expander.ExpandDir(ctx, localDir, storagePrefix)
	if err != nil {
		return nil, err
	}
	return o.Transfer(ctx, paths, bulktypes.DirectionUpload, opts...)
}

// DownloadDir lists every object under storagePrefix and downloads the set
// into localDir, recreating the key structure relative to the prefix.
// The storage client must implement storage.Lister.
//
// Errors:
//   - ErrNotSupported: If the storage client cannot list objects
//   - ErrDiscovery: If the remote listing fails
func (o *Orchestrator) DownloadDir(
	ctx context.Context,
	storagePrefix, localDir string,
	opts ...bulktypes.TransferOption,
) (*bulktypes.BulkResult, error) {
	lister, ok := o.client.(storage.Lister)
	if !ok {
		return nil, errors.NewError("downloadDir", errors.ErrNotSupported).
			WithMessage("storage client does not implement listing")
	}

	objects, err := lister.ListObjects(ctx, storagePrefix)
	if err != nil {
		return nil, errors.NewKeyError("downloadDir", storagePrefix, errors.ErrDiscovery).
			WithMessage(err.Error())
	}

	keys := make([]string, len(objects))
	for i, obj := range objects {
		keys[i] = obj.Key
	}

	paths := o.expander.ExpandObjects(keys, storagePrefix, localDir)
	return o.Transfer(ctx, paths, bulktypes.DirectionDownload, opts...)
}
