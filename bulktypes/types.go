// Package bulktypes provides shared type definitions for the bulk transfer module.
package bulktypes

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Direction indicates whether a transfer moves data to or from object storage.
type Direction int

// Transfer directions
const (
	// DirectionUpload moves local files to object storage
	DirectionUpload Direction = iota

	// DirectionDownload moves objects from storage to the local filesystem
	DirectionDownload
)

// String returns the direction name for logging and error messages.
func (d Direction) String() string {
	switch d {
	case DirectionUpload:
		return "upload"
	case DirectionDownload:
		return "download"
	default:
		return "unknown"
	}
}

// TransferPath pairs a local filesystem path with a remote storage key.
// It is the addressing unit for every transfer operation.
type TransferPath struct {
	// LocalPath is the file path on the local filesystem, absolute or
	// relative to the process working directory
	LocalPath string

	// StoragePath is the slash-delimited remote object key
	StoragePath string
}

// Validate reports whether both halves of the path are present.
func (p TransferPath) Validate() error {
	if p.LocalPath == "" || p.StoragePath == "" {
		return errors.New("transfer path requires both a local path and a storage path")
	}
	return nil
}

// Normalize returns a copy with the storage key cleaned: OS path separators
// converted to "/" and all leading "/" stripped.
func (p TransferPath) Normalize() TransferPath {
	key := filepath.ToSlash(p.StoragePath)
	key = strings.TrimLeft(key, "/")
	return TransferPath{
		LocalPath:   p.LocalPath,
		StoragePath: key,
	}
}

// TransferUnit is the smallest schedulable item: one TransferPath plus a
// direction and an ordinal index used for stable result bookkeeping.
// Units are built by the orchestrator, one per input path, and are never
// shared across bulk calls.
type TransferUnit struct {
	// Path identifies the local file and remote key for this unit
	Path TransferPath

	// Direction is upload or download
	Direction Direction

	// Ordinal is the unit's position in the input sequence
	Ordinal int
}

// TransferOutcome records the result of executing one TransferUnit.
// Exactly one outcome is produced per unit; it is never mutated afterwards.
type TransferOutcome struct {
	// Unit is the originating transfer unit
	Unit TransferUnit

	// Err is nil on success, otherwise the classified transfer error
	Err error

	// Bytes is the number of bytes transferred
	Bytes int64

	// Duration is how long this unit took
	Duration time.Duration
}

// Succeeded reports whether the unit completed without error.
func (o TransferOutcome) Succeeded() bool {
	return o.Err == nil
}

// BulkResult aggregates the per-unit outcomes of one bulk transfer call.
type BulkResult struct {
	// TotalUnits is the number of units attempted
	TotalUnits int

	// Succeeded is the number of units that completed without error
	Succeeded int

	// Failed is the number of units that produced an error
	Failed int

	// Failures holds the outcome of every failed unit; successes are
	// only counted, not retained
	Failures []TransferOutcome

	// BytesTransferred is the total bytes moved by successful units
	BytesTransferred int64

	// Duration is the wall-clock time of the whole bulk call
	Duration time.Duration
}

// Progress is a snapshot of bulk transfer progress, delivered to the
// ProgressReporter after each completed unit.
type Progress struct {
	// CompletedUnits is the number of units finished so far, failed or not
	CompletedUnits int

	// TotalUnits is the total number of units in this bulk call
	TotalUnits int

	// BytesTransferred is the running byte total of successful units
	BytesTransferred int64
}

// ProgressReporter observes completed transfer units. Implementations render
// aggregate progress; they never participate in scheduling decisions.
type ProgressReporter interface {
	// Advance is called after each unit completes, successfully or not
	Advance(p Progress)

	// Complete is called once, after every unit has finished
	Complete()
}

// SchedulerKind selects the concurrency strategy for a bulk call.
type SchedulerKind int

// Available concurrency strategies
const (
	// SchedulerWorkerPool runs units on a fixed pool of worker goroutines
	// drawing from a shared queue; suited to blocking storage clients
	SchedulerWorkerPool SchedulerKind = iota

	// SchedulerGate issues all units up front and throttles them through a
	// counting admission gate; suited to non-blocking storage clients
	SchedulerGate
)

// String returns the scheduler kind name for logging and error messages.
func (k SchedulerKind) String() string {
	switch k {
	case SchedulerWorkerPool:
		return "worker_pool"
	case SchedulerGate:
		return "gate"
	default:
		return "unknown"
	}
}

// Configuration types for functional options

// OrchestratorConfig holds configuration for the bulk orchestrator.
type OrchestratorConfig struct {
	Concurrency int
	Scheduler   SchedulerKind
	Reporter    ProgressReporter
	RateLimiter *rate.Limiter
	Logger      *zap.Logger
	Filesystem  fs.Filesystem // Filesystem abstraction for local file operations
}

// TransferOptionConfig holds per-call overrides for one bulk transfer.
type TransferOptionConfig struct {
	Concurrency int
	Reporter    ProgressReporter
}

// Option is a functional option for configuring the orchestrator.
type (
	Option func(*OrchestratorConfig)
	// TransferOption is a functional option applied to a single bulk call.
	TransferOption func(*TransferOptionConfig)
)
