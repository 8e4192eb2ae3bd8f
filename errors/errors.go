// Package errors provides error types and handling for bulk transfer operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a bulk transfer error with context about the operation
// that failed. It wraps the underlying storage SDK or filesystem error with
// additional context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "upload", "expand", "transfer")
	Op string

	// Path is the local filesystem path (if applicable)
	Path string

	// Key is the remote storage key (if applicable)
	Key string

	// Err is the underlying error from the storage SDK or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Path != "" && e.Key != "" {
		return fmt.Sprintf("bulk.%s %s -> %s: %v", e.Op, e.Path, e.Key, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("bulk.%s %s: %v", e.Op, e.Path, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("bulk.%s %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("bulk.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithPath adds local path context to an existing error.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// WithKey adds storage key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewPathError creates a new Error with local path context.
func NewPathError(op, path string, err error) *Error {
	return &Error{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// NewKeyError creates a new Error with storage key context.
func NewKeyError(op, key string, err error) *Error {
	return &Error{
		Op:  op,
		Key: key,
		Err: err,
	}
}

// Sentinel errors for bulk transfer failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrDiscovery indicates that path expansion failed before scheduling;
	// the bulk call aborts without transferring anything
	ErrDiscovery = errors.New("bulk: discovery failed")

	// ErrInvalidConcurrency indicates a non-positive concurrency budget;
	// the bulk call aborts before any unit starts
	ErrInvalidConcurrency = errors.New("bulk: concurrency must be positive")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("bulk: invalid input")

	// ErrLocalIO indicates a read or write failure on the local filesystem
	// for a single unit; the batch continues
	ErrLocalIO = errors.New("bulk: local i/o failure")

	// ErrNotFound indicates that the requested object does not exist
	ErrNotFound = errors.New("bulk: object not found")

	// ErrPermissionDenied indicates that access to the object was denied
	ErrPermissionDenied = errors.New("bulk: permission denied")

	// ErrTransient indicates a transient network or service failure
	ErrTransient = errors.New("bulk: transient transfer failure")

	// ErrBucketNotFound indicates that the bucket or container does not exist
	ErrBucketNotFound = errors.New("bulk: bucket not found")

	// ErrBucketAlreadyExists indicates that the bucket or container already exists
	ErrBucketAlreadyExists = errors.New("bulk: bucket already exists")

	// ErrNotSupported indicates that the storage client does not implement
	// the requested capability
	ErrNotSupported = errors.New("bulk: operation not supported by storage client")
)

// FailureKind classifies a failed transfer outcome for reporting.
type FailureKind int

// Failure classifications
const (
	// FailureUnknown covers errors not matched by any other kind
	FailureUnknown FailureKind = iota

	// FailureNotFound means the remote object was missing
	FailureNotFound

	// FailurePermissionDenied means the storage service refused access
	FailurePermissionDenied

	// FailureTransient means a network or service hiccup interrupted the unit
	FailureTransient

	// FailureLocalIO means the local filesystem read or write failed
	FailureLocalIO
)

// String returns the failure kind name for display.
func (k FailureKind) String() string {
	switch k {
	case FailureNotFound:
		return "not_found"
	case FailurePermissionDenied:
		return "permission_denied"
	case FailureTransient:
		return "transient"
	case FailureLocalIO:
		return "local_io"
	default:
		return "unknown"
	}
}

// Classify maps an error onto its FailureKind by inspecting the wrapped
// sentinel. Unrecognized errors classify as FailureUnknown.
func Classify(err error) FailureKind {
	switch {
	case err == nil:
		return FailureUnknown
	case errors.Is(err, ErrNotFound):
		return FailureNotFound
	case errors.Is(err, ErrPermissionDenied):
		return FailurePermissionDenied
	case errors.Is(err, ErrTransient):
		return FailureTransient
	case errors.Is(err, ErrLocalIO):
		return FailureLocalIO
	default:
		return FailureUnknown
	}
}

// IsNotFound checks if an error indicates that an object was not found.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsPermissionDenied checks if an error indicates access was denied.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

// IsTransient checks if an error indicates a transient network failure.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}

// IsLocalIO checks if an error indicates a local filesystem failure.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsLocalIO(err error) bool {
	return errors.Is(err, ErrLocalIO)
}

// IsDiscovery checks if an error indicates a failed path expansion.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsDiscovery(err error) bool {
	return errors.Is(err, ErrDiscovery)
}
