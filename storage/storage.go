// Package storage defines the capability interfaces the bulk orchestrator
// consumes. Each object-storage backend provides one implementation; the
// orchestrator is written once against these interfaces and treats whatever
// the vendor SDK does on the wire as opaque.
package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo describes one stored object, as returned by listings.
type ObjectInfo struct {
	// Key is the slash-delimited object key
	Key string

	// Size is the object size in bytes
	Size int64

	// LastModified is when the object was last modified
	LastModified time.Time
}

// Client is the minimal per-object capability the transfer executor needs.
// Implementations must be safe for concurrent use; the connection pool behind
// a Client is shared by every in-flight transfer unit.
//
// Errors returned by either method should wrap the sentinels in the errors
// package (ErrNotFound, ErrPermissionDenied, ErrTransient) so failed units
// classify correctly.
type Client interface {
	// PutObject stores the body under key. size is the exact body length;
	// contentType may be empty.
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// GetObject retrieves the object stored under key. The caller must
	// close the returned reader.
	GetObject(ctx context.Context, key string) (io.ReadCloser, error)
}

// Lister enumerates objects under a key prefix. The orchestrator uses it to
// discover download sets; backends implement it with their SDK's paginated
// listing call.
type Lister interface {
	// ListObjects returns every object whose key starts with prefix.
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// BucketManager covers bucket (or container) lifecycle. It is an external
// collaborator interface: callers may use it around a bulk transfer, but the
// orchestrator itself never creates or destroys buckets.
type BucketManager interface {
	// CreateBucket creates the backing bucket or container.
	CreateBucket(ctx context.Context) error

	// DeleteBucket removes the backing bucket or container, which must be empty.
	DeleteBucket(ctx context.Context) error

	// EmptyBucket deletes every object in the bucket.
	EmptyBucket(ctx context.Context) error

	// ObjectExists reports whether an object is stored under key.
	ObjectExists(ctx context.Context, key string) (bool, error)
}

// Store is the full capability set every bundled backend implements.
type Store interface {
	Client
	Lister
	BucketManager
}
