// Package gcs implements the storage capabilities against Google Cloud
// Storage. A Store is bound to a single bucket; keys passed to its methods
// are bucket-relative object names.
package gcs

import (
	"context"
	goerrors "errors"
	"io"

	gstorage "cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/cloudbulk/bulk/errors"
	"github.com/cloudbulk/bulk/storage"
)

// Store is a GCS implementation of storage.Store. It is safe for concurrent
// use.
type Store struct {
	client *gstorage.Client
	bucket *gstorage.BucketHandle

	// projectID is required only for bucket creation.
	projectID string
}

// Compile-time capability checks.
var (
	_ storage.Client        = (*Store)(nil)
	_ storage.Lister        = (*Store)(nil)
	_ storage.BucketManager = (*Store)(nil)
	_ storage.Store         = (*Store)(nil)
)

// New creates a Store bound to the given bucket. Credentials come from
// Application Default Credentials unless overridden by client options.
//
// Example:
//
//	store, err := gcs.New(ctx, "my-bucket", "my-project",
//	    option.WithCredentialsFile("service-account.json"),
//	)
func New(ctx context.Context, bucket, projectID string, opts ...option.ClientOption) (*Store, error) {
	if bucket == "" {
		return nil, errors.NewError("gcs.new", errors.ErrInvalidInput).
			WithMessage("bucket name cannot be empty")
	}

	client, err := gstorage.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.NewError("gcs.new", err)
	}
	return &Store{
		client:    client,
		bucket:    client.Bucket(bucket),
		projectID: projectID,
	}, nil
}

// NewWithClient creates a Store around an existing GCS client.
// This is primarily used for testing against a fake server.
func NewWithClient(client *gstorage.Client, bucket, projectID string) *Store {
	return &Store{
		client:    client,
		bucket:    client.Bucket(bucket),
		projectID: projectID,
	}
}

// Close releases the underlying client's resources.
func (s *Store) Close() error {
	return s.client.Close()
}

// PutObject implements storage.Client. The write is committed by Close, so
// failures surface there as well as during the copy.
func (s *Store) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return s.mapError("put", key, err)
	}
	if err := w.Close(); err != nil {
		return s.mapError("put", key, err)
	}
	return nil
}

// GetObject implements storage.Client. The caller owns the returned body and
// must close it.
func (s *Store) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.bucket.Object(key).NewReader(ctx)
	if err != nil {
		return nil, s.mapError("get", key, err)
	}
	return r, nil
}

// ListObjects implements storage.Lister.
func (s *Store) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	var query *gstorage.Query
	if prefix != "" {
		query = &gstorage.Query{Prefix: prefix}
	}

	var objects []storage.ObjectInfo
	it := s.bucket.Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if goerrors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, s.mapError("list", prefix, err)
		}
		objects = append(objects, storage.ObjectInfo{
			Key:          attrs.Name,
			Size:         attrs.Size,
			LastModified: attrs.Updated,
		})
	}
	return objects, nil
}

// ObjectExists implements storage.BucketManager via an attributes-only probe.
func (s *Store) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := s.bucket.Object(key).Attrs(ctx)
	if err != nil {
		if goerrors.Is(err, gstorage.ErrObjectNotExist) {
			return false, nil
		}
		return false, s.mapError("head", key, err)
	}
	return true, nil
}

// CreateBucket implements storage.BucketManager. Requires a project ID.
func (s *Store) CreateBucket(ctx context.Context) error {
	if s.projectID == "" {
		return errors.NewError("createBucket", errors.ErrInvalidInput).
			WithMessage("project ID required to create a bucket")
	}
	if err := s.bucket.Create(ctx, s.projectID, nil); err != nil {
		return s.mapError("createBucket", "", err)
	}
	return nil
}

// DeleteBucket implements storage.BucketManager. The bucket must be empty;
// use EmptyBucket first to clear it.
func (s *Store) DeleteBucket(ctx context.Context) error {
	if err := s.bucket.Delete(ctx); err != nil {
		return s.mapError("deleteBucket", "", err)
	}
	return nil
}

// EmptyBucket implements storage.BucketManager by deleting every object one
// at a time.
func (s *Store) EmptyBucket(ctx context.Context) error {
	objects, err := s.ListObjects(ctx, "")
	if err != nil {
		return err
	}
	for _, obj := range objects {
		if err := s.bucket.Object(obj.Key).Delete(ctx); err != nil {
			if goerrors.Is(err, gstorage.ErrObjectNotExist) {
				continue
			}
			return s.mapError("emptyBucket", obj.Key, err)
		}
	}
	return nil
}

// mapError classifies GCS SDK failures onto the module's sentinel errors.
func (s *Store) mapError(op, key string, err error) error {
	sentinel := classify(err)
	wrapped := errors.NewKeyError(op, key, sentinel)
	if key == "" {
		wrapped.Key = s.bucket.BucketName()
	}
	if sentinel != err {
		wrapped = wrapped.WithMessage(err.Error())
	}
	return wrapped
}

func classify(err error) error {
	if goerrors.Is(err, gstorage.ErrObjectNotExist) {
		return errors.ErrNotFound
	}
	if goerrors.Is(err, gstorage.ErrBucketNotExist) {
		return errors.ErrBucketNotFound
	}

	var apiErr *googleapi.Error
	if goerrors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 404:
			return errors.ErrNotFound
		case apiErr.Code == 403 || apiErr.Code == 401:
			return errors.ErrPermissionDenied
		case apiErr.Code == 409:
			return errors.ErrBucketAlreadyExists
		case apiErr.Code == 429 || apiErr.Code >= 500:
			return errors.ErrTransient
		}
	}
	return err
}
