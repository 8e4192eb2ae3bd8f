// Package azure implements the storage capabilities against Azure Blob
// Storage. A Store is bound to a single container; keys passed to its
// methods are container-relative blob names.
package azure

import (
	"context"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/cloudbulk/bulk/errors"
	"github.com/cloudbulk/bulk/storage"
)

// Store is an Azure Blob implementation of storage.Store. It is safe for
// concurrent use.
type Store struct {
	client    *azblob.Client
	container string
}

// Compile-time capability checks.
var (
	_ storage.Client        = (*Store)(nil)
	_ storage.Lister        = (*Store)(nil)
	_ storage.BucketManager = (*Store)(nil)
	_ storage.Store         = (*Store)(nil)
)

// New creates a Store bound to the given container using an account
// connection string.
//
// Example:
//
//	store, err := azure.New(os.Getenv("AZURE_STORAGE_CONNECTION_STRING"), "my-container")
func New(connectionString, container string) (*Store, error) {
	if container == "" {
		return nil, errors.NewError("azure.new", errors.ErrInvalidInput).
			WithMessage("container name cannot be empty")
	}

	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, errors.NewError("azure.new", err)
	}
	return &Store{client: client, container: container}, nil
}

// NewWithSharedKey creates a Store using an account name and shared key.
func NewWithSharedKey(serviceURL, accountName, accountKey, container string) (*Store, error) {
	if container == "" {
		return nil, errors.NewError("azure.new", errors.ErrInvalidInput).
			WithMessage("container name cannot be empty")
	}

	cred, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, errors.NewError("azure.new", err)
	}
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, cred, nil)
	if err != nil {
		return nil, errors.NewError("azure.new", err)
	}
	return &Store{client: client, container: container}, nil
}

// NewWithClient creates a Store around an existing azblob client.
// This is primarily used for testing.
func NewWithClient(client *azblob.Client, container string) *Store {
	return &Store{client: client, container: container}
}

// PutObject implements storage.Client via a streaming block blob upload.
func (s *Store) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.client.UploadStream(ctx, s.container, key, body, &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	})
	if err != nil {
		return s.mapError("put", key, err)
	}
	return nil
}

// GetObject implements storage.Client. The caller owns the returned body and
// must close it.
func (s *Store) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, key, nil)
	if err != nil {
		return nil, s.mapError("get", key, err)
	}
	return resp.Body, nil
}

// ListObjects implements storage.Lister with a flat listing under prefix.
func (s *Store) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	opts := &azblob.ListBlobsFlatOptions{}
	if prefix != "" {
		opts.Prefix = &prefix
	}

	var objects []storage.ObjectInfo
	pager := s.client.NewListBlobsFlatPager(s.container, opts)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, s.mapError("list", prefix, err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			info := storage.ObjectInfo{Key: *item.Name}
			if item.Properties != nil {
				if item.Properties.ContentLength != nil {
					info.Size = *item.Properties.ContentLength
				}
				if item.Properties.LastModified != nil {
					info.LastModified = *item.Properties.LastModified
				}
			}
			objects = append(objects, info)
		}
	}
	return objects, nil
}

// ObjectExists implements storage.BucketManager via a properties-only probe.
func (s *Store) ObjectExists(ctx context.Context, key string) (bool, error) {
	blobClient := s.client.ServiceClient().NewContainerClient(s.container).NewBlobClient(key)
	_, err := blobClient.GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, s.mapError("head", key, err)
	}
	return true, nil
}

// CreateBucket implements storage.BucketManager by creating the container.
func (s *Store) CreateBucket(ctx context.Context) error {
	if _, err := s.client.CreateContainer(ctx, s.container, nil); err != nil {
		return s.mapError("createBucket", "", err)
	}
	return nil
}

// DeleteBucket implements storage.BucketManager by deleting the container
// and everything in it.
func (s *Store) DeleteBucket(ctx context.Context) error {
	if _, err := s.client.DeleteContainer(ctx, s.container, nil); err != nil {
		return s.mapError("deleteBucket", "", err)
	}
	return nil
}

// EmptyBucket implements storage.BucketManager by deleting every blob in the
// container one at a time. Azure has no batch delete on this client surface.
func (s *Store) EmptyBucket(ctx context.Context) error {
	objects, err := s.ListObjects(ctx, "")
	if err != nil {
		return err
	}
	for _, obj := range objects {
		if _, err := s.client.DeleteBlob(ctx, s.container, obj.Key, nil); err != nil {
			if bloberror.HasCode(err, bloberror.BlobNotFound) {
				continue
			}
			return s.mapError("emptyBucket", obj.Key, err)
		}
	}
	return nil
}

// mapError classifies Azure SDK failures onto the module's sentinel errors.
func (s *Store) mapError(op, key string, err error) error {
	sentinel := classify(err)
	wrapped := errors.NewKeyError(op, key, sentinel)
	if key == "" {
		wrapped.Key = s.container
	}
	if sentinel != err {
		wrapped = wrapped.WithMessage(err.Error())
	}
	return wrapped
}

func classify(err error) error {
	switch {
	case bloberror.HasCode(err, bloberror.BlobNotFound):
		return errors.ErrNotFound
	case bloberror.HasCode(err, bloberror.ContainerNotFound):
		return errors.ErrBucketNotFound
	case bloberror.HasCode(err, bloberror.ContainerAlreadyExists):
		return errors.ErrBucketAlreadyExists
	case bloberror.HasCode(err,
		bloberror.AuthenticationFailed,
		bloberror.AuthorizationFailure,
		bloberror.InsufficientAccountPermissions):
		return errors.ErrPermissionDenied
	case bloberror.HasCode(err,
		bloberror.ServerBusy,
		bloberror.InternalError,
		bloberror.OperationTimedOut):
		return errors.ErrTransient
	default:
		return err
	}
}
