// Package s3 implements the storage capabilities against Amazon S3 and
// S3-compatible services such as MinIO and LocalStack. A Store is bound to a
// single bucket; keys passed to its methods are bucket-relative.
package s3

import (
	"context"
	goerrors "errors"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/cloudbulk/bulk/errors"
	"github.com/cloudbulk/bulk/storage"
)

// deleteBatchSize is the S3 limit on keys per DeleteObjects request.
const deleteBatchSize = 1000

// Store is an S3-backed implementation of storage.Store. It is safe for
// concurrent use; the underlying SDK client multiplexes connections.
type Store struct {
	api    API
	bucket string
	region string

	// uploader is non-nil when the transfer-manager fast path is enabled;
	// it switches large puts to concurrent multipart uploads.
	uploader *manager.Uploader
}

// Compile-time capability checks.
var (
	_ storage.Client        = (*Store)(nil)
	_ storage.Lister        = (*Store)(nil)
	_ storage.BucketManager = (*Store)(nil)
	_ storage.Store         = (*Store)(nil)
)

// New creates a Store bound to the given bucket. Credentials come from the
// default AWS credential chain unless overridden by options.
//
// Example:
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithEndpoint("http://localhost:9000"),
//	    s3.WithPathStyle(true),
//	    s3.WithCredentials("minioadmin", "minioadmin"),
//	)
func New(ctx context.Context, bucket string, opts ...Option) (*Store, error) {
	if bucket == "" {
		return nil, errors.NewError("s3.new", errors.ErrInvalidInput).
			WithMessage("bucket name cannot be empty")
	}

	cfg := &storeConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	awsCfg, err := loadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, errors.NewError("s3.new", err)
	}

	var s3Opts []func(*awss3.Options)
	if cfg.endpoint != "" {
		s3Opts = append(s3Opts, func(o *awss3.Options) {
			o.BaseEndpoint = aws.String(cfg.endpoint)
		})
	}
	if cfg.pathStyle {
		s3Opts = append(s3Opts, func(o *awss3.Options) {
			o.UsePathStyle = true
		})
	}

	client := awss3.NewFromConfig(awsCfg, s3Opts...)

	store := &Store{
		api:    client,
		bucket: bucket,
		region: awsCfg.Region,
	}
	if cfg.transferManager {
		store.uploader = manager.NewUploader(client, func(u *manager.Uploader) {
			if cfg.partSize > 0 {
				u.PartSize = cfg.partSize
			}
		})
	}

	return store, nil
}

// NewWithAPI creates a Store around an existing API implementation.
// This is primarily used for testing with mocked clients.
func NewWithAPI(api API, bucket string) *Store {
	return &Store{
		api:    api,
		bucket: bucket,
		region: "us-east-1",
	}
}

func loadAWSConfig(ctx context.Context, cfg *storeConfig) (aws.Config, error) {
	if cfg.awsConfig != nil {
		return *cfg.awsConfig, nil
	}

	var loadOpts []func(*config.LoadOptions) error
	if cfg.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.region))
	}
	if cfg.accessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.accessKey, cfg.secretKey, ""),
		))
	}
	if cfg.maxRetries > 0 {
		loadOpts = append(loadOpts, config.WithRetryMaxAttempts(cfg.maxRetries))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, err
	}
	if awsCfg.Region == "" {
		awsCfg.Region = "us-east-1"
	}
	return awsCfg, nil
}

// PutObject implements storage.Client.
func (s *Store) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if s.uploader != nil {
		_, err := s.uploader.Upload(ctx, &awss3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        body,
			ContentType: aws.String(contentType),
		})
		if err != nil {
			return s.mapError("put", key, err)
		}
		return nil
	}

	_, err := s.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return s.mapError("put", key, err)
	}
	return nil
}

// GetObject implements storage.Client. The caller owns the returned body and
// must close it.
func (s *Store) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.api.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, s.mapError("get", key, err)
	}
	return out.Body, nil
}

// ListObjects implements storage.Lister. It pages through the full listing
// under prefix and returns every object.
func (s *Store) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	input := &awss3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var objects []storage.ObjectInfo
	paginator := awss3.NewListObjectsV2Paginator(s.api, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, s.mapError("list", prefix, err)
		}
		for _, obj := range page.Contents {
			info := storage.ObjectInfo{
				Key:  aws.ToString(obj.Key),
				Size: aws.ToInt64(obj.Size),
			}
			if obj.LastModified != nil {
				info.LastModified = *obj.LastModified
			}
			objects = append(objects, info)
		}
	}
	return objects, nil
}

// ObjectExists implements storage.BucketManager via a metadata-only head
// request.
func (s *Store) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := s.api.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		mapped := s.mapError("head", key, err)
		if errors.IsNotFound(mapped) {
			return false, nil
		}
		return false, mapped
	}
	return true, nil
}

// CreateBucket implements storage.BucketManager.
func (s *Store) CreateBucket(ctx context.Context) error {
	input := &awss3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	}
	// us-east-1 rejects an explicit location constraint.
	if s.region != "" && s.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}

	if _, err := s.api.CreateBucket(ctx, input); err != nil {
		return s.mapError("createBucket", "", err)
	}
	return nil
}

// DeleteBucket implements storage.BucketManager. The bucket must be empty;
// use EmptyBucket first to clear it.
func (s *Store) DeleteBucket(ctx context.Context) error {
	if _, err := s.api.DeleteBucket(ctx, &awss3.DeleteBucketInput{
		Bucket: aws.String(s.bucket),
	}); err != nil {
		return s.mapError("deleteBucket", "", err)
	}
	return nil
}

// EmptyBucket implements storage.BucketManager. It lists every object and
// deletes them in batches of up to 1000 keys per request.
func (s *Store) EmptyBucket(ctx context.Context) error {
	objects, err := s.ListObjects(ctx, "")
	if err != nil {
		return err
	}

	for start := 0; start < len(objects); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(objects) {
			end = len(objects)
		}

		identifiers := make([]types.ObjectIdentifier, 0, end-start)
		for _, obj := range objects[start:end] {
			identifiers = append(identifiers, types.ObjectIdentifier{
				Key: aws.String(obj.Key),
			})
		}

		out, err := s.api.DeleteObjects(ctx, &awss3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: identifiers,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return s.mapError("emptyBucket", "", err)
		}
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return errors.NewKeyError("emptyBucket", aws.ToString(first.Key), errors.ErrTransient).
				WithMessage(aws.ToString(first.Message))
		}
	}
	return nil
}

// mapError classifies SDK failures onto the module's sentinel errors so
// callers can match with errors.Is instead of inspecting S3 error codes.
func (s *Store) mapError(op, key string, err error) error {
	sentinel := classify(err)
	wrapped := errors.NewKeyError(op, key, sentinel)
	if key == "" {
		wrapped.Key = s.bucket
	}
	if sentinel != err {
		wrapped = wrapped.WithMessage(err.Error())
	}
	return wrapped
}

func classify(err error) error {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if goerrors.As(err, &noSuchKey) || goerrors.As(err, &notFound) {
		return errors.ErrNotFound
	}
	var noSuchBucket *types.NoSuchBucket
	if goerrors.As(err, &noSuchBucket) {
		return errors.ErrBucketNotFound
	}
	var owned *types.BucketAlreadyOwnedByYou
	var exists *types.BucketAlreadyExists
	if goerrors.As(err, &owned) || goerrors.As(err, &exists) {
		return errors.ErrBucketAlreadyExists
	}

	var apiErr smithy.APIError
	if goerrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "404":
			return errors.ErrNotFound
		case "NoSuchBucket":
			return errors.ErrBucketNotFound
		case "BucketAlreadyExists", "BucketAlreadyOwnedByYou":
			return errors.ErrBucketAlreadyExists
		case "AccessDenied", "Forbidden", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return errors.ErrPermissionDenied
		case "SlowDown", "RequestTimeout", "InternalError", "ServiceUnavailable", "Throttling", "ThrottlingException":
			return errors.ErrTransient
		}
	}

	// Fall back to message inspection for servers that return bare codes.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "NoSuchKey") || strings.Contains(msg, "NotFound"):
		return errors.ErrNotFound
	case strings.Contains(msg, "AccessDenied"):
		return errors.ErrPermissionDenied
	default:
		return err
	}
}
