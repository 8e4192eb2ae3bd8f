package s3

import (
	"context"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// API defines the subset of S3 operations this backend uses.
// The interface allows mocking in tests.
type API interface {
	// PutObject uploads an object
	PutObject(
		ctx context.Context,
		params *awss3.PutObjectInput,
		optFns ...func(*awss3.Options),
	) (*awss3.PutObjectOutput, error)

	// GetObject retrieves an object
	GetObject(
		ctx context.Context,
		params *awss3.GetObjectInput,
		optFns ...func(*awss3.Options),
	) (*awss3.GetObjectOutput, error)

	// HeadObject retrieves object metadata without the body
	HeadObject(
		ctx context.Context,
		params *awss3.HeadObjectInput,
		optFns ...func(*awss3.Options),
	) (*awss3.HeadObjectOutput, error)

	// ListObjectsV2 lists objects in a bucket
	ListObjectsV2(
		ctx context.Context,
		params *awss3.ListObjectsV2Input,
		optFns ...func(*awss3.Options),
	) (*awss3.ListObjectsV2Output, error)

	// DeleteObjects deletes a batch of objects
	DeleteObjects(
		ctx context.Context,
		params *awss3.DeleteObjectsInput,
		optFns ...func(*awss3.Options),
	) (*awss3.DeleteObjectsOutput, error)

	// CreateBucket creates a bucket
	CreateBucket(
		ctx context.Context,
		params *awss3.CreateBucketInput,
		optFns ...func(*awss3.Options),
	) (*awss3.CreateBucketOutput, error)

	// DeleteBucket deletes a bucket
	DeleteBucket(
		ctx context.Context,
		params *awss3.DeleteBucketInput,
		optFns ...func(*awss3.Options),
	) (*awss3.DeleteBucketOutput, error)
}

// Verify that the AWS S3 client implements our interface
var _ API = (*awss3.Client)(nil)
