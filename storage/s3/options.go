package s3

import "github.com/aws/aws-sdk-go-v2/aws"

// storeConfig holds S3 store configuration built by functional options.
type storeConfig struct {
	region          string
	endpoint        string
	pathStyle       bool
	accessKey       string
	secretKey       string
	maxRetries      int
	transferManager bool
	partSize        int64
	awsConfig       *aws.Config
}

// Option configures the S3 store.
type Option func(*storeConfig)

// WithRegion sets the AWS region. Defaults to the credential chain's region,
// falling back to us-east-1.
func WithRegion(region string) Option {
	return func(cfg *storeConfig) {
		cfg.region = region
	}
}

// WithEndpoint points the store at an S3-compatible endpoint such as MinIO
// or LocalStack. Usually combined with WithPathStyle(true).
func WithEndpoint(endpoint string) Option {
	return func(cfg *storeConfig) {
		cfg.endpoint = endpoint
	}
}

// WithPathStyle forces path-style addressing (endpoint/bucket/key) instead
// of virtual-hosted style. Required by most S3-compatible servers.
func WithPathStyle(enabled bool) Option {
	return func(cfg *storeConfig) {
		cfg.pathStyle = enabled
	}
}

// WithCredentials sets static credentials, bypassing the default chain.
func WithCredentials(accessKey, secretKey string) Option {
	return func(cfg *storeConfig) {
		cfg.accessKey = accessKey
		cfg.secretKey = secretKey
	}
}

// WithMaxRetries sets the SDK retry budget for each request.
func WithMaxRetries(n int) Option {
	return func(cfg *storeConfig) {
		cfg.maxRetries = n
	}
}

// WithTransferManager enables the SDK transfer manager for uploads, which
// splits large objects into concurrent multipart uploads. partSize <= 0
// keeps the SDK default.
func WithTransferManager(partSize int64) Option {
	return func(cfg *storeConfig) {
		cfg.transferManager = true
		cfg.partSize = partSize
	}
}

// WithAWSConfig supplies a fully built AWS configuration, skipping the
// default credential chain entirely.
func WithAWSConfig(awsCfg aws.Config) Option {
	return func(cfg *storeConfig) {
		cfg.awsConfig = &awsCfg
	}
}
