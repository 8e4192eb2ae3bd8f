// Package cli implements the bulk command-line tool: backend selection from
// environment configuration, structured logging, and cobra commands for
// directory transfers and bucket lifecycle management.
package cli

import (
	"context"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"google.golang.org/api/option"

	"github.com/cloudbulk/bulk/errors"
	"github.com/cloudbulk/bulk/storage"
	"github.com/cloudbulk/bulk/storage/azure"
	"github.com/cloudbulk/bulk/storage/gcs"
	"github.com/cloudbulk/bulk/storage/s3"
)

// Backend names accepted in BULK_BACKEND.
const (
	BackendS3    = "s3"
	BackendAzure = "azure"
	BackendGCS   = "gcs"
)

// Config holds tool configuration loaded from a .env file or the process
// environment. Environment variables win over the .env file.
type Config struct {
	Backend     string
	Bucket      string
	Concurrency int

	// S3 / S3-compatible
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
	S3PathStyle bool

	// Azure Blob
	AzureConnectionString string

	// Google Cloud Storage
	GCSProjectID       string
	GCSCredentialsFile string

	// Logging
	LogFile  string
	LogLevel string
}

// LoadConfig reads configuration from .env and the environment. A missing
// .env file is not an error.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Backend:     getEnv("BULK_BACKEND", BackendS3),
		Bucket:      getEnv("BULK_BUCKET", ""),
		Concurrency: getEnvInt("BULK_CONCURRENCY", 0),

		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3Region:    getEnv("S3_REGION", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3PathStyle: getEnvBool("S3_PATH_STYLE", false),

		AzureConnectionString: getEnv("AZURE_STORAGE_CONNECTION_STRING", ""),

		GCSProjectID:       getEnv("GCS_PROJECT_ID", ""),
		GCSCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),

		LogFile:  getEnv("BULK_LOG_FILE", ""),
		LogLevel: getEnv("BULK_LOG_LEVEL", "info"),
	}
}

// NewStore builds the storage backend named by the configuration.
func (c *Config) NewStore(ctx context.Context, bucket string) (storage.Store, error) {
	if bucket == "" {
		bucket = c.Bucket
	}
	if bucket == "" {
		return nil, errors.NewError("config", errors.ErrInvalidInput).
			WithMessage("no bucket configured; set BULK_BUCKET or pass --bucket")
	}

	switch c.Backend {
	case BackendS3:
		var opts []s3.Option
		if c.S3Endpoint != "" {
			opts = append(opts, s3.WithEndpoint(c.S3Endpoint))
		}
		if c.S3Region != "" {
			opts = append(opts, s3.WithRegion(c.S3Region))
		}
		if c.S3AccessKey != "" {
			opts = append(opts, s3.WithCredentials(c.S3AccessKey, c.S3SecretKey))
		}
		if c.S3PathStyle {
			opts = append(opts, s3.WithPathStyle(true))
		}
		return s3.New(ctx, bucket, opts...)

	case BackendAzure:
		return azure.New(c.AzureConnectionString, bucket)

	case BackendGCS:
		var opts []option.ClientOption
		if c.GCSCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(c.GCSCredentialsFile))
		}
		return gcs.New(ctx, bucket, c.GCSProjectID, opts...)

	default:
		return nil, errors.NewError("config", errors.ErrInvalidInput).
			WithMessage("unknown backend " + c.Backend)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
