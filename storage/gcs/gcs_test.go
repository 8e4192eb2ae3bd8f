package gcs

import (
	"context"
	"testing"

	gstorage "cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/cloudbulk/bulk/errors"
)

func TestNewRejectsEmptyBucket(t *testing.T) {
	_, err := New(context.Background(), "", "project")
	require.Error(t, err)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"object not exist", gstorage.ErrObjectNotExist, errors.ErrNotFound},
		{"bucket not exist", gstorage.ErrBucketNotExist, errors.ErrBucketNotFound},
		{"forbidden", &googleapi.Error{Code: 403}, errors.ErrPermissionDenied},
		{"not found status", &googleapi.Error{Code: 404}, errors.ErrNotFound},
		{"conflict", &googleapi.Error{Code: 409}, errors.ErrBucketAlreadyExists},
		{"rate limited", &googleapi.Error{Code: 429}, errors.ErrTransient},
		{"server error", &googleapi.Error{Code: 503}, errors.ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.err))
		})
	}

	t.Run("passthrough", func(t *testing.T) {
		assert.Equal(t, assert.AnError, classify(assert.AnError))
	})
}
