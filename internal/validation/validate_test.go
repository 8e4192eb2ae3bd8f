package validation

import (
	goerrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudbulk/bulk/errors"
)

func TestValidateStorageKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"simple key", "file.txt", false},
		{"nested key", "dir/sub/file.txt", false},
		{"unicode key", "ドキュメント/ファイル.txt", false},
		{"max length key", strings.Repeat("a", MaxKeyLength), false},
		{"empty key", "", true},
		{"too long key", strings.Repeat("a", MaxKeyLength+1), true},
		{"traversal", "dir/../../etc/passwd", true},
		{"leading slash", "/absolute", true},
		{"windows absolute", `C:\windows\system32`, true},
		{"control character", "file\x00.txt", true},
		{"newline", "file\n.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStorageKey(tt.key)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, goerrors.Is(err, errors.ErrInvalidInput))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateConcurrency(t *testing.T) {
	assert.NoError(t, ValidateConcurrency(1))
	assert.NoError(t, ValidateConcurrency(100))

	for _, n := range []int{0, -1, -50} {
		err := ValidateConcurrency(n)
		require.Error(t, err)
		assert.True(t, goerrors.Is(err, errors.ErrInvalidConcurrency))
	}
}
