package errors

import (
	goerrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFormatting(t *testing.T) {
	base := goerrors.New("boom")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "op only",
			err:  NewError("upload", base),
			want: "bulk.upload: boom",
		},
		{
			name: "with path",
			err:  NewPathError("upload", "/tmp/f.txt", base),
			want: "bulk.upload /tmp/f.txt: boom",
		},
		{
			name: "with key",
			err:  NewKeyError("download", "dir/f.txt", base),
			want: "bulk.download dir/f.txt: boom",
		},
		{
			name: "with path and key",
			err:  NewPathError("upload", "/tmp/f.txt", base).WithKey("dir/f.txt"),
			want: "bulk.upload /tmp/f.txt -> dir/f.txt: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	err := NewKeyError("get", "key", ErrNotFound)
	assert.True(t, goerrors.Is(err, ErrNotFound))

	wrapped := NewError("outer", err)
	assert.True(t, goerrors.Is(wrapped, ErrNotFound))
}

func TestWithMessageKeepsSentinel(t *testing.T) {
	err := NewKeyError("put", "key", ErrPermissionDenied).WithMessage("403 from service")
	require.True(t, goerrors.Is(err, ErrPermissionDenied))
	assert.Contains(t, err.Error(), "403 from service")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"nil", nil, FailureUnknown},
		{"not found", NewKeyError("get", "k", ErrNotFound), FailureNotFound},
		{"permission", NewKeyError("put", "k", ErrPermissionDenied), FailurePermissionDenied},
		{"transient", NewKeyError("put", "k", ErrTransient), FailureTransient},
		{"local io", NewPathError("upload", "/f", ErrLocalIO), FailureLocalIO},
		{"unclassified", goerrors.New("mystery"), FailureUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestIsHelpers(t *testing.T) {
	assert.True(t, IsNotFound(NewKeyError("get", "k", ErrNotFound)))
	assert.True(t, IsPermissionDenied(NewKeyError("put", "k", ErrPermissionDenied)))
	assert.True(t, IsTransient(NewKeyError("put", "k", ErrTransient)))
	assert.True(t, IsLocalIO(NewPathError("up", "/f", ErrLocalIO)))
	assert.True(t, IsDiscovery(NewPathError("expand", "/d", ErrDiscovery)))

	assert.False(t, IsNotFound(goerrors.New("other")))
	assert.False(t, IsDiscovery(nil))
}

func TestFailureKindString(t *testing.T) {
	assert.Equal(t, "not_found", FailureNotFound.String())
	assert.Equal(t, "permission_denied", FailurePermissionDenied.String())
	assert.Equal(t, "transient", FailureTransient.String())
	assert.Equal(t, "local_io", FailureLocalIO.String())
	assert.Equal(t, "unknown", FailureUnknown.String())
}
