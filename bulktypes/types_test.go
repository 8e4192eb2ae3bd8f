package bulktypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferPathNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   TransferPath
		want string
	}{
		{"plain key", TransferPath{LocalPath: "f", StoragePath: "dir/key"}, "dir/key"},
		{"leading slash stripped", TransferPath{LocalPath: "f", StoragePath: "/dir/key"}, "dir/key"},
		{"repeated leading slashes stripped", TransferPath{LocalPath: "f", StoragePath: "//a/b"}, "a/b"},
		{"all leading slashes stripped", TransferPath{LocalPath: "f", StoragePath: "///key"}, "key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.want, got.StoragePath)
			assert.Equal(t, tt.in.LocalPath, got.LocalPath)
		})
	}
}

func TestTransferPathValidate(t *testing.T) {
	require.NoError(t, TransferPath{LocalPath: "a", StoragePath: "b"}.Validate())
	require.Error(t, TransferPath{LocalPath: "", StoragePath: "b"}.Validate())
	require.Error(t, TransferPath{LocalPath: "a", StoragePath: ""}.Validate())
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "upload", DirectionUpload.String())
	assert.Equal(t, "download", DirectionDownload.String())
	assert.Equal(t, "unknown", Direction(9).String())
}

func TestSchedulerKindString(t *testing.T) {
	assert.Equal(t, "worker_pool", SchedulerWorkerPool.String())
	assert.Equal(t, "gate", SchedulerGate.String())
	assert.Equal(t, "unknown", SchedulerKind(9).String())
}

func TestOutcomeSucceeded(t *testing.T) {
	assert.True(t, TransferOutcome{}.Succeeded())
	assert.False(t, TransferOutcome{Err: assert.AnError}.Succeeded())
}
