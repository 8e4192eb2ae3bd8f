//go:build integration

package bulk

import (
	"context"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudbulk/bulk/internal/testutil"
)

// TestBulkTransferAgainstLocalStack exercises the full path through the real
// S3 backend: directory upload, listing, prefix download, and bucket
// lifecycle. Run with:
//
//	go test -tags integration ./...
func TestBulkTransferAgainstLocalStack(t *testing.T) {
	store, cleanup := testutil.SetupLocalStackStore(t, "bulk-integration")
	defer cleanup()

	ctx := context.Background()

	memFS := billy.NewInMemoryFS()
	files := map[string][]byte{
		"a.txt":     []byte("alpha"),
		"sub/b.txt": []byte("bravo"),
		"sub/c.bin": {0x00, 0x01, 0x02, 0x03},
	}
	testutil.WriteTree(t, memFS, "src", files)

	orch, err := New(store, WithFilesystem(memFS), WithConcurrency(4))
	require.NoError(t, err)

	result, err := orch.UploadDir(ctx, "src", "data")
	require.NoError(t, err)
	require.Equal(t, 3, result.Succeeded)
	require.Equal(t, 0, result.Failed)

	objects, err := store.ListObjects(ctx, "data")
	require.NoError(t, err)
	assert.Len(t, objects, 3)

	exists, err := store.ObjectExists(ctx, "data/sub/b.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	result, err = orch.DownloadDir(ctx, "data", "restore")
	require.NoError(t, err)
	require.Equal(t, 3, result.Succeeded)

	restored := testutil.ReadTree(t, memFS, "restore", []string{"a.txt", "sub/b.txt", "sub/c.bin"})
	assert.Equal(t, files, restored)

	require.NoError(t, store.EmptyBucket(ctx))
	objects, err = store.ListObjects(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, objects)

	require.NoError(t, store.DeleteBucket(ctx))
}
