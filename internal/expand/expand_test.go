package expand

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudbulk/bulk/bulktypes"
	"github.com/cloudbulk/bulk/errors"
)

func TestExpandDir(t *testing.T) {
	t.Run("one path per regular file", func(t *testing.T) {
		memFS := billy.NewInMemoryFS()
		require.NoError(t, memFS.MkdirAll("data/sub/deep", 0o755))
		require.NoError(t, memFS.WriteFile("data/a.txt", []byte("a"), 0o644))
		require.NoError(t, memFS.WriteFile("data/sub/b.txt", []byte("b"), 0o644))
		require.NoError(t, memFS.WriteFile("data/sub/deep/c.bin", []byte("c"), 0o644))

		expander := New(memFS)
		paths, err := expander.ExpandDir(context.Background(), "data", "backup")
		require.NoError(t, err)
		require.Len(t, paths, 3)

		keys := make(map[string]string, len(paths))
		for _, p := range paths {
			keys[p.StoragePath] = p.LocalPath
		}
		assert.Contains(t, keys, "backup/a.txt")
		assert.Contains(t, keys, "backup/sub/b.txt")
		assert.Contains(t, keys, "backup/sub/deep/c.bin")
	})

	t.Run("empty directory yields no paths", func(t *testing.T) {
		memFS := billy.NewInMemoryFS()
		require.NoError(t, memFS.MkdirAll("empty", 0o755))

		expander := New(memFS)
		paths, err := expander.ExpandDir(context.Background(), "empty", "pre")
		require.NoError(t, err)
		assert.Empty(t, paths)
	})

	t.Run("missing root fails discovery", func(t *testing.T) {
		expander := New(billy.NewInMemoryFS())
		_, err := expander.ExpandDir(context.Background(), "nowhere", "pre")
		require.Error(t, err)
		assert.True(t, errors.IsDiscovery(err))
	})

	t.Run("file root fails discovery", func(t *testing.T) {
		memFS := billy.NewInMemoryFS()
		require.NoError(t, memFS.WriteFile("plain.txt", []byte("x"), 0o644))

		expander := New(memFS)
		_, err := expander.ExpandDir(context.Background(), "plain.txt", "pre")
		require.Error(t, err)
		assert.True(t, errors.IsDiscovery(err))
	})

	t.Run("prefix is normalized", func(t *testing.T) {
		memFS := billy.NewInMemoryFS()
		require.NoError(t, memFS.MkdirAll("data", 0o755))
		require.NoError(t, memFS.WriteFile("data/a.txt", []byte("a"), 0o644))

		expander := New(memFS)
		paths, err := expander.ExpandDir(context.Background(), "data", "/pre/fix/")
		require.NoError(t, err)
		require.Len(t, paths, 1)
		assert.Equal(t, "pre/fix/a.txt", paths[0].StoragePath)
	})

	t.Run("empty prefix keeps bare relative keys", func(t *testing.T) {
		memFS := billy.NewInMemoryFS()
		require.NoError(t, memFS.MkdirAll("data/sub", 0o755))
		require.NoError(t, memFS.WriteFile("data/sub/x.txt", []byte("x"), 0o644))

		expander := New(memFS)
		paths, err := expander.ExpandDir(context.Background(), "data", "")
		require.NoError(t, err)
		require.Len(t, paths, 1)
		assert.Equal(t, "sub/x.txt", paths[0].StoragePath)
	})

	t.Run("cancelled context aborts the walk", func(t *testing.T) {
		memFS := billy.NewInMemoryFS()
		require.NoError(t, memFS.MkdirAll("data", 0o755))
		require.NoError(t, memFS.WriteFile("data/a.txt", []byte("a"), 0o644))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		expander := New(memFS)
		_, err := expander.ExpandDir(ctx, "data", "pre")
		require.Error(t, err)
		assert.True(t, errors.IsDiscovery(err))
	})
}

func TestExpandObjects(t *testing.T) {
	expander := New(billy.NewInMemoryFS())

	t.Run("maps keys below the prefix", func(t *testing.T) {
		paths := expander.ExpandObjects(
			[]string{"pre/a.txt", "pre/sub/b.txt"},
			"pre", "local",
		)
		require.Len(t, paths, 2)
		assert.Equal(t, "pre/a.txt", paths[0].StoragePath)
		assert.Equal(t, "pre/sub/b.txt", paths[1].StoragePath)
		assert.Contains(t, paths[0].LocalPath, "a.txt")
		assert.Contains(t, paths[1].LocalPath, "b.txt")
	})

	t.Run("skips placeholder objects named like the prefix", func(t *testing.T) {
		paths := expander.ExpandObjects([]string{"pre", "pre/a.txt"}, "pre", "local")
		require.Len(t, paths, 1)
		assert.Equal(t, "pre/a.txt", paths[0].StoragePath)
	})

	t.Run("empty prefix maps whole keys", func(t *testing.T) {
		paths := expander.ExpandObjects([]string{"sub/x.txt"}, "", "local")
		require.Len(t, paths, 1)
		assert.Equal(t, "sub/x.txt", paths[0].StoragePath)
	})

	t.Run("skips keys that would escape the local root", func(t *testing.T) {
		paths := expander.ExpandObjects([]string{
			"pre/../../evil.txt",
			"pre/sub/../../../evil.txt",
			"pre/..",
			"/etc/passwd",
			"pre/safe.txt",
		}, "pre", "out")

		require.Len(t, paths, 1)
		assert.Equal(t, "pre/safe.txt", paths[0].StoragePath)
		for _, p := range paths {
			assert.True(t, strings.HasPrefix(p.LocalPath, "out"+string(filepath.Separator)),
				"local path %q escapes the root", p.LocalPath)
		}
	})
}

func TestValidateUploads(t *testing.T) {
	memFS := billy.NewInMemoryFS()
	require.NoError(t, memFS.MkdirAll("dir", 0o755))
	require.NoError(t, memFS.WriteFile("dir/file.txt", []byte("x"), 0o644))

	expander := New(memFS)

	t.Run("accepts existing regular files", func(t *testing.T) {
		paths, err := expander.ValidateUploads([]bulktypes.TransferPath{
			{LocalPath: "dir/file.txt", StoragePath: "/key.txt"},
		})
		require.NoError(t, err)
		require.Len(t, paths, 1)
		assert.Equal(t, "key.txt", paths[0].StoragePath)
	})

	t.Run("rejects missing files", func(t *testing.T) {
		_, err := expander.ValidateUploads([]bulktypes.TransferPath{
			{LocalPath: "dir/missing.txt", StoragePath: "key"},
		})
		require.Error(t, err)
		assert.True(t, errors.IsDiscovery(err))
	})

	t.Run("rejects directories", func(t *testing.T) {
		_, err := expander.ValidateUploads([]bulktypes.TransferPath{
			{LocalPath: "dir", StoragePath: "key"},
		})
		require.Error(t, err)
		assert.True(t, errors.IsDiscovery(err))
	})

	t.Run("rejects traversal keys", func(t *testing.T) {
		_, err := expander.ValidateUploads([]bulktypes.TransferPath{
			{LocalPath: "dir/file.txt", StoragePath: "../escape"},
		})
		require.Error(t, err)
	})

	t.Run("rejects empty local path", func(t *testing.T) {
		_, err := expander.ValidateUploads([]bulktypes.TransferPath{
			{LocalPath: "", StoragePath: "key"},
		})
		require.Error(t, err)
	})
}

func TestValidateDownloads(t *testing.T) {
	expander := New(billy.NewInMemoryFS())

	t.Run("accepts well-formed pairs", func(t *testing.T) {
		paths, err := expander.ValidateDownloads([]bulktypes.TransferPath{
			{LocalPath: "out/file.txt", StoragePath: "key.txt"},
		})
		require.NoError(t, err)
		require.Len(t, paths, 1)
	})

	t.Run("rejects empty key", func(t *testing.T) {
		_, err := expander.ValidateDownloads([]bulktypes.TransferPath{
			{LocalPath: "out/file.txt", StoragePath: ""},
		})
		require.Error(t, err)
	})

	t.Run("rejects empty local path", func(t *testing.T) {
		_, err := expander.ValidateDownloads([]bulktypes.TransferPath{
			{LocalPath: "", StoragePath: "key.txt"},
		})
		require.Error(t, err)
	})
}
