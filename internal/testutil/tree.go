package testutil

import (
	"path/filepath"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/stretchr/testify/require"
)

// WriteTree materializes a file tree on the given filesystem. Keys are
// slash-separated paths relative to root; values are file contents.
// Intermediate directories are created as needed.
func WriteTree(t *testing.T, filesystem fs.Filesystem, root string, files map[string][]byte) {
	t.Helper()

	require.NoError(t, filesystem.MkdirAll(root, 0o755))
	for rel, data := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, filesystem.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, filesystem.WriteFile(full, data, 0o644))
	}
}

// ReadTree reads every given relative path under root and returns the
// contents keyed the same way, failing the test on any read error.
func ReadTree(t *testing.T, filesystem fs.Filesystem, root string, rels []string) map[string][]byte {
	t.Helper()

	out := make(map[string][]byte, len(rels))
	for _, rel := range rels {
		data, err := filesystem.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		require.NoError(t, err)
		out[rel] = data
	}
	return out
}
