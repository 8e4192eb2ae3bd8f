// Package expand discovers the set of local/remote path pairs for a bulk
// transfer. It walks local directory trees through the filesystem abstraction
// and derives remote keys by joining a storage prefix with each file's path
// relative to the walk root.
//
// Expansion happens entirely before scheduling: a bad root fails the whole
// bulk call up front rather than mid-batch.
package expand

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/cloudbulk/bulk/bulktypes"
	"github.com/cloudbulk/bulk/errors"
	"github.com/cloudbulk/bulk/internal/validation"
)

// Expander produces TransferPath values from directory walks or explicit
// caller-supplied lists.
type Expander struct {
	filesystem fs.Filesystem
}

// New creates an Expander on top of the given filesystem abstraction.
func New(filesystem fs.Filesystem) *Expander {
	return &Expander{filesystem: filesystem}
}

// ExpandDir walks localRoot and returns one TransferPath per regular file
// found, in walk order. The remote key for each file is prefix joined with
// the file's path relative to localRoot, separators normalized to "/".
// Empty directories contribute nothing. Directory symlinks are not descended
// by the walk, so a symlink cycle cannot revisit a subtree.
//
// Returns an error wrapping errors.ErrDiscovery if localRoot does not exist
// or cannot be read.
func (e *Expander) ExpandDir(ctx context.Context, localRoot, prefix string) ([]bulktypes.TransferPath, error) {
	info, err := e.filesystem.Stat(localRoot)
	if err != nil {
		return nil, errors.NewPathError("expandDir", localRoot, errors.ErrDiscovery).
			WithMessage(err.Error())
	}
	if !info.IsDir() {
		return nil, errors.NewPathError("expandDir", localRoot, errors.ErrDiscovery).
			WithMessage("root is not a directory")
	}

	prefix = normalizePrefix(prefix)

	var paths []bulktypes.TransferPath
	err = e.filesystem.Walk(localRoot, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel, err := filepath.Rel(localRoot, p)
		if err != nil {
			return err
		}

		paths = append(paths, bulktypes.TransferPath{
			LocalPath:   p,
			StoragePath: joinKey(prefix, filepath.ToSlash(rel)),
		})
		return nil
	})
	if err != nil {
		return nil, errors.NewPathError("expandDir", localRoot, errors.ErrDiscovery).
			WithMessage(err.Error())
	}

	return paths, nil
}

// ExpandObjects maps a listing of remote keys under prefix onto local paths
// below localRoot, preserving the key structure relative to the prefix. It is
// the download-side counterpart of ExpandDir.
//
// Object names are attacker-controlled from the local filesystem's point of
// view: a bucket may legally hold keys like "pre/../../evil.txt". Any key
// whose derived local path would land outside localRoot is skipped.
func (e *Expander) ExpandObjects(keys []string, prefix, localRoot string) []bulktypes.TransferPath {
	prefix = normalizePrefix(prefix)

	paths := make([]bulktypes.TransferPath, 0, len(keys))
	for _, key := range keys {
		if validation.ValidateStorageKey(key) != nil {
			continue
		}

		rel := strings.TrimPrefix(key, prefix)
		rel = strings.TrimPrefix(rel, "/")
		if rel == "" {
			// Placeholder objects named exactly like the prefix carry no file.
			continue
		}
		rel = path.Clean(rel)
		if rel == ".." || strings.HasPrefix(rel, "../") || path.IsAbs(rel) {
			continue
		}
		paths = append(paths, bulktypes.TransferPath{
			LocalPath:   filepath.Join(localRoot, filepath.FromSlash(rel)),
			StoragePath: key,
		})
	}
	return paths
}

// ValidateUploads checks an explicit upload list: every local path must exist
// and be a regular file, and every storage key must be syntactically valid.
// The returned paths are normalized.
func (e *Expander) ValidateUploads(paths []bulktypes.TransferPath) ([]bulktypes.TransferPath, error) {
	out := make([]bulktypes.TransferPath, 0, len(paths))
	for _, p := range paths {
		p = p.Normalize()
		if p.LocalPath == "" {
			return nil, errors.NewError("validateUploads", errors.ErrInvalidInput).
				WithMessage("local path cannot be empty")
		}
		info, err := e.filesystem.Stat(p.LocalPath)
		if err != nil {
			return nil, errors.NewPathError("validateUploads", p.LocalPath, errors.ErrDiscovery).
				WithMessage(err.Error())
		}
		if !info.Mode().IsRegular() {
			return nil, errors.NewPathError("validateUploads", p.LocalPath, errors.ErrDiscovery).
				WithMessage("not a regular file")
		}
		if err := validation.ValidateStorageKey(p.StoragePath); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ValidateDownloads checks an explicit download list: every storage key must
// be syntactically valid and every local path non-empty. The returned paths
// are normalized.
func (e *Expander) ValidateDownloads(paths []bulktypes.TransferPath) ([]bulktypes.TransferPath, error) {
	out := make([]bulktypes.TransferPath, 0, len(paths))
	for _, p := range paths {
		p = p.Normalize()
		if p.LocalPath == "" {
			return nil, errors.NewError("validateDownloads", errors.ErrInvalidInput).
				WithMessage("local path cannot be empty")
		}
		if err := validation.ValidateStorageKey(p.StoragePath); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// normalizePrefix cleans a storage prefix: slash separators, no leading
// slash, no trailing slash. An empty prefix stays empty.
func normalizePrefix(prefix string) string {
	prefix = filepath.ToSlash(prefix)
	prefix = strings.Trim(prefix, "/")
	return prefix
}

// joinKey joins a normalized prefix with a relative key.
func joinKey(prefix, rel string) string {
	if prefix == "" {
		return rel
	}
	return path.Join(prefix, rel)
}
