// Package executor performs single-unit transfers against the storage client
// capability. It owns the conversion of every per-unit failure, local or
// remote, into a failed TransferOutcome: no error escapes an execution as a
// panic or a returned error, so one bad file can never abort a batch.
//
// The executor performs no retries. Retry policy belongs to callers that
// resubmit paths; this is a deliberate design decision, not an omission.
package executor

import (
	"context"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/cloudbulk/bulk/bulktypes"
	"github.com/cloudbulk/bulk/errors"
	"github.com/cloudbulk/bulk/storage"
)

// DefaultContentType is used when content sniffing and extension lookup both
// come up empty.
const DefaultContentType = "application/octet-stream"

// Executor transfers one unit at a time between the local filesystem and the
// storage client. It is safe for concurrent use; all mutable state lives in
// the per-call stack.
type Executor struct {
	client     storage.Client
	filesystem fs.Filesystem
}

// New creates an Executor bound to the given storage client and filesystem.
func New(client storage.Client, filesystem fs.Filesystem) *Executor {
	return &Executor{
		client:     client,
		filesystem: filesystem,
	}
}

// Execute performs the transfer for one unit and returns its outcome.
// It never returns an outcome with a nil unit reference, and it produces
// exactly one outcome per call.
func (e *Executor) Execute(ctx context.Context, unit bulktypes.TransferUnit) bulktypes.TransferOutcome {
	start := time.Now()

	var bytes int64
	var err error
	switch unit.Direction {
	case bulktypes.DirectionUpload:
		bytes, err = e.upload(ctx, unit.Path)
	case bulktypes.DirectionDownload:
		bytes, err = e.download(ctx, unit.Path)
	default:
		err = errors.NewError("execute", errors.ErrInvalidInput).
			WithMessage("unknown transfer direction")
	}

	return bulktypes.TransferOutcome{
		Unit:     unit,
		Err:      err,
		Bytes:    bytes,
		Duration: time.Since(start),
	}
}

// upload reads the local file and hands it to the storage client's put
// capability. Local read failures classify as ErrLocalIO.
func (e *Executor) upload(ctx context.Context, p bulktypes.TransferPath) (int64, error) {
	info, err := e.filesystem.Stat(p.LocalPath)
	if err != nil {
		return 0, errors.NewPathError("upload", p.LocalPath, errors.ErrLocalIO).
			WithKey(p.StoragePath).
			WithMessage(err.Error())
	}

	file, err := e.filesystem.Open(p.LocalPath)
	if err != nil {
		return 0, errors.NewPathError("upload", p.LocalPath, errors.ErrLocalIO).
			WithKey(p.StoragePath).
			WithMessage(err.Error())
	}
	defer file.Close()

	size := info.Size()
	contentType := e.detectContentType(p.LocalPath)

	if err := e.client.PutObject(ctx, p.StoragePath, file, size, contentType); err != nil {
		return 0, errors.NewKeyError("upload", p.StoragePath, err).WithPath(p.LocalPath)
	}

	return size, nil
}

// download fetches the object and writes it below the local path, creating
// intermediate directories as needed. Local write failures classify as
// ErrLocalIO.
func (e *Executor) download(ctx context.Context, p bulktypes.TransferPath) (int64, error) {
	body, err := e.client.GetObject(ctx, p.StoragePath)
	if err != nil {
		return 0, errors.NewKeyError("download", p.StoragePath, err).WithPath(p.LocalPath)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return 0, errors.NewKeyError("download", p.StoragePath, errors.ErrTransient).
			WithPath(p.LocalPath).
			WithMessage(err.Error())
	}

	if dir := filepath.Dir(p.LocalPath); dir != "." {
		if err := e.filesystem.MkdirAll(dir, 0o755); err != nil {
			return 0, errors.NewPathError("download", p.LocalPath, errors.ErrLocalIO).
				WithKey(p.StoragePath).
				WithMessage(err.Error())
		}
	}

	if err := e.filesystem.WriteFile(p.LocalPath, data, 0o644); err != nil {
		return 0, errors.NewPathError("download", p.LocalPath, errors.ErrLocalIO).
			WithKey(p.StoragePath).
			WithMessage(err.Error())
	}

	return int64(len(data)), nil
}

// detectContentType sniffs the file's leading bytes, falling back to the
// extension and finally to the octet-stream default.
func (e *Executor) detectContentType(path string) string {
	if file, err := e.filesystem.Open(path); err == nil {
		buf := make([]byte, 512)
		n, _ := file.Read(buf)
		_ = file.Close()
		if n > 0 {
			if mt := mimetype.Detect(buf[:n]); mt != nil {
				return mt.String()
			}
		}
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}

	return DefaultContentType
}
