// Package testutil provides test doubles and fixtures for the bulk transfer
// module: an in-memory storage.Store with failure injection and a
// concurrency probe, filesystem tree builders, and a LocalStack harness for
// integration tests.
package testutil

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cloudbulk/bulk/errors"
	"github.com/cloudbulk/bulk/storage"
)

// FakeStore is an in-memory storage.Store for testing. Failures are injected
// per key; the store also records the peak number of concurrent operations
// so tests can assert concurrency budgets are honored.
type FakeStore struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
	created      bool

	// PutErr and GetErr inject a failure for the given key.
	PutErr map[string]error
	GetErr map[string]error

	// OpDelay stalls every operation, widening the window in which
	// concurrent operations overlap.
	OpDelay time.Duration

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	putCalls    atomic.Int32
	getCalls    atomic.Int32
}

// Compile-time capability check.
var _ storage.Store = (*FakeStore)(nil)

// NewFakeStore creates an empty in-memory store.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
		PutErr:       make(map[string]error),
		GetErr:       make(map[string]error),
	}
}

// enter tracks one operation starting and updates the in-flight high-water
// mark.
func (f *FakeStore) enter() {
	cur := f.inFlight.Add(1)
	for {
		max := f.maxInFlight.Load()
		if cur <= max || f.maxInFlight.CompareAndSwap(max, cur) {
			break
		}
	}
	if f.OpDelay > 0 {
		time.Sleep(f.OpDelay)
	}
}

func (f *FakeStore) exit() {
	f.inFlight.Add(-1)
}

// MaxInFlight reports the peak number of simultaneously running operations.
func (f *FakeStore) MaxInFlight() int {
	return int(f.maxInFlight.Load())
}

// PutCalls reports how many PutObject calls the store received.
func (f *FakeStore) PutCalls() int {
	return int(f.putCalls.Load())
}

// GetCalls reports how many GetObject calls the store received.
func (f *FakeStore) GetCalls() int {
	return int(f.getCalls.Load())
}

// PutObject implements storage.Client.
func (f *FakeStore) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	f.putCalls.Add(1)
	f.enter()
	defer f.exit()

	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	injected := f.PutErr[key]
	f.mu.Unlock()
	if injected != nil {
		return injected
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.objects[key] = data
	f.contentTypes[key] = contentType
	f.mu.Unlock()
	return nil
}

// GetObject implements storage.Client.
func (f *FakeStore) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	f.getCalls.Add(1)
	f.enter()
	defer f.exit()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	injected := f.GetErr[key]
	data, ok := f.objects[key]
	f.mu.Unlock()

	if injected != nil {
		return nil, injected
	}
	if !ok {
		return nil, errors.NewKeyError("get", key, errors.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// ListObjects implements storage.Lister. Keys are returned sorted.
func (f *FakeStore) ListObjects(ctx context.Context, prefix string) ([]storage.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var objects []storage.ObjectInfo
	for key, data := range f.objects {
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			continue
		}
		objects = append(objects, storage.ObjectInfo{
			Key:  key,
			Size: int64(len(data)),
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// ObjectExists implements storage.BucketManager.
func (f *FakeStore) ObjectExists(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

// CreateBucket implements storage.BucketManager.
func (f *FakeStore) CreateBucket(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.created {
		return errors.NewError("createBucket", errors.ErrBucketAlreadyExists)
	}
	f.created = true
	return nil
}

// DeleteBucket implements storage.BucketManager.
func (f *FakeStore) DeleteBucket(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = false
	f.objects = make(map[string][]byte)
	f.contentTypes = make(map[string]string)
	return nil
}

// EmptyBucket implements storage.BucketManager.
func (f *FakeStore) EmptyBucket(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects = make(map[string][]byte)
	f.contentTypes = make(map[string]string)
	return nil
}

// Object returns the stored bytes for key and whether it exists.
func (f *FakeStore) Object(key string) ([]byte, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	return data, ok
}

// ContentType returns the content type recorded for key.
func (f *FakeStore) ContentType(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contentTypes[key]
}

// Seed stores an object directly, bypassing PutObject accounting.
func (f *FakeStore) Seed(key string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
}

// Len reports the number of stored objects.
func (f *FakeStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}
