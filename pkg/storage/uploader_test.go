package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails the first failures Puts, then delegates.
type flakyStore struct {
	BlobStore
	mu       sync.Mutex
	failures int
	calls    int
	err      error
}

func (f *flakyStore) Put(ctx context.Context, key string, data []byte) error {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failures
	f.mu.Unlock()
	if fail {
		return f.err
	}
	return f.BlobStore.Put(ctx, key, data)
}

func fastUploader(store BlobStore) *Uploader {
	u := NewUploader(store, nil)
	u.InitialInterval = time.Millisecond
	u.MaxInterval = 2 * time.Millisecond
	return u
}

func TestUploaderRetriesTransientErrors(t *testing.T) {
	local := NewLocalStore(t.TempDir())
	store := &flakyStore{BlobStore: local, failures: 2, err: errors.New("503 SlowDown")}

	require.NoError(t, fastUploader(store).Upload(context.Background(), "campus_snapshot.csv", []byte("ok")))
	assert.Equal(t, 3, store.calls)

	data, err := local.Get(context.Background(), "campus_snapshot.csv")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}

func TestUploaderGivesUp(t *testing.T) {
	store := &flakyStore{BlobStore: NewLocalStore(t.TempDir()), failures: 100, err: errors.New("503 SlowDown")}
	u := fastUploader(store)
	u.MaxRetries = 2

	err := u.Upload(context.Background(), "k", []byte("x"))
	require.Error(t, err)
	assert.Equal(t, 3, store.calls, "one attempt plus two retries")
}

func TestUploaderDoesNotRetryCancellation(t *testing.T) {
	store := &flakyStore{BlobStore: NewLocalStore(t.TempDir()), failures: 100, err: context.Canceled}

	err := fastUploader(store).Upload(context.Background(), "k", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, store.calls)
}
