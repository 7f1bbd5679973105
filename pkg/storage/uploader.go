package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Uploader writes artifacts to a BlobStore, retrying transient failures with
// exponential backoff.
type Uploader struct {
	Store  BlobStore
	Logger *slog.Logger

	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// NewUploader returns an Uploader with retry defaults suited to S3.
func NewUploader(store BlobStore, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Uploader{
		Store:           store,
		Logger:          logger,
		MaxRetries:      4,
		InitialInterval: 250 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

// Upload stores data under key. Context cancellation is not retried.
func (u *Uploader) Upload(ctx context.Context, key string, data []byte) error {
	op := func() error {
		err := u.Store.Put(ctx, key, data)
		if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return backoff.Permanent(err)
		}
		return err
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = u.InitialInterval
	eb.MaxInterval = u.MaxInterval
	eb.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.WithMaxRetries(eb, u.MaxRetries), ctx)
	notify := func(err error, wait time.Duration) {
		u.Logger.Warn("Upload failed, retrying", "key", key, "error", err, "backoff", wait)
	}

	if err := backoff.RetryNotify(op, b, notify); err != nil {
		return err
	}
	u.Logger.Info("Uploaded artifact", "key", key, "bytes", len(data))
	return nil
}
