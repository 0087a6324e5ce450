package store

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Adapter loads and saves progress snapshots through a BlobStore. It never
// returns storage errors to its caller: failed reads yield an empty snapshot
// and failed writes are logged.
type Adapter struct {
	blobs  BlobStore
	key    string
	retry  RetryConfig
	logger *zap.Logger
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithKey sets the blob key progress is stored under.
func WithKey(key string) AdapterOption {
	return func(a *Adapter) {
		if key != "" {
			a.key = key
		}
	}
}

// WithLogger sets the logger used for storage warnings.
func WithLogger(l *zap.Logger) AdapterOption {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRetry sets the retry policy for saves.
func WithRetry(cfg RetryConfig) AdapterOption {
	return func(a *Adapter) { a.retry = cfg }
}

// NewAdapter returns an Adapter over blobs.
func NewAdapter(blobs BlobStore, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		blobs:  blobs,
		key:    DefaultKey,
		retry:  DefaultRetryConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With(zap.String("key", a.key))
	return a
}

// Load returns the stored snapshot, or an empty one when nothing is stored
// or the stored data cannot be read.
func (a *Adapter) Load(ctx context.Context) *Snapshot {
	raw, err := a.blobs.Get(ctx, a.key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.logger.Warn("read progress failed, starting empty", zap.Error(err))
		}
		return Empty()
	}

	snap, err := Decode(raw)
	if err != nil {
		a.logger.Warn("stored progress is unreadable, starting empty", zap.Error(err))
		return Empty()
	}
	return snap
}

// Save writes snap, retrying failed writes. A final failure is logged.
func (a *Adapter) Save(ctx context.Context, snap *Snapshot) {
	data, err := Encode(snap)
	if err != nil {
		a.logger.Warn("encode progress failed", zap.Error(err))
		return
	}
	err = a.retry.retry(ctx, func(ctx context.Context) error {
		return a.blobs.Put(ctx, a.key, data)
	})
	if err != nil {
		a.logger.Warn("save progress failed", zap.Error(err), zap.Int("bytes", len(data)))
	}
}

// Clear removes the stored snapshot. Failures are logged.
func (a *Adapter) Clear(ctx context.Context) {
	if err := a.blobs.Delete(ctx, a.key); err != nil {
		a.logger.Warn("clear progress failed", zap.Error(err))
	}
}

// Close closes the underlying BlobStore.
func (a *Adapter) Close() error {
	return a.blobs.Close()
}
