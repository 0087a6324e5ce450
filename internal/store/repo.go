package store

import (
	"context"
	"errors"
)

// DefaultKey is the blob key progress is stored under.
const DefaultKey = "progress"

// ErrNotFound is returned by BlobStore.Get when nothing is stored under a key.
var ErrNotFound = errors.New("blob not found")

// BlobStore is a durable key-value store of opaque byte blobs.
type BlobStore interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}
