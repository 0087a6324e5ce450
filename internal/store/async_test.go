package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// gatedBlobs blocks every Put until release is closed and records what it wrote.
type gatedBlobs struct {
	*MemoryBlobs
	release chan struct{}

	mu     sync.Mutex
	writes []string
}

func (g *gatedBlobs) Put(ctx context.Context, key string, value []byte) error {
	<-g.release
	g.mu.Lock()
	g.writes = append(g.writes, string(value))
	g.mu.Unlock()
	return g.MemoryBlobs.Put(ctx, key, value)
}

func (g *gatedBlobs) writeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.writes)
}

func snapshotWith(ids ...string) *Snapshot {
	s := Empty()
	for _, id := range ids {
		s.Completions = append(s.Completions, CompletionRecord{ID: id, Category: "tutorial", CompletedAt: time.Unix(0, 0).UTC()})
	}
	return s
}

func TestAsyncSaverFlushWritesLatest(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	blobs := NewMemoryBlobs()
	s := NewAsyncSaver(NewAdapter(blobs))
	ctx := context.Background()

	s.Save(ctx, snapshotWith("a"))
	s.Save(ctx, snapshotWith("a", "b"))
	require.NoError(t, s.Flush(ctx))

	got := NewAdapter(blobs).Load(ctx)
	require.Len(t, got.Completions, 2)
	assert.Equal(t, "b", got.Completions[1].ID)

	require.NoError(t, s.Close())
}

func TestAsyncSaverCoalescesQueuedWrites(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	blobs := &gatedBlobs{MemoryBlobs: NewMemoryBlobs(), release: make(chan struct{})}
	s := NewAsyncSaver(NewAdapter(blobs))
	ctx := context.Background()

	// The first save blocks inside Put; the next three queue behind it and
	// collapse into the newest.
	s.Save(ctx, snapshotWith("a"))
	time.Sleep(20 * time.Millisecond)
	s.Save(ctx, snapshotWith("a", "b"))
	s.Save(ctx, snapshotWith("a", "b", "c"))
	s.Save(ctx, snapshotWith("a", "b", "c", "d"))
	close(blobs.release)

	require.NoError(t, s.Close())
	assert.Equal(t, 2, blobs.writeCount())

	got := NewAdapter(blobs.MemoryBlobs).Load(ctx)
	assert.Len(t, got.Completions, 4)
}

func TestAsyncSaverCloseFlushesPending(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	blobs := NewMemoryBlobs()
	s := NewAsyncSaver(NewAdapter(blobs))
	ctx := context.Background()

	s.Save(ctx, snapshotWith("a"))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "Close is idempotent")

	assert.Len(t, NewAdapter(blobs).Load(ctx).Completions, 1)
}

func TestAsyncSaverClearSupersedesSave(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	blobs := NewMemoryBlobs()
	s := NewAsyncSaver(NewAdapter(blobs))
	ctx := context.Background()

	s.Save(ctx, snapshotWith("a"))
	s.Clear(ctx)
	require.NoError(t, s.Flush(ctx))

	_, err := blobs.Get(ctx, DefaultKey)
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Close())
}

func TestAsyncSaverSaveAfterCloseIsSynchronous(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	blobs := NewMemoryBlobs()
	s := NewAsyncSaver(NewAdapter(blobs))
	require.NoError(t, s.Close())

	s.Save(context.Background(), snapshotWith("late"))
	assert.Len(t, NewAdapter(blobs).Load(context.Background()).Completions, 1)
}

func TestAsyncSaverFlushHonorsContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	blobs := &gatedBlobs{MemoryBlobs: NewMemoryBlobs(), release: make(chan struct{})}
	s := NewAsyncSaver(NewAdapter(blobs))

	s.Save(context.Background(), snapshotWith("a"))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Flush(ctx), context.DeadlineExceeded)

	close(blobs.release)
	require.NoError(t, s.Close())
}
