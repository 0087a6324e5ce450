package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, InitialWait: time.Millisecond, MaxWait: 2 * time.Millisecond, Multiplier: 2}
}

// flakyBlobs fails the first failures Puts, then delegates.
type flakyBlobs struct {
	*MemoryBlobs
	failures int32
	puts     atomic.Int32
	getErr   error
}

func (f *flakyBlobs) Put(ctx context.Context, key string, value []byte) error {
	if f.puts.Add(1) <= f.failures {
		return errors.New("disk full")
	}
	return f.MemoryBlobs.Put(ctx, key, value)
}

func (f *flakyBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.MemoryBlobs.Get(ctx, key)
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return zap.New(core), logs
}

func TestAdapterLoadMissingIsEmpty(t *testing.T) {
	logger, logs := observedLogger()
	a := NewAdapter(NewMemoryBlobs(), WithLogger(logger))

	snap := a.Load(context.Background())
	assert.Equal(t, Empty(), snap)
	assert.Zero(t, logs.Len(), "a missing snapshot is not worth a warning")
}

func TestAdapterLoadCorruptIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", "not json at all"},
		{"wrong shape", `{"hello":"world"}`},
		{"future version", `{"schemaVersion":9,"completions":[],"achievements":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blobs := NewMemoryBlobs()
			require.NoError(t, blobs.Put(context.Background(), DefaultKey, []byte(tt.raw)))

			logger, logs := observedLogger()
			a := NewAdapter(blobs, WithLogger(logger))

			assert.Equal(t, Empty(), a.Load(context.Background()))
			assert.Equal(t, 1, logs.FilterMessage("stored progress is unreadable, starting empty").Len())
		})
	}
}

func TestAdapterLoadReadErrorIsEmpty(t *testing.T) {
	logger, logs := observedLogger()
	blobs := &flakyBlobs{MemoryBlobs: NewMemoryBlobs(), getErr: errors.New("permission denied")}
	a := NewAdapter(blobs, WithLogger(logger))

	assert.Equal(t, Empty(), a.Load(context.Background()))
	assert.Equal(t, 1, logs.Len())
}

func TestAdapterSaveLoadRoundTrip(t *testing.T) {
	a := NewAdapter(NewMemoryBlobs(), WithKey("learner-1"))
	ctx := context.Background()
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	want := &Snapshot{
		SchemaVersion: SchemaVersion,
		Completions:   []CompletionRecord{{ID: "a", Category: "tutorial", CompletedAt: at}},
		Achievements:  []AchievementRecord{{ID: "first-steps", Unlocked: true, UnlockedAt: &at}},
	}
	a.Save(ctx, want)

	got := a.Load(ctx)
	assert.Equal(t, want.Completions[0].ID, got.Completions[0].ID)
	assert.True(t, got.Achievements[0].UnlockedAt.Equal(at))
}

func TestAdapterSaveRetriesTransientFailures(t *testing.T) {
	blobs := &flakyBlobs{MemoryBlobs: NewMemoryBlobs(), failures: 2}
	logger, logs := observedLogger()
	a := NewAdapter(blobs, WithLogger(logger), WithRetry(fastRetry(3)))

	a.Save(context.Background(), Empty())

	assert.Equal(t, int32(3), blobs.puts.Load())
	assert.Zero(t, logs.Len())
	_, err := blobs.MemoryBlobs.Get(context.Background(), DefaultKey)
	assert.NoError(t, err)
}

func TestAdapterSaveGivesUpAndLogs(t *testing.T) {
	blobs := &flakyBlobs{MemoryBlobs: NewMemoryBlobs(), failures: 100}
	logger, logs := observedLogger()
	a := NewAdapter(blobs, WithLogger(logger), WithRetry(fastRetry(3)))

	a.Save(context.Background(), Empty())

	assert.Equal(t, int32(3), blobs.puts.Load())
	require.Equal(t, 1, logs.FilterMessage("save progress failed").Len())
	entry := logs.All()[0]
	assert.Equal(t, DefaultKey, entry.ContextMap()["key"])
}

func TestAdapterSaveStopsOnCanceledContext(t *testing.T) {
	blobs := &flakyBlobs{MemoryBlobs: NewMemoryBlobs(), failures: 100}
	a := NewAdapter(blobs, WithRetry(RetryConfig{MaxAttempts: 5, InitialWait: time.Hour, Multiplier: 1}))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	done := make(chan struct{})
	go func() {
		a.Save(ctx, Empty())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Save did not return after cancellation")
	}
	assert.Equal(t, int32(1), blobs.puts.Load())
}

func TestAdapterClear(t *testing.T) {
	blobs := NewMemoryBlobs()
	a := NewAdapter(blobs)
	ctx := context.Background()

	a.Save(ctx, Empty())
	a.Clear(ctx)

	_, err := blobs.Get(ctx, DefaultKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRetryBackoffBounds(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 5, InitialWait: 100 * time.Millisecond, MaxWait: time.Second, Multiplier: 2}

	tests := []struct {
		attempt int
		base    time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 400 * time.Millisecond},
		{5, time.Second},
	}
	for _, tt := range tests {
		for i := 0; i < 20; i++ {
			got := cfg.backoff(tt.attempt)
			lo := time.Duration(float64(tt.base) * 0.8)
			hi := time.Duration(float64(tt.base) * 1.2)
			if got < lo || got > hi {
				t.Errorf("backoff(%d) = %v, want within [%v, %v]", tt.attempt, got, lo, hi)
			}
		}
	}
}
