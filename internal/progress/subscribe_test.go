package progress

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribersRunInOrderAfterCommit(t *testing.T) {
	tr := newFixture(t).tracker
	ctx := context.Background()

	var order []string
	var seenPoints int
	tr.Subscribe(func(c Change) {
		order = append(order, "first")
		seenPoints = tr.TotalPoints()
	})
	tr.Subscribe(func(c Change) {
		order = append(order, "second")
		assert.Equal(t, ChangeCompleted, c.Kind)
		assert.Equal(t, "a", c.Result.Completion.ID)
	})

	_, err := tr.CompleteLesson(ctx, "a", "tutorial")
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, 100, seenPoints, "subscribers observe the new state")
}

func TestUnsubscribe(t *testing.T) {
	tr := newFixture(t).tracker
	ctx := context.Background()

	var a, b int
	unsubA := tr.Subscribe(func(Change) { a++ })
	tr.Subscribe(func(Change) { b++ })

	_, err := tr.CompleteLesson(ctx, "x", "")
	require.NoError(t, err)
	unsubA()
	unsubA()
	_, err = tr.CompleteLesson(ctx, "y", "")
	require.NoError(t, err)

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, b)
}

func TestSubscriberMayMutate(t *testing.T) {
	tr := newFixture(t).tracker
	ctx := context.Background()

	// A subscriber that completes a follow-up lesson must not deadlock.
	tr.Subscribe(func(c Change) {
		if c.Kind == ChangeCompleted && c.Result.Completion.ID == "intro" {
			_, err := tr.CompleteLesson(ctx, "intro-quiz", "tutorial")
			assert.NoError(t, err)
		}
	})

	_, err := tr.CompleteLesson(ctx, "intro", "tutorial")
	require.NoError(t, err)
	assert.True(t, tr.IsCompleted("intro-quiz"))
}

func TestConcurrentChangesArriveInCommitOrder(t *testing.T) {
	tr := newFixture(t).tracker
	ctx := context.Background()

	var mu sync.Mutex
	var points []int
	tr.Subscribe(func(c Change) {
		mu.Lock()
		points = append(points, c.Result.PointsAfter)
		mu.Unlock()
	})

	const workers, perWorker = 8, 5
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := tr.CompleteLesson(ctx, fmt.Sprintf("w%d-%d", w, i), "")
				assert.NoError(t, err)
			}
		}(w)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, points, workers*perWorker)
	for i := 1; i < len(points); i++ {
		assert.Greater(t, points[i], points[i-1], "change %d delivered out of order", i)
	}
	assert.Equal(t, tr.TotalPoints(), points[len(points)-1])
}

func TestResetDeliveredAfterEarlierCompletion(t *testing.T) {
	tr := newFixture(t).tracker
	ctx := context.Background()

	var kinds []ChangeKind
	tr.Subscribe(func(c Change) {
		kinds = append(kinds, c.Kind)
		if c.Kind == ChangeCompleted && c.Result.Completion.ID == "a" {
			tr.Reset(ctx)
			// The reset is queued behind this delivery.
			assert.Equal(t, []ChangeKind{ChangeCompleted}, kinds)
		}
	})

	_, err := tr.CompleteLesson(ctx, "a", "")
	require.NoError(t, err)
	assert.Equal(t, []ChangeKind{ChangeCompleted, ChangeReset}, kinds)
	assert.Zero(t, tr.TotalPoints())
}

func TestNilSubscriber(t *testing.T) {
	tr := newFixture(t).tracker
	unsub := tr.Subscribe(nil)
	unsub()
	_, err := tr.CompleteLesson(context.Background(), "a", "")
	assert.NoError(t, err)
}

func TestChangeKindString(t *testing.T) {
	tests := []struct {
		kind ChangeKind
		want string
	}{
		{ChangeCompleted, "completed"},
		{ChangeReset, "reset"},
		{ChangeKind(0), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ChangeKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
