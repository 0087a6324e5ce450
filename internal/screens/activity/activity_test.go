package activity

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/omrilahav/cursor-for-designers/internal/catalog"
	"github.com/omrilahav/cursor-for-designers/internal/progress"
	"github.com/omrilahav/cursor-for-designers/internal/screen"
)

func newTestScreen(t *testing.T) (*ActivityScreen, *progress.Tracker) {
	t.Helper()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tr := progress.Open(context.Background(), catalog.Default(), nil,
		progress.WithClock(func() time.Time {
			now = now.Add(time.Minute)
			return now
		}))
	return New(tr), tr
}

func TestActivityScreen_Empty(t *testing.T) {
	s, _ := newTestScreen(t)
	if !strings.Contains(s.View(80, 24), "No lessons completed yet") {
		t.Error("expected empty-state message")
	}
}

func TestActivityScreen_ListsNewestFirst(t *testing.T) {
	s, tr := newTestScreen(t)
	ctx := context.Background()
	tr.CompleteLesson(ctx, "cursor-setup", "tutorial")
	tr.CompleteLesson(ctx, "bug-hunt", "game")

	view := s.View(100, 30)
	newest := strings.Index(view, "Bug hunt")
	older := strings.Index(view, "Installing and configuring")
	if newest < 0 || older < 0 {
		t.Fatalf("expected both lessons in view")
	}
	if newest > older {
		t.Error("expected the newest completion first")
	}
	if !strings.Contains(view, "2 lessons completed") {
		t.Error("expected completion count")
	}
}

func TestActivityScreen_ExpandDetail(t *testing.T) {
	s, tr := newTestScreen(t)
	tr.CompleteLesson(context.Background(), "bug-hunt", "game")

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.expanded != 0 {
		t.Fatalf("expanded = %d, want 0", s.expanded)
	}
	if !strings.Contains(s.View(100, 30), "Points:") {
		t.Error("expected detail panel")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.expanded != -1 {
		t.Errorf("expanded = %d after second enter, want -1", s.expanded)
	}
}

func TestActivityScreen_SelectionFollowsNewEntries(t *testing.T) {
	s, tr := newTestScreen(t)
	unsubscribe := tr.Subscribe(func(c progress.Change) {
		s.Update(screen.ProgressChangedMsg{Change: c})
	})
	defer unsubscribe()

	ctx := context.Background()
	tr.CompleteLesson(ctx, "cursor-setup", "tutorial")
	tr.CompleteLesson(ctx, "bug-hunt", "game")
	s.cursor = 1 // cursor-setup

	tr.CompleteLesson(ctx, "css-quiz", "game")
	if got := tr.RecentActivity(Limit)[s.cursor].ID; got != "cursor-setup" {
		t.Errorf("selected %s, want cursor-setup", got)
	}

	tr.Reset(ctx)
	if s.cursor != 0 || s.expanded != -1 {
		t.Errorf("cursor=%d expanded=%d after reset, want 0 and -1", s.cursor, s.expanded)
	}
}

func TestActivityScreen_CursorClamped(t *testing.T) {
	s, tr := newTestScreen(t)
	tr.CompleteLesson(context.Background(), "bug-hunt", "game")

	for range 5 {
		s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	if s.cursor != 0 {
		t.Errorf("cursor = %d, want 0", s.cursor)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 8, "this is…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
