package achievements

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/omrilahav/cursor-for-designers/internal/catalog"
	"github.com/omrilahav/cursor-for-designers/internal/progress"
	"github.com/omrilahav/cursor-for-designers/internal/router"
	"github.com/omrilahav/cursor-for-designers/internal/screen"
)

func newTestScreen(t *testing.T) (*AchievementsScreen, *progress.Tracker) {
	t.Helper()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tr := progress.Open(context.Background(), catalog.Default(), nil,
		progress.WithClock(func() time.Time { return now }))
	return New(tr), tr
}

func TestAchievementsScreen_Title(t *testing.T) {
	s, _ := newTestScreen(t)
	if s.Title() != "Achievements" {
		t.Errorf("Title = %q, want %q", s.Title(), "Achievements")
	}
}

func TestAchievementsScreen_Tabs(t *testing.T) {
	s, tr := newTestScreen(t)
	tr.CompleteLesson(context.Background(), "cursor-setup", "tutorial")
	total := len(tr.Achievements())
	unlocked := tr.UnlockedCount()
	if unlocked == 0 {
		t.Fatal("expected at least one unlocked achievement")
	}

	tests := []struct {
		tab  Tab
		want int
	}{
		{TabAll, total},
		{TabUnlocked, unlocked},
		{TabLocked, total - unlocked},
	}
	for _, tt := range tests {
		t.Run(tt.tab.String(), func(t *testing.T) {
			s.tab = tt.tab
			if got := len(s.filtered()); got != tt.want {
				t.Errorf("filtered = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAchievementsScreen_TabCycles(t *testing.T) {
	s, _ := newTestScreen(t)

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if s.tab != TabUnlocked {
		t.Errorf("after tab = %v, want Unlocked", s.tab)
	}
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift})
	if s.tab != TabLocked {
		t.Errorf("after two shift+tab = %v, want Locked", s.tab)
	}
}

func TestAchievementsScreen_MarksFreshUnlocks(t *testing.T) {
	s, tr := newTestScreen(t)
	unsubscribe := tr.Subscribe(func(c progress.Change) {
		s.Update(screen.ProgressChangedMsg{Change: c})
	})
	defer unsubscribe()

	tr.CompleteLesson(context.Background(), "cursor-setup", "tutorial")
	if !s.fresh["first-steps"] {
		t.Error("expected first-steps to be marked new")
	}
	if !strings.Contains(s.View(80, 40), "NEW") {
		t.Error("expected NEW badge in view")
	}

	tr.Reset(context.Background())
	if len(s.fresh) != 0 {
		t.Errorf("fresh = %v after reset, want empty", s.fresh)
	}
}

func TestAchievementsScreen_EmptyUnlockedTab(t *testing.T) {
	s, _ := newTestScreen(t)
	s.tab = TabUnlocked
	if !strings.Contains(s.View(80, 24), "Nothing unlocked yet") {
		t.Error("expected empty-state message")
	}
}

func TestAchievementsScreen_EscPops(t *testing.T) {
	s, _ := newTestScreen(t)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a command on Esc")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
