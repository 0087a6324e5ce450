package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

func TestMenuSkipsDisabledItems(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "A", Disabled: true},
		{Label: "B"},
		{Label: "C", Disabled: true},
		{Label: "D"},
	})
	if m.Selected != 1 {
		t.Fatalf("initial selection = %d, want 1", m.Selected)
	}

	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("after down = %d, want 3", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("after up = %d, want 1", m.Selected)
	}
}

func TestMenuEnterRunsAction(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{{Label: "Go", Action: func() tea.Cmd {
		ran = true
		return nil
	}}})

	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !ran {
		t.Error("expected enter to run the selected action")
	}
	if got := m.Labels(); len(got) != 1 || got[0] != "Go" {
		t.Errorf("Labels() = %v", got)
	}
}

func TestProgressBarWidth(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
	}{
		{"empty", 0},
		{"half", 0.5},
		{"full", 1},
		{"overflow", 1.7},
		{"negative", -0.3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewProgressBar("Level 2", tt.percent, 40)
			if got := lipgloss.Width(bar.View()); got != 40 {
				t.Errorf("width = %d, want 40", got)
			}
		})
	}
}

func TestFilterInputMatches(t *testing.T) {
	f := NewFilterInput("filter", 20)
	if !f.Matches("anything") {
		t.Error("empty filter should match everything")
	}

	f.Model.SetValue("  GIT ")
	if !f.Matches("Your first commit", "git-first-commit") {
		t.Error("expected case-insensitive match on the second field")
	}
	if f.Matches("Bug hunt", "bug-hunt") {
		t.Error("unexpected match")
	}

	f.Clear()
	if f.Value() != "" {
		t.Errorf("Value() after Clear = %q", f.Value())
	}
}

func TestFilterInputHiddenWhenBlurredAndEmpty(t *testing.T) {
	f := NewFilterInput("filter", 0)
	if f.View() != "" {
		t.Errorf("View() = %q, want empty", f.View())
	}
	f.Focus()
	if !strings.Contains(f.View(), "/") {
		t.Errorf("focused view %q should show the prompt", f.View())
	}
}
