// Package activity shows recently completed lessons.
package activity

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/omrilahav/cursor-for-designers/internal/lesson"
	"github.com/omrilahav/cursor-for-designers/internal/progress"
	"github.com/omrilahav/cursor-for-designers/internal/router"
	"github.com/omrilahav/cursor-for-designers/internal/screen"
	"github.com/omrilahav/cursor-for-designers/internal/ui/layout"
	"github.com/omrilahav/cursor-for-designers/internal/ui/theme"
)

// Limit is how many completions the screen lists.
const Limit = 50

// ActivityScreen lists completions newest first with expandable detail.
type ActivityScreen struct {
	tracker  *progress.Tracker
	cursor   int
	expanded int // -1 = none
}

var _ screen.Screen = (*ActivityScreen)(nil)
var _ screen.KeyHintProvider = (*ActivityScreen)(nil)

// New creates a new ActivityScreen.
func New(tracker *progress.Tracker) *ActivityScreen {
	return &ActivityScreen{
		tracker:  tracker,
		expanded: -1,
	}
}

func (s *ActivityScreen) Init() tea.Cmd {
	return nil
}

func (s *ActivityScreen) Title() string {
	return "Activity"
}

func (s *ActivityScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Details"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ActivityScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ProgressChangedMsg:
		// New entries arrive at the top; keep the selection on the same row.
		if msg.Change.Kind == progress.ChangeReset {
			s.cursor, s.expanded = 0, -1
		} else if !msg.Change.Result.Duplicate {
			s.cursor++
			if s.expanded >= 0 {
				s.expanded++
			}
		}
		s.clamp()
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			s.cursor++
			s.clamp()
		case "enter":
			if s.expanded == s.cursor {
				s.expanded = -1
			} else {
				s.expanded = s.cursor
			}
		}
	}
	return s, nil
}

func (s *ActivityScreen) clamp() {
	n := len(s.tracker.RecentActivity(Limit))
	if s.cursor >= n {
		s.cursor = max(n-1, 0)
	}
	if s.expanded >= n {
		s.expanded = -1
	}
}

func (s *ActivityScreen) View(width, height int) string {
	var b strings.Builder

	recent := s.tracker.RecentActivity(Limit)

	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).
		Render(fmt.Sprintf("\n%d lessons completed\n", len(s.tracker.CompletedLessons()))))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderCategories()))
	b.WriteString("\n\n")

	if len(recent) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No lessons completed yet. Finish one to see it here!"))
		return b.String()
	}

	rowWidth := min(width-8, 64)

	header := fmt.Sprintf("  %-16s %-28s %s", "Date", "Lesson", "Category")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).Render(header)))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", rowWidth))))
	b.WriteString("\n")

	maxVisible := max(height-12, 3)
	start := 0
	if s.cursor >= maxVisible {
		start = s.cursor - maxVisible + 1
	}
	end := min(start+maxVisible, len(recent))

	for i := start; i < end; i++ {
		c := recent[i]
		line := fmt.Sprintf("%-16s %-28s %s",
			c.CompletedAt.Local().Format("Jan 02 15:04"),
			truncate(s.lessonTitle(c.ID), 28),
			c.Category)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		prefix := "  "
		if i == s.cursor {
			style = style.Bold(true).Foreground(theme.Primary)
			prefix = "▸ "
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(prefix+line)))
		b.WriteString("\n")

		if i == s.expanded {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderDetail(c)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (s *ActivityScreen) renderCategories() string {
	counts := s.tracker.CategoryCounts()
	parts := make([]string, 0, len(counts))
	for _, cat := range s.categoryOrder(counts) {
		parts = append(parts, fmt.Sprintf("%s %d", cat, counts[cat]))
	}
	return lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Join(parts, " · "))
}

// categoryOrder lists catalog categories first, then any others recorded.
func (s *ActivityScreen) categoryOrder(counts map[string]int) []string {
	seen := make(map[string]bool, len(counts))
	var out []string
	for _, cat := range s.tracker.Catalog().Categories() {
		if counts[cat] > 0 {
			out = append(out, cat)
			seen[cat] = true
		}
	}
	for _, c := range s.tracker.CompletedLessons() {
		if !seen[c.Category] {
			out = append(out, c.Category)
			seen[c.Category] = true
		}
	}
	return out
}

func (s *ActivityScreen) renderDetail(c lesson.Completion) string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	lines := []string{
		dim.Render("ID:        ") + c.ID,
		dim.Render("Category:  ") + c.Category,
		dim.Render("Points:    ") + fmt.Sprintf("%d", s.tracker.Catalog().Rules.PointsFor(c.Category)),
		dim.Render("Completed: ") + c.CompletedAt.Local().Format("Mon Jan 02, 2006 15:04:05"),
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

func (s *ActivityScreen) lessonTitle(id string) string {
	if l, ok := s.tracker.Catalog().Lesson(id); ok && l.Title != "" {
		return l.Title
	}
	return id
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
