// Package achievements shows the achievement catalog with unlock state.
package achievements

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/omrilahav/cursor-for-designers/internal/achievements"
	"github.com/omrilahav/cursor-for-designers/internal/progress"
	"github.com/omrilahav/cursor-for-designers/internal/router"
	"github.com/omrilahav/cursor-for-designers/internal/screen"
	"github.com/omrilahav/cursor-for-designers/internal/ui/layout"
	"github.com/omrilahav/cursor-for-designers/internal/ui/theme"
)

// Tab filters the list.
type Tab int

const (
	TabAll Tab = iota
	TabUnlocked
	TabLocked
)

var tabs = []Tab{TabAll, TabUnlocked, TabLocked}

func (t Tab) String() string {
	switch t {
	case TabUnlocked:
		return "Unlocked"
	case TabLocked:
		return "Locked"
	default:
		return "All"
	}
}

// AchievementsScreen lists achievements in catalog order.
type AchievementsScreen struct {
	tracker      *progress.Tracker
	tab          Tab
	scrollOffset int

	// fresh holds achievements unlocked while this screen was open.
	fresh map[string]bool
}

var _ screen.Screen = (*AchievementsScreen)(nil)
var _ screen.KeyHintProvider = (*AchievementsScreen)(nil)

// New creates a new AchievementsScreen.
func New(tracker *progress.Tracker) *AchievementsScreen {
	return &AchievementsScreen{
		tracker: tracker,
		fresh:   make(map[string]bool),
	}
}

func (s *AchievementsScreen) Init() tea.Cmd {
	return nil
}

func (s *AchievementsScreen) Title() string {
	return "Achievements"
}

func (s *AchievementsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Filter"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AchievementsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ProgressChangedMsg:
		if msg.Change.Kind == progress.ChangeReset {
			clear(s.fresh)
		}
		for _, a := range msg.Change.Result.Unlocked {
			s.fresh[a.ID] = true
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "tab":
			s.tab = tabs[(int(s.tab)+1)%len(tabs)]
			s.scrollOffset = 0
		case "shift+tab":
			s.tab = tabs[(int(s.tab)-1+len(tabs))%len(tabs)]
			s.scrollOffset = 0
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			if s.scrollOffset < len(s.filtered())-1 {
				s.scrollOffset++
			}
		}
	}
	return s, nil
}

func (s *AchievementsScreen) filtered() []achievements.Achievement {
	var out []achievements.Achievement
	for _, a := range s.tracker.Achievements() {
		switch {
		case s.tab == TabUnlocked && !a.Unlocked:
		case s.tab == TabLocked && a.Unlocked:
		default:
			out = append(out, a)
		}
	}
	return out
}

func (s *AchievementsScreen) View(width, height int) string {
	var b strings.Builder

	all := s.tracker.Achievements()
	unlocked := s.tracker.UnlockedCount()
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).
		Render(fmt.Sprintf("\nUnlocked %d of %d\n", unlocked, len(all))))
	b.WriteString("\n")

	counts := map[Tab]int{TabAll: len(all), TabUnlocked: unlocked, TabLocked: len(all) - unlocked}
	var labels []string
	for _, t := range tabs {
		label := fmt.Sprintf("%s (%d)", t, counts[t])
		if t == s.tab {
			labels = append(labels, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(label))
		} else {
			labels = append(labels, lipgloss.NewStyle().Foreground(theme.TextDim).Render(label))
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(labels, "     ")))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	filtered := s.filtered()
	if len(filtered) == 0 {
		empty := "Nothing unlocked yet"
		if s.tab == TabLocked {
			empty = "Everything is unlocked"
		}
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render(empty))
		return b.String()
	}

	// Each entry takes two lines.
	maxVisible := max((height-10)/2, 2)
	start := min(s.scrollOffset, len(filtered)-1)
	end := min(start+maxVisible, len(filtered))

	for i := start; i < end; i++ {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			s.renderEntry(filtered[i], min(width-8, 60))))
		b.WriteString("\n")
	}

	if end < len(filtered) {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("... %d more", len(filtered)-end)))
	}
	return b.String()
}

func (s *AchievementsScreen) renderEntry(a achievements.Achievement, width int) string {
	icon := a.Icon
	if icon == "" {
		icon = "★"
	}

	var head, when string
	if a.Unlocked {
		head = theme.Unlocked.Render(icon + " " + a.Title)
		if a.UnlockedAt != nil {
			when = a.UnlockedAt.Local().Format("Jan 02, 2006")
		}
		if s.fresh[a.ID] {
			when = theme.Toast.Render("NEW") + " " + when
		}
	} else {
		head = theme.Locked.Render("🔒 " + a.Title)
		when = theme.Locked.Render("locked")
	}

	pad := max(width-lipgloss.Width(head)-lipgloss.Width(when), 1)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim).Width(width).Render("   " + a.Description)
	return head + strings.Repeat(" ", pad) + when + "\n" + desc
}
