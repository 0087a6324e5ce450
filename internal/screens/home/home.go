package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/omrilahav/cursor-for-designers/internal/progress"
	"github.com/omrilahav/cursor-for-designers/internal/router"
	"github.com/omrilahav/cursor-for-designers/internal/screen"
	achievementsscreen "github.com/omrilahav/cursor-for-designers/internal/screens/achievements"
	"github.com/omrilahav/cursor-for-designers/internal/screens/activity"
	"github.com/omrilahav/cursor-for-designers/internal/screens/lessons"
	"github.com/omrilahav/cursor-for-designers/internal/ui/components"
	"github.com/omrilahav/cursor-for-designers/internal/ui/layout"
	"github.com/omrilahav/cursor-for-designers/internal/ui/theme"
)

const (
	titleFull    = "C U R S O R   F O R   D E S I G N E R S"
	titleCompact = "Cursor for Designers"
	buttonWidth  = 22
)

// HomeScreen is the dashboard: level, points and the main menu.
type HomeScreen struct {
	tracker *progress.Tracker
	menu    components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(tracker *progress.Tracker) *HomeScreen {
	push := func(s func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: s()} }
		}
	}

	items := []components.MenuItem{
		{Label: "LESSONS", Action: push(func() screen.Screen { return lessons.New(tracker) })},
		{Label: "ACHIEVEMENTS", Action: push(func() screen.Screen { return achievementsscreen.New(tracker) })},
		{Label: "ACTIVITY", Action: push(func() screen.Screen { return activity.New(tracker) })},
		{Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
	}

	return &HomeScreen{
		tracker: tracker,
		menu:    components.NewMenu(items),
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+8) || layout.IsCompactWidth(width)
	cw := components.ContentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		h.renderStats(cw),
		renderMenu(h.menu, cw),
	}
	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func renderTitle(cw int, compact bool) string {
	text := titleFull
	if compact || lipgloss.Width(titleFull) > cw {
		text = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render(text))
}

// renderStats shows the level ladder position and headline counts.
func (h *HomeScreen) renderStats(cw int) string {
	lp := h.tracker.LevelProgress()

	caption := "max level"
	if lp.Next != nil {
		caption = fmt.Sprintf("%d pts to %s", lp.Remaining(), lp.Next.DisplayName())
	}
	bar := components.ProgressBar{
		Label:   lp.Current.DisplayName(),
		Caption: caption,
		Percent: lp.Percent(),
		Width:   cw - 10,
	}

	total := len(h.tracker.Catalog().Lessons)
	done := len(h.tracker.CompletedLessons())
	achievementCount := len(h.tracker.Achievements())

	counts := fmt.Sprintf("%s   %s   %s",
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("◆ %d POINTS", h.tracker.TotalPoints())),
		lipgloss.NewStyle().Foreground(theme.Success).Bold(true).
			Render(fmt.Sprintf("✓ %d/%d LESSONS", done, total)),
		lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).
			Render(fmt.Sprintf("★ %d/%d", h.tracker.UnlockedCount(), achievementCount)),
	)

	return components.Card(bar.View()+"\n\n"+counts, cw)
}

func renderMenu(m components.Menu, cw int) string {
	buttons := make([]string, len(m.Items))
	for i, label := range m.Labels() {
		buttons[i] = components.Button(label, i == m.Selected, buttonWidth)
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}
