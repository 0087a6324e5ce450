// Package lessons lists the catalog and lets the learner mark lessons done.
package lessons

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/omrilahav/cursor-for-designers/internal/catalog"
	"github.com/omrilahav/cursor-for-designers/internal/progress"
	"github.com/omrilahav/cursor-for-designers/internal/router"
	"github.com/omrilahav/cursor-for-designers/internal/screen"
	achievementsscreen "github.com/omrilahav/cursor-for-designers/internal/screens/achievements"
	"github.com/omrilahav/cursor-for-designers/internal/ui/components"
	"github.com/omrilahav/cursor-for-designers/internal/ui/layout"
	"github.com/omrilahav/cursor-for-designers/internal/ui/theme"
)

// completedMsg carries the outcome of a CompleteLesson call.
type completedMsg struct {
	Lesson catalog.Lesson
	Result progress.Result
	Err    error
}

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Complete key.Binding
	Filter   key.Binding
	Awards   key.Binding
	Back     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑↓", "Navigate")),
		Down:     key.NewBinding(key.WithKeys("down", "j")),
		Complete: key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("Enter", "Mark done")),
		Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "Filter")),
		Awards:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "Achievements")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Back")),
	}
}

// LessonsScreen shows every catalog lesson with its completion state.
type LessonsScreen struct {
	tracker *progress.Tracker
	keys    keyMap
	filter  components.FilterInput

	cursor       int
	scrollOffset int

	status    string
	statusErr bool
}

var _ screen.Screen = (*LessonsScreen)(nil)
var _ screen.KeyHintProvider = (*LessonsScreen)(nil)

// New creates a new LessonsScreen.
func New(tracker *progress.Tracker) *LessonsScreen {
	return &LessonsScreen{
		tracker: tracker,
		keys:    defaultKeyMap(),
		filter:  components.NewFilterInput("title or category", 40),
	}
}

func (s *LessonsScreen) Init() tea.Cmd {
	return nil
}

func (s *LessonsScreen) Title() string {
	return "Lessons"
}

func (s *LessonsScreen) KeyHints() []layout.KeyHint {
	if s.filter.Focused() {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Clear"},
		}
	}
	return layout.HintsFor(s.keys.Up, s.keys.Complete, s.keys.Filter, s.keys.Awards, s.keys.Back)
}

func (s *LessonsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case completedMsg:
		s.setStatus(msg)
		return s, nil

	case tea.KeyMsg:
		if s.filter.Focused() {
			return s.updateFilter(msg)
		}
		switch {
		case key.Matches(msg, s.keys.Back):
			if s.filter.Value() != "" {
				s.filter.Clear()
				s.cursor, s.scrollOffset = 0, 0
				return s, nil
			}
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case key.Matches(msg, s.keys.Filter):
			return s, s.filter.Focus()
		case key.Matches(msg, s.keys.Awards):
			// Swap rather than push so Esc returns to the home menu.
			next := achievementsscreen.New(s.tracker)
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		case key.Matches(msg, s.keys.Up):
			if s.cursor > 0 {
				s.cursor--
			}
			return s, nil
		case key.Matches(msg, s.keys.Down):
			if s.cursor < len(s.visible())-1 {
				s.cursor++
			}
			return s, nil
		case key.Matches(msg, s.keys.Complete):
			visible := s.visible()
			if s.cursor < len(visible) {
				return s, s.complete(visible[s.cursor])
			}
			return s, nil
		}
	}

	if s.filter.Focused() {
		var cmd tea.Cmd
		s.filter, cmd = s.filter.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *LessonsScreen) updateFilter(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.filter.Clear()
		s.filter.Blur()
		s.cursor, s.scrollOffset = 0, 0
		return s, nil
	case "enter":
		s.filter.Blur()
		return s, nil
	}
	var cmd tea.Cmd
	s.filter, cmd = s.filter.Update(msg)
	s.cursor, s.scrollOffset = 0, 0
	return s, cmd
}

// complete records the lesson off the UI goroutine.
func (s *LessonsScreen) complete(l catalog.Lesson) tea.Cmd {
	tracker := s.tracker
	return func() tea.Msg {
		res, err := tracker.CompleteLesson(context.Background(), l.ID, l.Category)
		return completedMsg{Lesson: l, Result: res, Err: err}
	}
}

func (s *LessonsScreen) setStatus(msg completedMsg) {
	s.statusErr = msg.Err != nil
	switch {
	case msg.Err != nil:
		s.status = msg.Err.Error()
	case msg.Result.Duplicate:
		s.status = fmt.Sprintf("%s is already done", titleOf(msg.Lesson))
	default:
		s.status = fmt.Sprintf("+%d pts for %s", msg.Result.PointsAfter-msg.Result.PointsBefore, titleOf(msg.Lesson))
		if msg.Result.LeveledUp() {
			s.status += " · reached " + msg.Result.LevelAfter.DisplayName()
		}
		for _, a := range msg.Result.Unlocked {
			s.status += " · unlocked " + a.Title
		}
	}
}

// visible returns the catalog lessons that pass the filter, in catalog order.
func (s *LessonsScreen) visible() []catalog.Lesson {
	all := s.tracker.Catalog().Lessons
	out := make([]catalog.Lesson, 0, len(all))
	for _, l := range all {
		if s.filter.Matches(l.ID, l.Title, l.Category) {
			out = append(out, l)
		}
	}
	return out
}

func (s *LessonsScreen) View(width, height int) string {
	var b strings.Builder

	all := s.tracker.Catalog().Lessons
	done := 0
	for _, l := range all {
		if s.tracker.IsCompleted(l.ID) {
			done++
		}
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).
		Render(fmt.Sprintf("\n%d of %d lessons done\n", done, len(all))))
	b.WriteString("\n")

	if fv := s.filter.View(); fv != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, fv))
		b.WriteString("\n\n")
	}

	visible := s.visible()
	if len(visible) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("No lessons match"))
		return b.String()
	}

	maxVisible := max(height-10, 3)
	s.scrollTo(maxVisible)
	end := min(s.scrollOffset+maxVisible, len(visible))

	rowWidth := min(width-8, 64)
	for i := s.scrollOffset; i < end; i++ {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			s.renderRow(visible[i], i == s.cursor, rowWidth)))
		b.WriteString("\n")
	}
	if end < len(visible) {
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("... %d more", len(visible)-end)))
		b.WriteString("\n")
	}

	if s.status != "" {
		style := lipgloss.NewStyle().Foreground(theme.Success).Bold(true)
		if s.statusErr {
			style = lipgloss.NewStyle().Foreground(theme.Error)
		}
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(style.Render(s.status)))
	}
	return b.String()
}

// scrollTo keeps the cursor inside the visible window.
func (s *LessonsScreen) scrollTo(window int) {
	if s.cursor < s.scrollOffset {
		s.scrollOffset = s.cursor
	}
	if s.cursor >= s.scrollOffset+window {
		s.scrollOffset = s.cursor - window + 1
	}
}

func (s *LessonsScreen) renderRow(l catalog.Lesson, selected bool, width int) string {
	mark := theme.Locked.Render("○")
	if s.tracker.IsCompleted(l.ID) {
		mark = theme.Done.Render("✓")
	}

	title := titleOf(l)
	category := lipgloss.NewStyle().Foreground(theme.Secondary).Render(l.Category)
	pad := width - 4 - lipgloss.Width(title) - lipgloss.Width(category)
	if pad < 1 {
		pad = 1
	}

	titleStyle := theme.Unselected
	prefix := "  "
	if selected {
		titleStyle = theme.Selected
		prefix = theme.Selected.Render("▸ ")
	}
	return prefix + mark + " " + titleStyle.Render(title) + strings.Repeat(" ", pad) + category
}

func titleOf(l catalog.Lesson) string {
	if l.Title != "" {
		return l.Title
	}
	return l.ID
}
