package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/omrilahav/cursor-for-designers/internal/ui/theme"
)

// FilterInput wraps bubbles/textinput as a search box. It starts blurred.
type FilterInput struct {
	Model textinput.Model
}

// NewFilterInput creates a filter box with the given placeholder.
func NewFilterInput(placeholder string, charLimit int) FilterInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return FilterInput{Model: ti}
}

// Focus starts capturing keystrokes.
func (f *FilterInput) Focus() tea.Cmd {
	return f.Model.Focus()
}

// Blur stops capturing keystrokes and keeps the current value.
func (f *FilterInput) Blur() {
	f.Model.Blur()
}

// Focused reports whether the input is capturing keystrokes.
func (f FilterInput) Focused() bool {
	return f.Model.Focused()
}

// Clear empties the input.
func (f *FilterInput) Clear() {
	f.Model.SetValue("")
}

// Update handles messages while focused.
func (f FilterInput) Update(msg tea.Msg) (FilterInput, tea.Cmd) {
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// View renders the input, or nothing when it is blurred and empty.
func (f FilterInput) View() string {
	if !f.Focused() && f.Value() == "" {
		return ""
	}
	view := f.Model.View()
	if !f.Focused() {
		view = lipgloss.NewStyle().Foreground(theme.TextDim).Render(view)
	}
	return view
}

// Value returns the trimmed filter text.
func (f FilterInput) Value() string {
	return strings.TrimSpace(f.Model.Value())
}

// Matches reports whether any of fields contains the filter text,
// ignoring case. An empty filter matches everything.
func (f FilterInput) Matches(fields ...string) bool {
	q := strings.ToLower(f.Value())
	if q == "" {
		return true
	}
	for _, s := range fields {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}
