package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/omrilahav/cursor-for-designers/internal/progress"
	"github.com/omrilahav/cursor-for-designers/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// ProgressChangedMsg is sent to the program whenever the tracker commits a
// change. Screens read fresh state from the tracker when they render, so
// handling it is only needed for transient feedback.
type ProgressChangedMsg struct {
	Change progress.Change
}
