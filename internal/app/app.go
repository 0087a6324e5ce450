package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/omrilahav/cursor-for-designers/internal/progress"
	"github.com/omrilahav/cursor-for-designers/internal/router"
	"github.com/omrilahav/cursor-for-designers/internal/screen"
	"github.com/omrilahav/cursor-for-designers/internal/screens/home"
	"github.com/omrilahav/cursor-for-designers/internal/ui/layout"
	"github.com/omrilahav/cursor-for-designers/internal/ui/theme"
)

// toastDuration is how long a progress notification stays on screen.
const toastDuration = 4 * time.Second

// Options configures the dashboard.
type Options struct {
	Tracker *progress.Tracker
	Logger  *zap.Logger
}

type toastExpiredMsg struct{ id int }

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	tracker *progress.Tracker
	width   int
	height  int

	toast   string
	toastID int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(tracker *progress.Tracker) AppModel {
	return AppModel{
		router:  router.New(home.New(tracker)),
		tracker: tracker,
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case screen.ProgressChangedMsg:
		m.toastID++
		m.toast = toastFor(msg.Change)
		id := m.toastID
		expire := tea.Tick(toastDuration, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
		return m, tea.Batch(m.router.Broadcast(msg), expire)

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = ""
		}
		return m, nil
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// toastFor summarizes a change in one line.
func toastFor(c progress.Change) string {
	if c.Kind == progress.ChangeReset {
		return "Progress reset"
	}
	r := c.Result
	parts := []string{fmt.Sprintf("+%d pts", r.PointsAfter-r.PointsBefore)}
	if r.LeveledUp() {
		parts = append(parts, "Level up! "+r.LevelAfter.DisplayName())
	}
	for _, a := range r.Unlocked {
		parts = append(parts, "🏆 "+a.Title)
	}
	return strings.Join(parts, "  ·  ")
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.tracker.TotalPoints(), m.tracker.Level().DisplayName(), m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	var content string
	if m.toast != "" {
		toast := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, theme.Toast.Render(m.toast))
		content = toast + "\n" + m.router.View(m.width, max(contentHeight-1, 0))
	} else {
		content = m.router.View(m.width, contentHeight)
	}
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if p, ok := active.(screen.KeyHintProvider); ok {
		return p.KeyHints()
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program. Tracker changes, including ones made
// by screens, are delivered to the program as screen.ProgressChangedMsg.
func Run(opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p := tea.NewProgram(newAppModel(opts.Tracker))
	unsubscribe := opts.Tracker.Subscribe(func(c progress.Change) {
		p.Send(screen.ProgressChangedMsg{Change: c})
	})
	defer unsubscribe()

	_, err := p.Run()
	if err != nil {
		logger.Error("dashboard exited", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
