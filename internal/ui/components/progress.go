package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/omrilahav/cursor-for-designers/internal/ui/theme"
)

// ProgressBar displays a horizontal bar with an optional label on the left
// and a caption on the right.
type ProgressBar struct {
	Label   string
	Caption string
	Percent float64
	Width   int
}

// NewProgressBar creates a bar whose caption is the rounded percentage.
func NewProgressBar(label string, percent float64, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Caption: fmt.Sprintf("%d%%", int(clampPercent(percent)*100)),
		Percent: percent,
		Width:   width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var left, right string
	if p.Label != "" {
		left = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	if p.Caption != "" {
		right = "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(p.Caption)
	}

	barWidth := p.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * clampPercent(p.Percent))
	empty := barWidth - filled

	return left +
		theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", empty)) +
		right
}

func clampPercent(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
