package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/devpath/internal/ui/theme"
)

// ProgressBar is a horizontal bar for a 0-100 percentage.
type ProgressBar struct {
	Label   string
	Percent int
	Width   int
}

// NewProgressBar creates a progress bar of the given total width.
func NewProgressBar(label string, percent, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: percent, Width: width}
}

// View renders the bar followed by the percentage.
func (p ProgressBar) View() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(theme.Body.Render(p.Label) + "  ")
	}

	suffix := fmt.Sprintf("  %3d%%", p.Percent)
	barWidth := max(p.Width-lipgloss.Width(b.String())-len(suffix), 4)

	filled := min(max(barWidth*p.Percent/100, 0), barWidth)

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Render(strings.Repeat("█", filled)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("░", barWidth-filled)))
	b.WriteString(theme.Subtitle.Render(suffix))
	return b.String()
}
