package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/snowflake-ladder/snowflake/internal/ui/theme"
)

// ProgressBar displays points against a maximum as a horizontal bar.
type ProgressBar struct {
	Label      string
	LabelWidth int
	Value      int
	Max        int
	Color      color.Color
	Width      int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, value, max int, c color.Color, width int) ProgressBar {
	return ProgressBar{
		Label: label,
		Value: value,
		Max:   max,
		Color: c,
		Width: width,
	}
}

// Percent returns the filled fraction in [0,1].
func (p ProgressBar) Percent() float64 {
	if p.Max <= 0 {
		return 0
	}
	f := float64(p.Value) / float64(p.Max)
	return min(max(f, 0), 1)
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		label := p.Label
		if pad := p.LabelWidth - lipgloss.Width(label); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(label) + "  "
	}

	suffix := fmt.Sprintf("  %3d/%d", p.Value, p.Max)
	barWidth := p.Width - lipgloss.Width(result) - lipgloss.Width(suffix)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent())
	empty := barWidth - filled

	fill := p.Color
	if fill == nil {
		fill = theme.Primary
	}
	filledStr := lipgloss.NewStyle().
		Background(fill).
		Render(strings.Repeat(" ", filled))

	emptyStr := theme.ProgressEmpty.Render(strings.Repeat(" ", empty))

	result += filledStr + emptyStr
	result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
	return result
}
