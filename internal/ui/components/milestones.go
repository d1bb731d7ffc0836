package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/snowflake-ladder/snowflake/internal/tracks"
	"github.com/snowflake-ladder/snowflake/internal/ui/theme"
)

// Pips renders a milestone as five dots, filled up to level.
func Pips(level int) string {
	level = min(max(level, 0), tracks.MilestoneCount)
	return theme.PipFilled.Render(strings.Repeat("●", level)) +
		theme.PipEmpty.Render(strings.Repeat("○", tracks.MilestoneCount-level))
}

// MilestoneScale lists a track's milestones with the current one marked.
type MilestoneScale struct {
	Track   tracks.Track
	Current int
	// Detailed adds the signals and examples of the current milestone.
	Detailed bool
}

// View renders the scale.
func (m MilestoneScale) View(width int) string {
	wrap := lipgloss.NewStyle().Width(max(width-6, 10))
	var b strings.Builder

	for level := 1; level <= tracks.MilestoneCount; level++ {
		desc, _ := m.Track.Milestone(level)
		prefix := "  "
		if level == m.Current {
			prefix = "▸ "
		}
		line := wrap.Render(fmt.Sprintf("%s%d  %s", prefix, level, desc.Summary))

		switch {
		case level == m.Current:
			b.WriteString(theme.Selected.Render(line))
		case level < m.Current:
			b.WriteString(theme.Body.Render(line))
		default:
			b.WriteString(theme.Subtitle.Render(line))
		}
		b.WriteString("\n")
	}

	if !m.Detailed || m.Current < 1 {
		return b.String()
	}
	desc, _ := m.Track.Milestone(m.Current)
	if len(desc.Signals) > 0 {
		b.WriteString("\n" + theme.Title.Render("Signals") + "\n")
		for _, s := range desc.Signals {
			b.WriteString(wrap.Render("  • "+s) + "\n")
		}
	}
	if len(desc.Examples) > 0 {
		b.WriteString("\n" + theme.Title.Render("Examples") + "\n")
		for _, e := range desc.Examples {
			b.WriteString(theme.Hint.Render(wrap.Render("  • "+e)) + "\n")
		}
	}
	return b.String()
}
