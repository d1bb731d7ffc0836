package tracker

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/snowflake-ladder/snowflake/internal/ladder"
	"github.com/snowflake-ladder/snowflake/internal/tracks"
	"github.com/snowflake-ladder/snowflake/internal/ui/components"
	"github.com/snowflake-ladder/snowflake/internal/ui/layout"
	"github.com/snowflake-ladder/snowflake/internal/ui/theme"
)

const (
	listWidth        = 34
	compactListWidth = 26
)

// listRow is either a category header or a track.
type listRow struct {
	category string
	track    *tracks.Track
}

func (s *TrackerScreen) View(width, height int) string {
	cat := s.profile.Catalog()
	if cat == nil || cat.Len() == 0 {
		return theme.Hint.Render("  No tracks for this team.")
	}
	colors := ladder.CategoryColors(cat)

	lw := listWidth
	if layout.IsCompactWidth(width) {
		lw = compactListWidth
	}
	bodyHeight := height - 1 // status line
	if s.showCode {
		bodyHeight -= 3
	}
	bodyHeight = max(bodyHeight, 1)

	list := s.renderList(cat, colors, lw, bodyHeight)
	detail := s.renderDetail(cat, colors, max(width-lw-3, 20), bodyHeight, layout.IsCompactHeight(height))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(lw).Render(list),
		" │ ",
		detail,
	)

	var b strings.Builder
	b.WriteString(clip(body, bodyHeight))
	b.WriteString("\n")
	if s.showCode {
		b.WriteString(s.renderShareCode(width))
		b.WriteString("\n")
	}
	b.WriteString(s.renderStatus())
	return b.String()
}

func (s *TrackerScreen) rows(cat *tracks.Catalog) []listRow {
	var rows []listRow
	prev := ""
	for _, t := range cat.Tracks() {
		if t.Category != prev {
			rows = append(rows, listRow{category: t.Category})
			prev = t.Category
		}
		rows = append(rows, listRow{category: t.Category, track: &t})
	}
	return rows
}

func (s *TrackerScreen) renderList(cat *tracks.Catalog, colors map[string]string, width, height int) string {
	rows := s.rows(cat)
	focus := s.profile.FocusedTrack()

	cursor := 0
	for i, r := range rows {
		if r.track != nil && r.track.ID == focus {
			cursor = i
			break
		}
	}
	s.adjustScroll(rows, cursor, height)

	nameWidth := max(width-lipgloss.Width(components.Pips(0))-4, 6)
	var lines []string
	for i, r := range rows {
		if i < s.scrollOffset {
			continue
		}
		if len(lines) >= height {
			break
		}
		if r.track == nil {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(theme.Hex(colors[r.category])).
				Bold(true).
				Render(r.category))
			continue
		}

		name := truncate(r.track.DisplayName, nameWidth)
		pad := strings.Repeat(" ", max(nameWidth-lipgloss.Width(name), 0))
		prefix, style := "  ", theme.Unselected
		if i == cursor {
			prefix, style = "▸ ", theme.Selected
		}
		pips := components.Pips(int(s.profile.Milestone(r.track.ID)))
		lines = append(lines, style.Render(prefix+name+pad)+" "+pips)
	}
	return strings.Join(lines, "\n")
}

// adjustScroll keeps the cursor and its category header visible.
func (s *TrackerScreen) adjustScroll(rows []listRow, cursor, height int) {
	if height <= 0 {
		return
	}
	top := cursor
	if top > 0 && rows[top-1].track == nil {
		top--
	}
	if top < s.scrollOffset {
		s.scrollOffset = top
	}
	if cursor >= s.scrollOffset+height {
		s.scrollOffset = cursor - height + 1
	}
}

func (s *TrackerScreen) renderDetail(cat *tracks.Catalog, colors map[string]string, width, height int, compact bool) string {
	var b strings.Builder
	if track, err := cat.Track(s.profile.FocusedTrack()); err == nil {
		current := int(s.profile.Milestone(track.ID))
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.Hex(colors[track.Category])).
			Bold(true).
			Render(track.DisplayName))
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %s · milestone %d · %s",
			track.Category, current, pointsLabel(ladder.Points(ladder.Milestone(current))))))
		b.WriteString("\n")
		if track.Description != "" && !compact {
			b.WriteString(lipgloss.NewStyle().Width(width).Render(theme.Body.Render(track.Description)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(components.MilestoneScale{
			Track:    track,
			Current:  current,
			Detailed: !compact,
		}.View(width))
		b.WriteString("\n")
	}

	totals := s.renderTotals(cat, colors, width)
	detail := clip(b.String(), max(height-lipgloss.Height(totals)-1, 0))
	return detail + "\n" + totals
}

func (s *TrackerScreen) renderTotals(cat *tracks.Catalog, colors map[string]string, width int) string {
	summary := ladder.Summarize(s.profile)

	labelWidth := 0
	for _, c := range summary.Categories {
		labelWidth = max(labelWidth, lipgloss.Width(c.Category))
	}

	var b strings.Builder
	for _, c := range summary.Categories {
		bar := components.NewProgressBar(c.Category, c.Points,
			ladder.MaxCategoryPoints(cat, c.Category), theme.Hex(colors[c.Category]), width)
		bar.LabelWidth = labelWidth
		b.WriteString(bar.View())
		b.WriteString("\n")
	}

	level := "—"
	if summary.HasLevel {
		level = summary.Level
	}
	line := theme.Title.Render(fmt.Sprintf("Total %d", summary.Total)) +
		theme.Subtitle.Render("   Level ") + theme.Body.Render(level)
	if summary.HasNext {
		line += theme.Subtitle.Render(fmt.Sprintf("   %s to next level", pointsLabel(summary.ToNextLevel)))
	}
	b.WriteString(line)
	return b.String()
}

func (s *TrackerScreen) renderShareCode(width int) string {
	code := ladder.EncodePositional(s.profile)
	return theme.Card.Width(max(width-2, 10)).Render(
		theme.Subtitle.Render("Share code ") + theme.Body.Render(truncate(code, max(width-18, 8))))
}

func (s *TrackerScreen) renderStatus() string {
	var parts []string
	if s.Dirty() {
		parts = append(parts, theme.Hint.Render("● unsaved changes"))
	}
	if s.status != "" {
		style := theme.Good
		if s.failed {
			style = theme.Bad
		}
		parts = append(parts, style.Render(s.status))
	}
	return strings.Join(parts, "   ")
}

// clip keeps at most n lines of s.
func clip(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	return strings.Join(lines[:n], "\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
