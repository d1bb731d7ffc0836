// Package teamselect lets the user switch the team whose tracks are assessed.
package teamselect

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/snowflake-ladder/snowflake/internal/router"
	"github.com/snowflake-ladder/snowflake/internal/screen"
	"github.com/snowflake-ladder/snowflake/internal/tracks"
	"github.com/snowflake-ladder/snowflake/internal/ui/components"
	"github.com/snowflake-ladder/snowflake/internal/ui/layout"
	"github.com/snowflake-ladder/snowflake/internal/ui/theme"
)

// SelectedMsg is delivered to the screen below when a team is picked.
type SelectedMsg struct {
	Team string
}

// TeamSelectScreen lists the registered teams.
type TeamSelectScreen struct {
	menu components.Menu
}

var _ screen.Screen = (*TeamSelectScreen)(nil)

// New lists reg's teams with current marked and preselected.
func New(reg *tracks.Registry, current string) *TeamSelectScreen {
	teams := reg.Teams()
	items := make([]components.MenuItem, 0, len(teams))
	selected := 0
	for i, team := range teams {
		cat := reg.ForTeam(team)
		items = append(items, components.MenuItem{
			Label:  team,
			Hint:   fmt.Sprintf("%d tracks", cat.Len()),
			Marked: team == current,
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PopScreenMsg{Result: SelectedMsg{Team: team}}
				}
			},
		})
		if team == current {
			selected = i
		}
	}
	menu := components.NewMenu(items)
	menu.Selected = selected
	return &TeamSelectScreen{menu: menu}
}

func (s *TeamSelectScreen) Init() tea.Cmd { return nil }

func (s *TeamSelectScreen) Title() string { return "Team" }

func (s *TeamSelectScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *TeamSelectScreen) View(width, height int) string {
	body := theme.Title.Render("Choose a team") + "\n" +
		theme.Hint.Render("Switching teams clears the current ratings.") + "\n\n" +
		s.menu.View()
	return components.Centered(components.Card(body, components.ContentWidth(width)), width, height)
}

func (s *TeamSelectScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Cancel"},
	}
}
