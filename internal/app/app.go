// Package app hosts the Bubble Tea program.
package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/snowflake-ladder/snowflake/internal/ladder"
	"github.com/snowflake-ladder/snowflake/internal/router"
	"github.com/snowflake-ladder/snowflake/internal/screen"
	"github.com/snowflake-ladder/snowflake/internal/screens/tracker"
	"github.com/snowflake-ladder/snowflake/internal/screens/welcome"
	"github.com/snowflake-ladder/snowflake/internal/tracks"
	"github.com/snowflake-ladder/snowflake/internal/ui/layout"
)

// Options configures the interactive session.
type Options struct {
	Registry *tracks.Registry
	// Saver is nil when no profile store is available.
	Saver   tracker.Saver
	Profile ladder.Profile
	// Welcome shows the splash screen first.
	Welcome bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel with the tracker as the root screen,
// behind the splash when opts.Welcome is set.
func newAppModel(opts Options) AppModel {
	newTracker := func() screen.Screen {
		return tracker.New(opts.Registry, opts.Saver, opts.Profile)
	}
	root := newTracker()
	if opts.Welcome {
		root = welcome.New(welcome.Intro{
			Name:   opts.Profile.Identity().Name(),
			Team:   opts.Profile.Team(),
			Tracks: opts.Profile.Catalog().Len(),
		}, newTracker)
	}
	return AppModel{
		router: router.New(root),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
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

// render composes the frame for the current window size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	var status layout.Status
	if sp, ok := m.router.Root().(screen.StatusProvider); ok {
		status = sp.HeaderStatus()
	}
	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if kp, ok := active.(screen.KeyHintProvider); ok {
		if hints := kp.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
