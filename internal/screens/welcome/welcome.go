// Package welcome is the splash shown before a first assessment.
package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/snowflake-ladder/snowflake/internal/router"
	"github.com/snowflake-ladder/snowflake/internal/screen"
	"github.com/snowflake-ladder/snowflake/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	growEnd      = 800 * time.Millisecond
	bannerAt     = 1200 * time.Millisecond
	totalDur     = 2000 * time.Millisecond
)

// flakeFrames grow the snowflake one ring at a time.
var flakeFrames = []string{
	`


        ❄


`,
	`

      \ | /
     -- ❄ --
      / | \

`,
	`
    \   |   /
     \  |  /
   ---- ❄ ----
     /  |  \
    /   |   \
`,
	`  *  \   |   /  *
      \  |  /
 *---- \ | / ----*
 ------- ❄ -------
 *---- / | \ ----*
      /  |  \
  *  /   |   \  *`,
}

// palette the finished snowflake cycles through.
var palette = []string{"#009ca6", "#d0df00", "#ff8200", "#707372"}

type tickMsg time.Time

// Intro describes what the user is about to assess.
type Intro struct {
	Name   string
	Team   string
	Tracks int
}

// WelcomeScreen shows a splash animation before handing over to the
// assessment. Any key skips it.
type WelcomeScreen struct {
	intro        Intro
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that replaces itself with the screen produced
// by next.
func New(intro Intro, next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{intro: intro, next: next}
}

func (w *WelcomeScreen) Title() string {
	return "Welcome"
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) frame() string {
	if w.elapsed >= growEnd {
		return flakeFrames[len(flakeFrames)-1]
	}
	i := int(w.elapsed * time.Duration(len(flakeFrames)) / growEnd)
	return flakeFrames[min(i, len(flakeFrames)-1)]
}

func (w *WelcomeScreen) View(width, height int) string {
	color := palette[0]
	if w.elapsed >= growEnd {
		color = palette[(w.tickCount/3)%len(palette)]
	}
	sections := []string{
		lipgloss.NewStyle().Foreground(theme.Hex(color)).Render(w.frame()),
	}

	if w.elapsed >= bannerAt {
		sections = append(sections, "", RenderBanner(width), "")

		greeting := "Welcome!"
		if w.intro.Name != "" {
			greeting = fmt.Sprintf("Welcome, %s!", w.intro.Name)
		}
		sections = append(sections,
			theme.Body.Bold(true).Render(greeting),
			theme.Subtitle.Render(fmt.Sprintf("Rate yourself on the %d %s tracks to find your level.",
				w.intro.Tracks, w.intro.Team)),
		)
	}

	sections = append(sections, "", theme.Hint.Render("press any key to start"))

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.TrimRight(content, "\n"))
}
