// Package tracker is the main assessment screen: the track list, the
// focused track's milestones and the running totals.
package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/snowflake-ladder/snowflake/internal/ladder"
	"github.com/snowflake-ladder/snowflake/internal/router"
	"github.com/snowflake-ladder/snowflake/internal/screen"
	"github.com/snowflake-ladder/snowflake/internal/screens/prompt"
	"github.com/snowflake-ladder/snowflake/internal/screens/teamselect"
	"github.com/snowflake-ladder/snowflake/internal/tracks"
	"github.com/snowflake-ladder/snowflake/internal/ui/layout"
)

// saveTimeout bounds a single save round trip.
const saveTimeout = 15 * time.Second

// Saver persists a profile.
type Saver interface {
	Save(ctx context.Context, p ladder.Profile) error
}

// TrackerScreen implements screen.Screen for the assessment itself.
type TrackerScreen struct {
	reg     *tracks.Registry
	saver   Saver
	profile ladder.Profile

	showCode bool
	edits    int
	saved    int
	saving   bool
	status   string
	failed   bool

	scrollOffset int
}

var _ screen.Screen = (*TrackerScreen)(nil)
var _ screen.KeyHintProvider = (*TrackerScreen)(nil)
var _ screen.StatusProvider = (*TrackerScreen)(nil)

// New creates the screen for p. A nil saver disables saving.
func New(reg *tracks.Registry, saver Saver, p ladder.Profile) *TrackerScreen {
	return &TrackerScreen{reg: reg, saver: saver, profile: p}
}

// Profile returns the profile as currently edited.
func (s *TrackerScreen) Profile() ladder.Profile { return s.profile }

// Dirty reports whether there are unsaved changes.
func (s *TrackerScreen) Dirty() bool { return s.edits != s.saved }

func (s *TrackerScreen) Init() tea.Cmd { return nil }

func (s *TrackerScreen) Title() string { return s.profile.Identity().Name() }

func (s *TrackerScreen) HeaderStatus() layout.Status {
	total := s.profile.Points()
	level, ok := ladder.LevelForPoints(total)
	return layout.Status{
		Team:     s.profile.Team(),
		Points:   total,
		Level:    level,
		HasLevel: ok,
	}
}

func (s *TrackerScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Track"},
		{Key: "←→/0-5", Description: "Milestone"},
		{Key: "t", Description: "Team"},
		{Key: "n", Description: "Name"},
		{Key: "e", Description: "Share"},
		{Key: "i", Description: "Import"},
	}
	if s.saver != nil {
		hints = append(hints, layout.KeyHint{Key: "s", Description: "Save"})
	}
	return append(hints, layout.KeyHint{Key: "q", Description: "Quit"})
}

func (s *TrackerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		s.saving = false
		if msg.Err != nil {
			s.setStatus("Save failed: "+msg.Err.Error(), true)
			return s, nil
		}
		s.saved = msg.Edits
		s.setStatus("Saved", false)
		return s, nil

	case teamselect.SelectedMsg:
		if msg.Team == s.profile.Team() {
			return s, nil
		}
		s.edit(s.profile.ChangeTeam(s.reg, msg.Team))
		s.scrollOffset = 0
		s.setStatus("Switched to "+s.profile.Team(), false)
		return s, nil

	case prompt.SubmittedMsg:
		return s.handleSubmitted(msg)

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *TrackerScreen) handleSubmitted(msg prompt.SubmittedMsg) (screen.Screen, tea.Cmd) {
	switch msg.ID {
	case promptName:
		name, _ := msg.Value.(string)
		s.edit(s.profile.WithDisplayName(strings.TrimSpace(name)))
	case promptImport:
		imported, ok := msg.Value.(ladder.Profile)
		if !ok {
			return s, nil
		}
		id := s.profile.Identity()
		if name := imported.Identity().DisplayName; name != "" {
			id.DisplayName = name
		}
		s.edit(imported.WithIdentity(id))
		s.scrollOffset = 0
		s.setStatus("Imported share code", false)
	}
	return s, nil
}

func (s *TrackerScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	switch key {
	case "up", "k":
		s.profile = s.profile.ShiftFocus(-1)
	case "down", "j":
		s.profile = s.profile.ShiftFocus(1)
	case "left", "h":
		s.edit(s.profile.ShiftFocusedMilestone(-1))
	case "right", "l":
		s.edit(s.profile.ShiftFocusedMilestone(1))
	case "0", "1", "2", "3", "4", "5":
		next, err := s.profile.SetMilestone(s.profile.FocusedTrack(), ladder.ParseMilestone(key))
		if err != nil {
			s.setStatus(err.Error(), true)
			return s, nil
		}
		s.edit(next)
	case "t":
		return s, push(teamselect.New(s.reg, s.profile.Team()))
	case "n":
		return s, push(prompt.New(prompt.Config{
			ID:          promptName,
			Title:       "Your name",
			Placeholder: s.profile.Identity().Username,
			Initial:     s.profile.Identity().DisplayName,
			MaxLen:      80,
		}))
	case "i":
		return s, push(s.importPrompt())
	case "e":
		s.showCode = !s.showCode
	case "s":
		return s, s.save()
	case "q":
		return s, tea.Quit
	}
	return s, nil
}

func (s *TrackerScreen) importPrompt() *prompt.PromptScreen {
	reg, team := s.reg, s.profile.Team()
	return prompt.New(prompt.Config{
		ID:          promptImport,
		Title:       "Import a share code",
		Help:        "Paste the part of a shared link after the #.",
		Placeholder: "0,1,3,…,Name,Team",
		Parse: func(code string) (any, error) {
			return ladder.DecodePositional(reg, team, strings.TrimSpace(code))
		},
	})
}

func (s *TrackerScreen) save() tea.Cmd {
	if s.saver == nil {
		s.setStatus("No profile store configured", true)
		return nil
	}
	if s.saving {
		return nil
	}
	s.saving = true
	s.setStatus("Saving…", false)
	saver, p, edits := s.saver, s.profile, s.edits
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		err := saver.Save(ctx, p)
		if err != nil {
			slog.Error("save profile", "username", p.Identity().Username, "error", err)
		}
		return savedMsg{Edits: edits, Err: err}
	}
}

func (s *TrackerScreen) edit(p ladder.Profile) {
	s.profile = p
	s.edits++
}

func (s *TrackerScreen) setStatus(msg string, failed bool) {
	s.status = msg
	s.failed = failed
}

func push(next screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func pointsLabel(points int) string {
	if points == 1 {
		return "1 point"
	}
	return fmt.Sprintf("%d points", points)
}
