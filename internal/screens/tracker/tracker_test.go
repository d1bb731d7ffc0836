package tracker

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowflake-ladder/snowflake/internal/ladder"
	"github.com/snowflake-ladder/snowflake/internal/router"
	"github.com/snowflake-ladder/snowflake/internal/screens/prompt"
	"github.com/snowflake-ladder/snowflake/internal/screens/teamselect"
	"github.com/snowflake-ladder/snowflake/internal/tracks"
)

// mockSaver records saved profiles.
type mockSaver struct {
	saved []ladder.Profile
	err   error
}

func (m *mockSaver) Save(_ context.Context, p ladder.Profile) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, p)
	return nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newTracker(t *testing.T, saver Saver) (*TrackerScreen, *tracks.Registry) {
	t.Helper()
	reg, err := tracks.Builtin()
	require.NoError(t, err)
	p := ladder.NewProfile(reg, tracks.DefaultTeam, ladder.Identity{Username: "ada", DisplayName: "Ada"})
	return New(reg, saver, p), reg
}

func TestTracker_FocusWrapsAround(t *testing.T) {
	s, _ := newTracker(t, nil)
	cat := s.Profile().Catalog()
	first := cat.At(0).ID
	last := cat.At(cat.Len() - 1).ID

	assert.Equal(t, first, s.Profile().FocusedTrack())
	s.Update(specialKey(tea.KeyUp))
	assert.Equal(t, last, s.Profile().FocusedTrack())
	s.Update(keyPress('j'))
	assert.Equal(t, first, s.Profile().FocusedTrack())
	s.Update(specialKey(tea.KeyDown))
	assert.Equal(t, cat.At(1).ID, s.Profile().FocusedTrack())
}

func TestTracker_MilestoneKeys(t *testing.T) {
	s, _ := newTracker(t, nil)
	focus := s.Profile().FocusedTrack()

	s.Update(keyPress('3'))
	assert.Equal(t, ladder.Milestone(3), s.Profile().Milestone(focus))
	assert.Equal(t, 6, s.Profile().Points())

	s.Update(specialKey(tea.KeyRight))
	s.Update(keyPress('l'))
	s.Update(keyPress('l'))
	assert.Equal(t, ladder.Milestone(5), s.Profile().Milestone(focus), "clamped at 5")

	s.Update(keyPress('0'))
	s.Update(specialKey(tea.KeyLeft))
	s.Update(keyPress('h'))
	assert.Equal(t, ladder.Milestone(0), s.Profile().Milestone(focus), "clamped at 0")
	assert.True(t, s.Dirty())
}

func TestTracker_FocusMoveIsNotAnEdit(t *testing.T) {
	s, _ := newTracker(t, nil)
	s.Update(keyPress('j'))
	s.Update(keyPress('k'))
	assert.False(t, s.Dirty())
}

func TestTracker_HeaderStatus(t *testing.T) {
	s, _ := newTracker(t, nil)
	s.Update(keyPress('5'))
	s.Update(keyPress('j'))
	s.Update(keyPress('1'))

	st := s.HeaderStatus()
	assert.Equal(t, tracks.DefaultTeam, st.Team)
	assert.Equal(t, 21, st.Points)
	assert.True(t, st.HasLevel)
	assert.Equal(t, "2.1", st.Level)
}

func TestTracker_SaveReportsSuccess(t *testing.T) {
	saver := &mockSaver{}
	s, _ := newTracker(t, saver)
	s.Update(keyPress('2'))

	_, cmd := s.Update(keyPress('s'))
	require.NotNil(t, cmd)
	msg := cmd()
	require.Len(t, saver.saved, 1)
	assert.Equal(t, ladder.Milestone(2), saver.saved[0].Milestone(saver.saved[0].FocusedTrack()))

	s.Update(msg)
	assert.False(t, s.Dirty())
	assert.Contains(t, s.View(120, 40), "Saved")
}

func TestTracker_EditDuringSaveStaysDirty(t *testing.T) {
	saver := &mockSaver{}
	s, _ := newTracker(t, saver)
	s.Update(keyPress('2'))

	_, cmd := s.Update(keyPress('s'))
	require.NotNil(t, cmd)
	s.Update(keyPress('4'))
	s.Update(cmd())

	assert.True(t, s.Dirty())
}

func TestTracker_SaveFailureKeepsDirty(t *testing.T) {
	s, _ := newTracker(t, &mockSaver{err: errors.New("store offline")})
	s.Update(keyPress('1'))

	_, cmd := s.Update(keyPress('s'))
	require.NotNil(t, cmd)
	s.Update(cmd())

	assert.True(t, s.Dirty())
	assert.Contains(t, s.View(120, 40), "store offline")
}

func TestTracker_SaveWithoutStore(t *testing.T) {
	s, _ := newTracker(t, nil)
	_, cmd := s.Update(keyPress('s'))
	assert.Nil(t, cmd)
	assert.Contains(t, s.View(120, 40), "No profile store")
}

func TestTracker_TeamKeyOpensSelector(t *testing.T) {
	s, _ := newTracker(t, nil)
	_, cmd := s.Update(keyPress('t'))
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	_, ok = push.Screen.(*teamselect.TeamSelectScreen)
	assert.True(t, ok)
}

func TestTracker_TeamChangeResetsRatings(t *testing.T) {
	s, reg := newTracker(t, nil)
	s.Update(keyPress('4'))

	s.Update(teamselect.SelectedMsg{Team: "Product"})
	assert.Equal(t, "Product", s.Profile().Team())
	assert.Equal(t, 0, s.Profile().Points())
	assert.Equal(t, reg.ForTeam("Product").First(), s.Profile().FocusedTrack())
	assert.Equal(t, "ada", s.Profile().Identity().Username)
}

func TestTracker_SameTeamKeepsRatings(t *testing.T) {
	s, _ := newTracker(t, nil)
	s.Update(keyPress('4'))
	s.Update(teamselect.SelectedMsg{Team: tracks.DefaultTeam})
	assert.Equal(t, 12, s.Profile().Points())
}

func TestTracker_NamePrompt(t *testing.T) {
	s, _ := newTracker(t, nil)
	_, cmd := s.Update(keyPress('n'))
	require.NotNil(t, cmd)
	_, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)

	s.Update(prompt.SubmittedMsg{ID: promptName, Value: "  Ada Lovelace "})
	assert.Equal(t, "Ada Lovelace", s.Profile().Identity().DisplayName)
	assert.Equal(t, "ada", s.Profile().Identity().Username)
	assert.Equal(t, "Ada Lovelace", s.Title())
}

func TestTracker_ImportKeepsUsername(t *testing.T) {
	s, reg := newTracker(t, nil)
	donor := ladder.NewProfile(reg, "Design", ladder.Identity{Username: "grace", DisplayName: "Grace"})
	donor, err := donor.SetMilestone(donor.FocusedTrack(), 3)
	require.NoError(t, err)
	code := ladder.EncodePositional(donor)

	_, cmd := s.Update(keyPress('i'))
	require.NotNil(t, cmd)
	push := cmd().(router.PushScreenMsg)
	dialog := push.Screen.(*prompt.PromptScreen)
	for _, r := range code {
		dialog.Update(keyPress(r))
	}
	_, cmd = dialog.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	pop := cmd().(router.PopScreenMsg)

	s.Update(pop.Result)
	assert.Equal(t, "Design", s.Profile().Team())
	assert.Equal(t, 6, s.Profile().Points())
	assert.Equal(t, "ada", s.Profile().Identity().Username)
	assert.Equal(t, "Grace", s.Profile().Identity().DisplayName)
}

func TestTracker_ImportRejectsMalformed(t *testing.T) {
	s, _ := newTracker(t, nil)
	dialog := s.importPrompt()
	for _, r := range "1,2,3" {
		dialog.Update(keyPress(r))
	}
	_, cmd := dialog.Update(specialKey(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.ErrorIs(t, dialog.Err(), ladder.ErrMalformedEncoding)
}

func TestTracker_ShareCodeToggle(t *testing.T) {
	s, _ := newTracker(t, nil)
	code := ladder.EncodePositional(s.Profile())

	assert.NotContains(t, s.View(200, 40), "Share code")
	s.Update(keyPress('e'))
	view := s.View(200, 40)
	assert.Contains(t, view, "Share code")
	assert.Contains(t, view, code)
}

func TestTracker_ViewShowsTracksAndTotals(t *testing.T) {
	s, _ := newTracker(t, nil)
	view := s.View(120, 40)

	first := s.Profile().Catalog().At(0)
	assert.Contains(t, view, first.DisplayName)
	assert.Contains(t, view, first.Category)
	assert.Contains(t, view, "Total 0")
	assert.Contains(t, view, "to next level")
}

func TestTracker_ViewFitsHeight(t *testing.T) {
	s, _ := newTracker(t, nil)
	for _, h := range []int{10, 18, 30} {
		view := s.View(80, h)
		assert.LessOrEqual(t, len(strings.Split(view, "\n")), h, "height %d", h)
	}
}

func TestTracker_ScrollFollowsFocus(t *testing.T) {
	s, _ := newTracker(t, nil)
	cat := s.Profile().Catalog()
	for range cat.Len() - 1 {
		s.Update(keyPress('j'))
	}
	last := cat.At(cat.Len() - 1)
	view := s.View(120, 12)
	assert.Contains(t, view, last.DisplayName)
	assert.NotContains(t, view, cat.At(0).DisplayName)
}

func TestTracker_Quit(t *testing.T) {
	s, _ := newTracker(t, nil)
	_, cmd := s.Update(keyPress('q'))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestTracker_KeyHints(t *testing.T) {
	without, _ := newTracker(t, nil)
	with, _ := newTracker(t, &mockSaver{})
	assert.Len(t, with.KeyHints(), len(without.KeyHints())+1)
}
