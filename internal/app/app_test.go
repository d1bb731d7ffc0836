package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowflake-ladder/snowflake/internal/ladder"
	"github.com/snowflake-ladder/snowflake/internal/router"
	"github.com/snowflake-ladder/snowflake/internal/screens/teamselect"
	"github.com/snowflake-ladder/snowflake/internal/screens/tracker"
	"github.com/snowflake-ladder/snowflake/internal/screens/welcome"
	"github.com/snowflake-ladder/snowflake/internal/tracks"
)

func newModel(t *testing.T) AppModel {
	t.Helper()
	reg, err := tracks.Builtin()
	require.NoError(t, err)
	p := ladder.NewProfile(reg, tracks.DefaultTeam, ladder.Identity{Username: "ada"})
	m := newAppModel(Options{Registry: reg, Profile: p})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(AppModel)
}

// drive feeds msg to m and runs any resulting navigation command.
func drive(t *testing.T, m AppModel, msg tea.Msg) AppModel {
	t.Helper()
	updated, cmd := m.Update(msg)
	m = updated.(AppModel)
	if cmd == nil {
		return m
	}
	switch next := cmd().(type) {
	case router.PushScreenMsg, router.PopScreenMsg:
		updated, _ = m.Update(next)
		m = updated.(AppModel)
	}
	return m
}

func TestApp_ViewHasHeaderAndFooter(t *testing.T) {
	m := newModel(t)
	content := m.render()
	assert.Contains(t, content, "Snowflake")
	assert.Contains(t, content, tracks.DefaultTeam)
	assert.Contains(t, content, "0 pts")
	assert.Contains(t, content, "Milestone")
}

func TestApp_TooSmall(t *testing.T) {
	m := newModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})
	assert.Contains(t, updated.(AppModel).render(), "Terminal too small")
}

func TestApp_EscPopsDialog(t *testing.T) {
	m := newModel(t)
	m = drive(t, m, tea.KeyPressMsg{Code: 't', Text: "t"})
	require.Equal(t, 2, m.router.Depth())
	_, ok := m.router.Active().(*teamselect.TeamSelectScreen)
	require.True(t, ok)

	m = drive(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Equal(t, 1, m.router.Depth())
}

func TestApp_EscAtRootIsNoop(t *testing.T) {
	m := newModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd)
}

func TestApp_TeamSelectionReachesTracker(t *testing.T) {
	m := newModel(t)
	m = drive(t, m, tea.KeyPressMsg{Code: 't', Text: "t"})
	m = drive(t, m, tea.KeyPressMsg{Code: tea.KeyDown})
	m = drive(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	require.Equal(t, 1, m.router.Depth())
	reg, err := tracks.Builtin()
	require.NoError(t, err)
	root := m.router.Root().(*tracker.TrackerScreen)
	assert.Equal(t, reg.Teams()[1], root.Profile().Team())
	assert.False(t, strings.Contains(m.render(), "Choose a team"))
}

func TestApp_HeaderFollowsRootWhileDialogOpen(t *testing.T) {
	m := newModel(t)
	m = drive(t, m, tea.KeyPressMsg{Code: '3', Text: "3"})
	m = drive(t, m, tea.KeyPressMsg{Code: 'n', Text: "n"})
	require.Equal(t, 2, m.router.Depth())
	assert.Contains(t, m.render(), "6 pts")
}

func TestApp_CtrlCQuits(t *testing.T) {
	m := newModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestApp_WelcomeHandsOverToTracker(t *testing.T) {
	reg, err := tracks.Builtin()
	require.NoError(t, err)
	p := ladder.NewProfile(reg, "Product", ladder.Identity{Username: "ada"})
	m := newAppModel(Options{Registry: reg, Profile: p, Welcome: true})

	_, ok := m.router.Root().(*welcome.WelcomeScreen)
	require.True(t, ok)

	updated, cmd := m.Update(tea.KeyPressMsg{Code: ' ', Text: " "})
	m = updated.(AppModel)
	require.NotNil(t, cmd)
	updated, _ = m.Update(cmd())
	m = updated.(AppModel)

	root, ok := m.router.Root().(*tracker.TrackerScreen)
	require.True(t, ok)
	assert.Equal(t, "Product", root.Profile().Team())
	assert.Equal(t, 1, m.router.Depth())
}
