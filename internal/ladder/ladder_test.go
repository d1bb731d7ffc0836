package ladder

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/snowflake-ladder/snowflake/internal/tracks"
)

type trackDef struct {
	id, category string
}

func newCatalog(t *testing.T, team string, defs ...trackDef) *tracks.Catalog {
	t.Helper()
	ts := make([]tracks.Track, len(defs))
	for i, d := range defs {
		ts[i] = tracks.Track{ID: d.id, DisplayName: d.id, Category: d.category}
		for j := range ts[i].Milestones {
			ts[i].Milestones[j].Summary = "level"
		}
	}
	cat, err := tracks.NewCatalog(team, ts)
	require.NoError(t, err)
	return cat
}

// testRegistry has Alpha (3 tracks, fallback), Beta (5 tracks) and Gamma
// (3 tracks, different IDs).
func testRegistry(t *testing.T) *tracks.Registry {
	t.Helper()
	alpha := newCatalog(t, "Alpha",
		trackDef{"X", "A"}, trackDef{"Y", "B"}, trackDef{"Z", "A"})
	beta := newCatalog(t, "Beta",
		trackDef{"B1", "Core"}, trackDef{"B2", "Core"}, trackDef{"B3", "Core"},
		trackDef{"B4", "Reach"}, trackDef{"B5", "Reach"})
	gamma := newCatalog(t, "Gamma",
		trackDef{"G1", "Only"}, trackDef{"G2", "Only"}, trackDef{"G3", "Only"})
	reg, err := tracks.NewRegistry("Alpha", alpha, beta, gamma)
	require.NoError(t, err)
	return reg
}

func withMilestones(t *testing.T, p Profile, levels map[string]Milestone) Profile {
	t.Helper()
	for id, m := range levels {
		var err error
		p, err = p.SetMilestone(id, m)
		require.NoError(t, err)
	}
	return p
}
