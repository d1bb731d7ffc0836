package ladder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrandTotal(t *testing.T) {
	assert.Equal(t, 23, GrandTotal(map[string]Milestone{"X": 2, "Y": 0, "Z": 5}))
	assert.Equal(t, 0, GrandTotal(nil))
}

func TestCategoryTotals(t *testing.T) {
	reg := testRegistry(t)
	p := withMilestones(t, NewProfile(reg, "Alpha", Identity{}),
		map[string]Milestone{"X": 1, "Z": 3})

	got := CategoryTotals(p.Catalog(), p.Milestones())
	assert.Equal(t, []CategoryPoints{{Category: "A", Points: 7}, {Category: "B", Points: 0}}, got)
}

func TestLevelForPoints(t *testing.T) {
	tests := []struct {
		points int
		want   string
		ok     bool
	}{
		{0, "1.1", true},
		{4, "1.1", true},
		{5, "1.2", true},
		{22, "2.1", true},
		{23, "2.2", true},
		{89, "4.3", true},
		{135, "5.3", true},
		{136, "", false},
		{1000, "", false},
		{-1, "", false},
	}
	for _, tt := range tests {
		got, ok := LevelForPoints(tt.points)
		assert.Equal(t, tt.ok, ok, "points %d", tt.points)
		assert.Equal(t, tt.want, got, "points %d", tt.points)
	}
}

func TestPointsToNextLevel(t *testing.T) {
	n, ok := PointsToNextLevel(23)
	assert.True(t, ok)
	assert.Equal(t, 6, n)

	n, ok = PointsToNextLevel(134)
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = PointsToNextLevel(135)
	assert.False(t, ok)
}

func TestMaxCategoryPoints(t *testing.T) {
	cat := testRegistry(t).ForTeam("Alpha")
	assert.Equal(t, 40, MaxCategoryPoints(cat, "A"))
	assert.Equal(t, 0, MaxCategoryPoints(cat, "missing"))
}

func TestCategoryColors_Cycles(t *testing.T) {
	cat := newCatalog(t, "Wide",
		trackDef{"T1", "c1"}, trackDef{"T2", "c2"}, trackDef{"T3", "c3"},
		trackDef{"T4", "c4"}, trackDef{"T5", "c5"}, trackDef{"T6", "c1"})

	colors := CategoryColors(cat)
	assert.Len(t, colors, 5)
	assert.Equal(t, "#707372", colors["c1"])
	assert.Equal(t, "#ff8200", colors["c4"])
	assert.Equal(t, "#707372", colors["c5"])
}

func TestSummarize(t *testing.T) {
	reg := testRegistry(t)
	p := withMilestones(t, NewProfile(reg, "Alpha", Identity{}),
		map[string]Milestone{"X": 2, "Z": 5})

	s := Summarize(p)
	assert.Equal(t, 23, s.Total)
	assert.Equal(t, "2.2", s.Level)
	assert.True(t, s.HasLevel)
	assert.Equal(t, 6, s.ToNextLevel)
	assert.Equal(t, "#009ca6", s.Colors["B"])
}
