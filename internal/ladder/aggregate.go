package ladder

import "github.com/snowflake-ladder/snowflake/internal/tracks"

// CategoryPoints is the point total of one category.
type CategoryPoints struct {
	Category string `json:"category"`
	Points   int    `json:"points"`
}

// CategoryTotals sums milestone points per category of cat, in the order
// categories first appear. Categories with no points are included.
func CategoryTotals(cat *tracks.Catalog, milestones map[string]Milestone) []CategoryPoints {
	categories := cat.Categories()
	totals := make([]CategoryPoints, len(categories))
	index := make(map[string]int, len(categories))
	for i, c := range categories {
		totals[i].Category = c
		index[c] = i
	}
	for _, t := range cat.Tracks() {
		totals[index[t.Category]].Points += Points(milestones[t.ID])
	}
	return totals
}

// GrandTotal sums the points of every milestone.
func GrandTotal(milestones map[string]Milestone) int {
	total := 0
	for _, m := range milestones {
		total += Points(m)
	}
	return total
}

type levelThreshold struct {
	points int
	label  string
}

var levelThresholds = []levelThreshold{
	{0, "1.1"}, {5, "1.2"}, {11, "1.3"},
	{17, "2.1"}, {23, "2.2"}, {29, "2.3"},
	{36, "3.1"}, {43, "3.2"}, {50, "3.3"},
	{58, "4.1"}, {66, "4.2"}, {74, "4.3"},
	{90, "5.1"}, {110, "5.2"}, {135, "5.3"},
}

// MaxLevelPoints is the threshold of the highest level.
const MaxLevelPoints = 135

// LevelForPoints returns the label of the highest level whose threshold does
// not exceed points. Totals above MaxLevelPoints or below 0 have no level.
func LevelForPoints(points int) (string, bool) {
	if points < 0 || points > MaxLevelPoints {
		return "", false
	}
	label := levelThresholds[0].label
	for _, lt := range levelThresholds {
		if lt.points > points {
			break
		}
		label = lt.label
	}
	return label, true
}

// PointsToNextLevel returns how many more points reach the next level. It
// reports false at the top level or outside the table.
func PointsToNextLevel(points int) (int, bool) {
	if points < 0 {
		return 0, false
	}
	for _, lt := range levelThresholds {
		if lt.points > points {
			return lt.points - points, true
		}
	}
	return 0, false
}

// MaxCategoryPoints is the most a category of cat can score.
func MaxCategoryPoints(cat *tracks.Catalog, category string) int {
	return len(cat.ByCategory(category)) * Points(MaxMilestone)
}

// Summary aggregates a profile for display.
type Summary struct {
	Team        string            `json:"team"`
	Categories  []CategoryPoints  `json:"categories"`
	Colors      map[string]string `json:"colors"`
	Total       int               `json:"total"`
	Level       string            `json:"level,omitempty"`
	HasLevel    bool              `json:"hasLevel"`
	ToNextLevel int               `json:"toNextLevel,omitempty"`
	HasNext     bool              `json:"hasNext"`
}

// Summarize computes the category totals, colours, total and level of p.
func Summarize(p Profile) Summary {
	total := p.Points()
	level, hasLevel := LevelForPoints(total)
	next, hasNext := PointsToNextLevel(total)
	if p.catalog == nil {
		return Summary{Total: total, Level: level, HasLevel: hasLevel, ToNextLevel: next, HasNext: hasNext}
	}
	return Summary{
		Team:        p.Team(),
		Categories:  CategoryTotals(p.catalog, p.milestones),
		Colors:      CategoryColors(p.catalog),
		Total:       total,
		Level:       level,
		HasLevel:    hasLevel,
		ToNextLevel: next,
		HasNext:     hasNext,
	}
}
