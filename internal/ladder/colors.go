package ladder

import "github.com/snowflake-ladder/snowflake/internal/tracks"

// Palette is the category colour cycle.
var Palette = []string{"#707372", "#009ca6", "#d0df00", "#ff8200"}

// CategoryColors assigns palette colours to the categories of cat in
// discovery order, cycling when there are more categories than colours.
func CategoryColors(cat *tracks.Catalog) map[string]string {
	colors := make(map[string]string)
	for i, c := range cat.Categories() {
		colors[c] = Palette[i%len(Palette)]
	}
	return colors
}
