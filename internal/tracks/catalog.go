package tracks

import (
	"fmt"
	"slices"
)

// Catalog is the immutable, ordered set of tracks defined for one team.
// Track order is the order of the source definition and is load-bearing:
// positional encodings of a profile depend on it.
type Catalog struct {
	team       string
	tracks     []Track
	byID       map[string]int
	categories []string
}

// NewCatalog builds a catalog for team from tracks in the given order.
// It returns an error if the tracks fail structural validation.
func NewCatalog(team string, tracks []Track) (*Catalog, error) {
	if err := validateTracks(team, tracks); err != nil {
		return nil, err
	}

	c := &Catalog{
		team:   team,
		tracks: slices.Clone(tracks),
		byID:   make(map[string]int, len(tracks)),
	}
	seen := make(map[string]bool)
	for i, t := range c.tracks {
		c.byID[t.ID] = i
		if !seen[t.Category] {
			seen[t.Category] = true
			c.categories = append(c.categories, t.Category)
		}
	}
	return c, nil
}

// Team returns the team this catalog belongs to.
func (c *Catalog) Team() string {
	return c.team
}

// Len returns the number of tracks.
func (c *Catalog) Len() int {
	return len(c.tracks)
}

// IDs returns track IDs in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.tracks))
	for i, t := range c.tracks {
		ids[i] = t.ID
	}
	return ids
}

// Tracks returns all tracks in catalog order.
func (c *Catalog) Tracks() []Track {
	return slices.Clone(c.tracks)
}

// At returns the track at position i in catalog order.
func (c *Catalog) At(i int) Track {
	return c.tracks[i]
}

// Index returns the catalog position of a track ID, or -1 if absent.
func (c *Catalog) Index(id string) int {
	i, ok := c.byID[id]
	if !ok {
		return -1
	}
	return i
}

// Has reports whether the catalog defines a track with the given ID.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Track returns a track by ID, or error if not found.
func (c *Catalog) Track(id string) (Track, error) {
	i, ok := c.byID[id]
	if !ok {
		return Track{}, fmt.Errorf("track not found in %s catalog: %q", c.team, id)
	}
	return c.tracks[i], nil
}

// First returns the ID of the first track in catalog order.
func (c *Catalog) First() string {
	return c.tracks[0].ID
}

// Categories returns the distinct track categories in first-occurrence order.
func (c *Catalog) Categories() []string {
	return slices.Clone(c.categories)
}

// ByCategory returns the tracks of one category in catalog order.
func (c *Catalog) ByCategory(category string) []Track {
	var result []Track
	for _, t := range c.tracks {
		if t.Category == category {
			result = append(result, t)
		}
	}
	return result
}
