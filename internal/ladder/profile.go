package ladder

import (
	"maps"

	"github.com/snowflake-ladder/snowflake/internal/tracks"
)

// Identity names the person a profile belongs to.
type Identity struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

// Name returns the display name, falling back to the username.
func (id Identity) Name() string {
	if id.DisplayName != "" {
		return id.DisplayName
	}
	return id.Username
}

// Profile is an immutable snapshot of one person's self-assessment. Every
// operation returns a new Profile and leaves the receiver untouched. The
// milestone map always holds exactly the keys of the active catalog.
//
// The zero Profile has no catalog. It reports an empty team and no tracks,
// and rejects every track-specific edit.
type Profile struct {
	identity   Identity
	catalog    *tracks.Catalog
	milestones map[string]Milestone
	focus      string
}

// NewProfile returns a blank profile for team. Unknown teams use the
// registry's fallback catalog. All milestones start at 0 and the first track
// is focused.
func NewProfile(reg *tracks.Registry, team string, id Identity) Profile {
	return blankProfile(reg.ForTeam(team), id)
}

func blankProfile(cat *tracks.Catalog, id Identity) Profile {
	ms := make(map[string]Milestone, cat.Len())
	for _, trackID := range cat.IDs() {
		ms[trackID] = MinMilestone
	}
	return Profile{
		identity:   id,
		catalog:    cat,
		milestones: ms,
		focus:      cat.First(),
	}
}

// Identity returns who the profile belongs to.
func (p Profile) Identity() Identity { return p.identity }

// Team returns the canonical name of the active catalog.
func (p Profile) Team() string {
	if p.catalog == nil {
		return ""
	}
	return p.catalog.Team()
}

// Catalog returns the active track catalog, or nil for the zero Profile.
func (p Profile) Catalog() *tracks.Catalog { return p.catalog }

// FocusedTrack returns the ID of the focused track.
func (p Profile) FocusedTrack() string { return p.focus }

// FocusIndex returns the position of the focused track in catalog order.
func (p Profile) FocusIndex() int {
	if p.catalog == nil {
		return -1
	}
	return p.catalog.Index(p.focus)
}

// Milestone returns the milestone recorded for trackID. Unknown tracks report 0.
func (p Profile) Milestone(trackID string) Milestone { return p.milestones[trackID] }

// Milestones returns a copy of the milestone map.
func (p Profile) Milestones() map[string]Milestone { return maps.Clone(p.milestones) }

// Ordered returns the milestones in catalog order.
func (p Profile) Ordered() []Milestone {
	if p.catalog == nil {
		return nil
	}
	out := make([]Milestone, 0, p.catalog.Len())
	for _, id := range p.catalog.IDs() {
		out = append(out, p.milestones[id])
	}
	return out
}

// SetMilestone records level for trackID and focuses that track. Levels
// outside [0,5] are coerced to 0.
func (p Profile) SetMilestone(trackID string, level Milestone) (Profile, error) {
	if !p.hasTrack(trackID) {
		return p, &InvalidTrackError{TrackID: trackID, Team: p.Team()}
	}
	next := p.clone()
	next.milestones[trackID] = CoerceMilestone(float64(level))
	next.focus = trackID
	return next, nil
}

// ChangeTeam switches to the catalog for team and discards every rating.
// Tracks with the same ID in both catalogs are not carried across.
func (p Profile) ChangeTeam(reg *tracks.Registry, team string) Profile {
	return blankProfile(reg.ForTeam(team), p.identity)
}

// ShiftFocus moves the focus delta positions through the catalog, wrapping
// at both ends.
func (p Profile) ShiftFocus(delta int) Profile {
	if p.catalog == nil || p.catalog.Len() == 0 {
		return p
	}
	n := p.catalog.Len()
	i := p.FocusIndex()
	if i < 0 {
		i = 0
	}
	i = ((i+delta)%n + n) % n
	next := p.clone()
	next.focus = p.catalog.At(i).ID
	return next
}

// SetFocus focuses trackID.
func (p Profile) SetFocus(trackID string) (Profile, error) {
	if !p.hasTrack(trackID) {
		return p, &InvalidTrackError{TrackID: trackID, Team: p.Team()}
	}
	next := p.clone()
	next.focus = trackID
	return next, nil
}

// ShiftFocusedMilestone adds delta to the focused track's milestone,
// clamped into [0,5].
func (p Profile) ShiftFocusedMilestone(delta int) Profile {
	if !p.hasTrack(p.focus) {
		return p
	}
	next := p.clone()
	next.milestones[p.focus] = ClampDelta(p.milestones[p.focus], delta)
	return next
}

// WithDisplayName replaces the display name.
func (p Profile) WithDisplayName(name string) Profile {
	next := p.clone()
	next.identity.DisplayName = name
	return next
}

// WithIdentity replaces the whole identity.
func (p Profile) WithIdentity(id Identity) Profile {
	next := p.clone()
	next.identity = id
	return next
}

// Points returns the profile's total points.
func (p Profile) Points() int { return GrandTotal(p.milestones) }

func (p Profile) hasTrack(trackID string) bool {
	return p.catalog != nil && p.catalog.Has(trackID)
}

func (p Profile) clone() Profile {
	p.milestones = maps.Clone(p.milestones)
	return p
}
