package tracks

import (
	"fmt"
	"slices"
)

// DefaultTeam is the team whose catalog is used when a team name is unknown.
const DefaultTeam = "Development"

// Registry holds one catalog per team. A Registry is never mutated after
// construction; With and LoadDir return extended copies.
type Registry struct {
	catalogs map[string]*Catalog
	teams    []string
	fallback string
}

// NewRegistry creates a registry from catalogs in team-selector order.
// fallback names the catalog returned for unknown teams and must be present.
func NewRegistry(fallback string, catalogs ...*Catalog) (*Registry, error) {
	r := &Registry{
		catalogs: make(map[string]*Catalog, len(catalogs)),
		fallback: fallback,
	}
	r = r.With(catalogs...)
	if _, ok := r.catalogs[fallback]; !ok {
		return nil, fmt.Errorf("fallback team %q has no catalog", fallback)
	}
	return r, nil
}

// With returns a copy of the registry with the given catalogs added.
// A catalog for an already-registered team replaces it in place.
func (r *Registry) With(catalogs ...*Catalog) *Registry {
	out := &Registry{
		catalogs: make(map[string]*Catalog, len(r.catalogs)+len(catalogs)),
		teams:    slices.Clone(r.teams),
		fallback: r.fallback,
	}
	for team, c := range r.catalogs {
		out.catalogs[team] = c
	}
	for _, c := range catalogs {
		if _, exists := out.catalogs[c.Team()]; !exists {
			out.teams = append(out.teams, c.Team())
		}
		out.catalogs[c.Team()] = c
	}
	return out
}

// ForTeam returns the catalog for team, falling back to the default
// team's catalog when the name is unknown. It never fails.
func (r *Registry) ForTeam(team string) *Catalog {
	if c, ok := r.catalogs[team]; ok {
		return c
	}
	return r.catalogs[r.fallback]
}

// Lookup returns the catalog registered for team, if any.
func (r *Registry) Lookup(team string) (*Catalog, bool) {
	c, ok := r.catalogs[team]
	return c, ok
}

// Teams returns the registered team names in selector order.
func (r *Registry) Teams() []string {
	return slices.Clone(r.teams)
}

// Fallback returns the team used for unknown team names.
func (r *Registry) Fallback() string {
	return r.fallback
}
