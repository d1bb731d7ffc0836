// Package assessment ties an identity, the track catalogs and a profile
// repository together.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/snowflake-ladder/snowflake/internal/identity"
	"github.com/snowflake-ladder/snowflake/internal/ladder"
	"github.com/snowflake-ladder/snowflake/internal/store"
	"github.com/snowflake-ladder/snowflake/internal/tracks"
)

// Repository loads and stores profile records. Both store.ProfileRepo and
// the HTTP client satisfy it.
type Repository interface {
	Get(ctx context.Context, username string) (ladder.Record, error)
	Save(ctx context.Context, rec ladder.Record) error
}

// Service loads and saves assessments.
type Service struct {
	reg         *tracks.Registry
	repo        Repository
	defaultTeam string
}

// New returns a Service. New profiles start on defaultTeam.
func New(reg *tracks.Registry, repo Repository, defaultTeam string) *Service {
	return &Service{reg: reg, repo: repo, defaultTeam: defaultTeam}
}

// Registry returns the catalogs the service decodes against.
func (s *Service) Registry() *tracks.Registry { return s.reg }

// Load returns id's stored profile, or a blank one when nothing is stored.
func (s *Service) Load(ctx context.Context, id ladder.Identity) (ladder.Profile, error) {
	if id.Username == "" {
		return ladder.Profile{}, identity.ErrNoIdentity
	}
	rec, err := s.repo.Get(ctx, id.Username)
	if errors.Is(err, store.ErrNotFound) {
		slog.Debug("no stored profile", "username", id.Username)
		return ladder.NewProfile(s.reg, s.defaultTeam, id), nil
	}
	if err != nil {
		return ladder.Profile{}, fmt.Errorf("load profile %q: %w", id.Username, err)
	}

	p, err := ladder.DecodeRecord(s.reg, rec)
	if err != nil {
		return ladder.Profile{}, fmt.Errorf("decode profile %q: %w", id.Username, err)
	}
	if rec.Name == "" && id.DisplayName != "" {
		p = p.WithDisplayName(id.DisplayName)
	}
	return p, nil
}

// Save stores p under its username.
func (s *Service) Save(ctx context.Context, p ladder.Profile) error {
	if p.Identity().Username == "" {
		return identity.ErrNoIdentity
	}
	if err := s.repo.Save(ctx, ladder.EncodeRecord(p)); err != nil {
		return fmt.Errorf("save profile %q: %w", p.Identity().Username, err)
	}
	slog.Info("profile saved", "username", p.Identity().Username, "team", p.Team(), "points", p.Points())
	return nil
}

// Summary aggregates p for display.
func (s *Service) Summary(p ladder.Profile) ladder.Summary {
	return ladder.Summarize(p)
}
