// Package identity resolves who is taking the assessment.
package identity

import (
	"context"
	"errors"
	"os/user"
	"strings"

	"github.com/snowflake-ladder/snowflake/internal/ladder"
)

// ErrNoIdentity is returned when a provider cannot determine a user.
var ErrNoIdentity = errors.New("no identity available")

// Provider resolves the current user.
type Provider interface {
	Identify(ctx context.Context) (ladder.Identity, error)
}

// Static returns a fixed identity. An empty username yields ErrNoIdentity.
type Static ladder.Identity

func (s Static) Identify(context.Context) (ladder.Identity, error) {
	if s.Username == "" {
		return ladder.Identity{}, ErrNoIdentity
	}
	return ladder.Identity(s), nil
}

// System identifies the operating-system user running the process.
type System struct {
	// Current defaults to user.Current.
	Current func() (*user.User, error)
}

func (s System) Identify(context.Context) (ladder.Identity, error) {
	current := s.Current
	if current == nil {
		current = user.Current
	}
	u, err := current()
	if err != nil || u.Username == "" {
		return ladder.Identity{}, ErrNoIdentity
	}
	// Windows usernames come back as DOMAIN\user.
	name := u.Username
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		name = name[i+1:]
	}
	display := strings.TrimSpace(strings.SplitN(u.Name, ",", 2)[0])
	return ladder.Identity{Username: name, DisplayName: display}, nil
}

// Chain tries each provider in order and returns the first identity found.
// Errors other than ErrNoIdentity stop the chain.
type Chain []Provider

func (c Chain) Identify(ctx context.Context) (ladder.Identity, error) {
	for _, p := range c {
		id, err := p.Identify(ctx)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, ErrNoIdentity) {
			return ladder.Identity{}, err
		}
	}
	return ladder.Identity{}, ErrNoIdentity
}
