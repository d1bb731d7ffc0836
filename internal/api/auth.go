package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/snowflake-ladder/snowflake/internal/identity"
)

var errForbidden = errors.New("forbidden")

// authorizeWrite checks that the caller may write username's record. With
// auth disabled every write is allowed.
func (s *Server) authorizeWrite(r *http.Request, username string) (int, error) {
	if !s.authEnabled() {
		return http.StatusOK, nil
	}
	if err := identity.TokenError(r.Context()); err != nil {
		return http.StatusUnauthorized, fmt.Errorf("invalid token: %w", err)
	}
	id, ok := identity.FromContext(r.Context())
	if !ok {
		return http.StatusUnauthorized, identity.ErrNoIdentity
	}
	if id.Username != username {
		slog.Warn("write to another user's profile refused", "caller", id.Username, "target", username)
		return http.StatusForbidden, fmt.Errorf("%w: token for %q cannot write %q", errForbidden, id.Username, username)
	}
	return http.StatusOK, nil
}

func authCode(status int) string {
	if status == http.StatusForbidden {
		return "forbidden"
	}
	return "unauthorized"
}
