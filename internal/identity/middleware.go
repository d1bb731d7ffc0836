package identity

import (
	"context"
	"net/http"
	"strings"

	"github.com/snowflake-ladder/snowflake/internal/ladder"
)

type identityKey struct{}
type tokenErrKey struct{}

// WithContext stores id in ctx.
func WithContext(ctx context.Context, id ladder.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by Middleware, if any.
func FromContext(ctx context.Context) (ladder.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(ladder.Identity)
	return id, ok
}

// TokenError returns the verification error of a presented but rejected
// bearer token.
func TokenError(ctx context.Context) error {
	err, _ := ctx.Value(tokenErrKey{}).(error)
	return err
}

// Middleware verifies an "Authorization: Bearer" token and stores the
// identity in the request context. Requests without a token pass through
// untouched; handlers decide whether an identity is required.
func Middleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			tokenStr, found := strings.CutPrefix(h, "Bearer ")
			if !found || tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			id, err := ParseToken(secret, tokenStr)
			if err != nil {
				ctx = context.WithValue(ctx, tokenErrKey{}, err)
			} else {
				ctx = WithContext(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
