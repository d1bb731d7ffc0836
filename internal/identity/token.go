package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/snowflake-ladder/snowflake/internal/ladder"
)

// MinSecretLen is the shortest accepted HMAC secret.
const MinSecretLen = 32

// ErrSecretTooShort is returned for secrets below MinSecretLen bytes.
var ErrSecretTooShort = fmt.Errorf("secret must be at least %d bytes", MinSecretLen)

// Claims is the payload of an identity token.
type Claims struct {
	jwt.RegisteredClaims
	Username    string `json:"username"`
	DisplayName string `json:"display_name,omitempty"`
}

// IssueToken signs an HS256 token for id that expires after ttl.
func IssueToken(secret []byte, id ladder.Identity, ttl time.Duration) (string, error) {
	if len(secret) < MinSecretLen {
		return "", ErrSecretTooShort
	}
	if id.Username == "" {
		return "", ErrNoIdentity
	}
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username:    id.Username,
		DisplayName: id.DisplayName,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken verifies tokenStr and returns the identity it carries. Only
// HS256 is accepted.
func ParseToken(secret []byte, tokenStr string) (ladder.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v (only HS256 allowed)", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return ladder.Identity{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return ladder.Identity{}, errors.New("invalid token")
	}
	if claims.Username == "" {
		return ladder.Identity{}, errors.New("token has no username")
	}
	return ladder.Identity{Username: claims.Username, DisplayName: claims.DisplayName}, nil
}

// Token identifies the user from a signed token. An empty token yields
// ErrNoIdentity; an invalid one is an error.
type Token struct {
	Secret []byte
	Value  string
}

func (t Token) Identify(context.Context) (ladder.Identity, error) {
	if t.Value == "" {
		return ladder.Identity{}, ErrNoIdentity
	}
	id, err := ParseToken(t.Secret, t.Value)
	if err != nil {
		return ladder.Identity{}, fmt.Errorf("identity token: %w", err)
	}
	return id, nil
}
