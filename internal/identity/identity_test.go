package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os/user"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowflake-ladder/snowflake/internal/ladder"
)

var testSecret = []byte(strings.Repeat("s", MinSecretLen))

func TestStatic(t *testing.T) {
	id, err := Static{Username: "ada", DisplayName: "Ada"}.Identify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ladder.Identity{Username: "ada", DisplayName: "Ada"}, id)

	_, err = Static{}.Identify(context.Background())
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestSystem(t *testing.T) {
	s := System{Current: func() (*user.User, error) {
		return &user.User{Username: `CORP\grace`, Name: "Grace Hopper,,,"}, nil
	}}
	id, err := s.Identify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "grace", id.Username)
	assert.Equal(t, "Grace Hopper", id.DisplayName)

	failing := System{Current: func() (*user.User, error) { return nil, errors.New("no passwd") }}
	_, err = failing.Identify(context.Background())
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestChain(t *testing.T) {
	c := Chain{Static{}, Static{Username: "second"}}
	id, err := c.Identify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", id.Username)

	_, err = Chain{Static{}}.Identify(context.Background())
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestChain_StopsOnHardError(t *testing.T) {
	c := Chain{Token{Secret: testSecret, Value: "garbage"}, Static{Username: "never"}}
	_, err := c.Identify(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoIdentity)
}

func TestIssueAndParseToken(t *testing.T) {
	tok, err := IssueToken(testSecret, ladder.Identity{Username: "ada", DisplayName: "Ada"}, time.Hour)
	require.NoError(t, err)

	id, err := ParseToken(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, ladder.Identity{Username: "ada", DisplayName: "Ada"}, id)

	got, err := Token{Secret: testSecret, Value: tok}.Identify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada", got.Username)
}

func TestIssueToken_Rejects(t *testing.T) {
	_, err := IssueToken([]byte("short"), ladder.Identity{Username: "ada"}, time.Hour)
	assert.ErrorIs(t, err, ErrSecretTooShort)

	_, err = IssueToken(testSecret, ladder.Identity{}, time.Hour)
	assert.ErrorIs(t, err, ErrNoIdentity)
}

func TestParseToken_Rejects(t *testing.T) {
	expired, err := IssueToken(testSecret, ladder.Identity{Username: "ada"}, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, expired)
	assert.Error(t, err)

	good, err := IssueToken(testSecret, ladder.Identity{Username: "ada"}, time.Hour)
	require.NoError(t, err)
	_, err = ParseToken([]byte(strings.Repeat("x", MinSecretLen)), good)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Username: "ada"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, unsigned)
	assert.Error(t, err)
}

func TestMiddleware(t *testing.T) {
	tok, err := IssueToken(testSecret, ladder.Identity{Username: "ada"}, time.Hour)
	require.NoError(t, err)

	var gotID ladder.Identity
	var gotOK bool
	var gotErr error
	h := Middleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = FromContext(r.Context())
		gotErr = TokenError(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, gotOK)
	assert.Equal(t, "ada", gotID.Username)
	assert.NoError(t, gotErr)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, gotOK)
	assert.NoError(t, gotErr)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.False(t, gotOK)
	assert.Error(t, gotErr)
}
