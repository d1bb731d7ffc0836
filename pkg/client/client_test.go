package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowflake-ladder/snowflake/internal/api"
	"github.com/snowflake-ladder/snowflake/internal/identity"
	"github.com/snowflake-ladder/snowflake/internal/ladder"
	"github.com/snowflake-ladder/snowflake/internal/store"
	"github.com/snowflake-ladder/snowflake/internal/tracks"
)

func newServer(t *testing.T, secret []byte) *httptest.Server {
	t.Helper()
	reg, err := tracks.Builtin()
	require.NoError(t, err)
	srv := httptest.NewServer(api.NewServer(api.Options{
		Registry:   reg,
		Repo:       store.NewMemory(),
		AuthSecret: secret,
	}).Router())
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_RoundTrip(t *testing.T) {
	srv := newServer(t, nil)
	c := New(srv.URL+"/", WithTimeout(5*time.Second))
	ctx := context.Background()

	_, err := c.Get(ctx, "ada")
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrNotFound))

	rec := ladder.Record{Username: "ada", Name: "Ada", Team: "Product", TracksByTeam: "0,1,2,3,4,5,0,1"}
	require.NoError(t, c.Save(ctx, rec))

	got, err := c.Get(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	sum, err := c.Summary(ctx, "ada")
	require.NoError(t, err)
	assert.Equal(t, "Product", sum.Team)
	assert.Equal(t, 0+1+3+6+12+20+0+1, sum.Total)

	require.NoError(t, c.Delete(ctx, "ada"))
	assert.ErrorIs(t, c.Delete(ctx, "ada"), store.ErrNotFound)
}

func TestClient_Teams(t *testing.T) {
	c := New(newServer(t, nil).URL)
	teams, err := c.Teams(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 4)
	assert.Equal(t, "Quality Assurance", teams[3].Team)
}

func TestClient_UsernameEscaping(t *testing.T) {
	c := New(newServer(t, nil).URL)
	ctx := context.Background()
	rec := ladder.Record{Username: "ada lovelace", Team: "Design", TracksByTeam: "0,0,0,0,0,0,0,0"}
	require.NoError(t, c.Save(ctx, rec))

	got, err := c.Get(ctx, "ada lovelace")
	require.NoError(t, err)
	assert.Equal(t, "ada lovelace", got.Username)
}

func TestClient_Token(t *testing.T) {
	secret := []byte(strings.Repeat("t", identity.MinSecretLen))
	srv := newServer(t, secret)
	ctx := context.Background()
	rec := ladder.Record{Username: "ada", Team: "Design", TracksByTeam: "1,1,1,1,1,1,1,1"}

	err := New(srv.URL).Save(ctx, rec)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	tok, err := identity.IssueToken(secret, ladder.Identity{Username: "ada"}, time.Hour)
	require.NoError(t, err)
	require.NoError(t, New(srv.URL, WithToken(tok)).Save(ctx, rec))
}

func TestClient_RejectsNonCanonicalRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"record":{"username":"ada","milestoneByTrack":{"MOBILE":1}}}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, WithHTTPClient(srv.Client())).Get(context.Background(), "ada")
	assert.ErrorIs(t, err, ladder.ErrInvalidRecord)
}

func TestClient_PlainErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Teams(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream down", apiErr.Message)
}
