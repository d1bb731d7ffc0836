package assessment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowflake-ladder/snowflake/internal/identity"
	"github.com/snowflake-ladder/snowflake/internal/ladder"
	"github.com/snowflake-ladder/snowflake/internal/store"
	"github.com/snowflake-ladder/snowflake/internal/tracks"
)

func newService(t *testing.T, repo Repository) *Service {
	t.Helper()
	reg, err := tracks.Builtin()
	require.NoError(t, err)
	return New(reg, repo, "Design")
}

func TestLoad_NewUserGetsBlankProfile(t *testing.T) {
	svc := newService(t, store.NewMemory())
	p, err := svc.Load(context.Background(), ladder.Identity{Username: "ada", DisplayName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Design", p.Team())
	assert.Equal(t, 0, p.Points())
	assert.Equal(t, "Ada", p.Identity().DisplayName)
}

func TestSaveThenLoad(t *testing.T) {
	svc := newService(t, store.NewMemory())
	ctx := context.Background()
	id := ladder.Identity{Username: "ada", DisplayName: "Ada"}

	p, err := svc.Load(ctx, id)
	require.NoError(t, err)
	p = p.ChangeTeam(svc.Registry(), "Product")
	p, err = p.SetMilestone("VISION", 4)
	require.NoError(t, err)
	require.NoError(t, svc.Save(ctx, p))

	got, err := svc.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Product", got.Team())
	assert.Equal(t, ladder.Milestone(4), got.Milestone("VISION"))
	assert.Equal(t, 12, got.Points())
}

func TestLoad_RequiresUsername(t *testing.T) {
	svc := newService(t, store.NewMemory())
	_, err := svc.Load(context.Background(), ladder.Identity{})
	assert.ErrorIs(t, err, identity.ErrNoIdentity)

	reg := svc.Registry()
	err = svc.Save(context.Background(), ladder.NewProfile(reg, "Design", ladder.Identity{}))
	assert.ErrorIs(t, err, identity.ErrNoIdentity)
}

type failingRepo struct{ err error }

func (f failingRepo) Get(context.Context, string) (ladder.Record, error) { return ladder.Record{}, f.err }
func (f failingRepo) Save(context.Context, ladder.Record) error         { return f.err }

func TestLoad_SurfacesStoreErrors(t *testing.T) {
	boom := errors.New("connection reset")
	svc := newService(t, failingRepo{err: boom})

	_, err := svc.Load(context.Background(), ladder.Identity{Username: "ada"})
	assert.ErrorIs(t, err, boom)

	err = svc.Save(context.Background(), ladder.NewProfile(svc.Registry(), "Design", ladder.Identity{Username: "ada"}))
	assert.ErrorIs(t, err, boom)
}

func TestLoad_ShortRecordPadsWithZero(t *testing.T) {
	repo := store.NewMemory()
	require.NoError(t, repo.Save(context.Background(), ladder.Record{Username: "ada", Team: "Design", TracksByTeam: "1,2"}))

	p, err := newService(t, repo).Load(context.Background(), ladder.Identity{Username: "ada"})
	require.NoError(t, err)
	assert.Equal(t, "Design", p.Team())
	assert.Equal(t, 4, p.Points())
	assert.Equal(t, ladder.Milestone(0), p.Ordered()[2])
}

func TestSummary(t *testing.T) {
	svc := newService(t, store.NewMemory())
	p := ladder.NewProfile(svc.Registry(), "Development", ladder.Identity{Username: "ada"})
	p, err := p.SetMilestone("MOBILE", 2)
	require.NoError(t, err)
	p, err = p.SetMilestone("SERVERS", 5)
	require.NoError(t, err)

	s := svc.Summary(p)
	assert.Equal(t, 23, s.Total)
	assert.Equal(t, "2.2", s.Level)
	assert.Equal(t, ladder.CategoryPoints{Category: "Building", Points: 23}, s.Categories[0])
}
