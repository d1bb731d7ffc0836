package ladder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowflake-ladder/snowflake/internal/tracks"
)

func TestEncodePositional(t *testing.T) {
	reg := testRegistry(t)
	p := withMilestones(t, NewProfile(reg, "Alpha", Identity{DisplayName: "Zoë Q"}),
		map[string]Milestone{"X": 2, "Z": 5})

	assert.Equal(t, "2,0,5,Zo%C3%AB%20Q,Alpha", EncodePositional(p))
}

func TestPositional_RoundTrip(t *testing.T) {
	reg := testRegistry(t)
	p := withMilestones(t, NewProfile(reg, "Beta", Identity{DisplayName: "Grace (QA) & co."}),
		map[string]Milestone{"B1": 1, "B3": 4, "B5": 5})

	got, err := DecodePositional(reg, "Beta", EncodePositional(p))
	require.NoError(t, err)
	assert.Equal(t, p.Ordered(), got.Ordered())
	assert.Equal(t, "Beta", got.Team())
	assert.Equal(t, "Grace (QA) & co.", got.Identity().DisplayName)
}

func TestDecodePositional_OptionalTrailingFields(t *testing.T) {
	reg := testRegistry(t)

	p, err := DecodePositional(reg, "Alpha", "1,2,3")
	require.NoError(t, err)
	assert.Equal(t, []Milestone{1, 2, 3}, p.Ordered())
	assert.Equal(t, "", p.Identity().DisplayName)

	p, err = DecodePositional(reg, "Alpha", "1,2,3,Ada")
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.Identity().DisplayName)
	assert.Equal(t, "Alpha", p.Team())
}

func TestDecodePositional_CoercesGarbage(t *testing.T) {
	p, err := DecodePositional(testRegistry(t), "Alpha", "#7,x,2.5")
	require.NoError(t, err)
	assert.Equal(t, []Milestone{0, 0, 0}, p.Ordered())
}

func TestDecodePositional_WrongFieldCount(t *testing.T) {
	reg := testRegistry(t)
	for _, s := range []string{"1,2", "1,2,3,4,5,6", "1,2,3,4,5,6,7,8"} {
		_, err := DecodePositional(reg, "Alpha", s)
		assert.ErrorIs(t, err, ErrMalformedEncoding, s)
	}
}

func TestDecodePositional_TeamFieldSelectsCatalog(t *testing.T) {
	reg := testRegistry(t)

	// A Beta link opened while Alpha is active.
	p, err := DecodePositional(reg, "Alpha", "1,2,3,4,5,Bo,Beta")
	require.NoError(t, err)
	assert.Equal(t, "Beta", p.Team())
	assert.Equal(t, []Milestone{1, 2, 3, 4, 5}, p.Ordered())

	// Same track count, different team.
	p, err = DecodePositional(reg, "Alpha", "3,3,3,Gi,Gamma")
	require.NoError(t, err)
	assert.Equal(t, "Gamma", p.Team())
	assert.Equal(t, Milestone(3), p.Milestone("G2"))
}

func TestDecodePositional_TeamFieldMismatch(t *testing.T) {
	reg := testRegistry(t)
	// Beta has 5 tracks but only 3 values are present.
	_, err := DecodePositional(reg, "Alpha", "1,2,3,Bo,Beta")
	require.Error(t, err)
	var mee *MalformedEncodingError
	assert.ErrorAs(t, err, &mee)
}

func TestDecodePositional_UnknownTeamFallsBack(t *testing.T) {
	p, err := DecodePositional(testRegistry(t), "Alpha", "1,1,1,Ann,Marketing")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", p.Team())
}

func TestDecodePositional_UnknownTeamKeepsCurrentCatalog(t *testing.T) {
	reg := testRegistry(t)

	p, err := DecodePositional(reg, "Beta", "1,1,1,1,1,Ann,Marketing")
	require.NoError(t, err)
	assert.Equal(t, "Beta", p.Team())
	assert.Equal(t, "Ann", p.Identity().DisplayName)
	assert.Equal(t, []Milestone{1, 1, 1, 1, 1}, p.Ordered())
}

func TestDecodePositional_UnknownTeamBuiltin(t *testing.T) {
	reg, err := tracks.Builtin()
	require.NoError(t, err)

	p, err := DecodePositional(reg, "Design", "1,1,1,1,1,1,1,1,Ann,Designers")
	require.NoError(t, err)
	assert.Equal(t, "Design", p.Team())
	assert.Equal(t, "Ann", p.Identity().DisplayName)
	assert.Equal(t, 8, p.Points())
}

func TestPositional_NameSpellingTeamIsAmbiguous(t *testing.T) {
	alpha := newCatalog(t, "Alpha",
		trackDef{"X", "A"}, trackDef{"Y", "B"}, trackDef{"Z", "A"})
	duo := newCatalog(t, "Duo", trackDef{"D1", "Pair"}, trackDef{"D2", "Pair"})
	reg, err := tracks.NewRegistry("Alpha", alpha, duo)
	require.NoError(t, err)

	p := withMilestones(t, NewProfile(reg, "Alpha", Identity{DisplayName: "Duo"}),
		map[string]Milestone{"X": 1, "Y": 2, "Z": 3})

	// With the team field present the name is read back as written.
	got, err := DecodePositional(reg, "Alpha", EncodePositional(p))
	require.NoError(t, err)
	assert.Equal(t, "Alpha", got.Team())
	assert.Equal(t, "Duo", got.Identity().DisplayName)

	// Without it, the name is taken as Duo's team field.
	got, err = DecodePositional(reg, "Alpha", "1,2,3,Duo")
	require.NoError(t, err)
	assert.Equal(t, "Duo", got.Team())
	assert.Equal(t, "3", got.Identity().DisplayName)
	assert.Equal(t, []Milestone{1, 2}, got.Ordered())
}

func TestDecodePositional_BadEscape(t *testing.T) {
	_, err := DecodePositional(testRegistry(t), "Alpha", "1,1,1,%zz,Alpha")
	assert.ErrorIs(t, err, ErrMalformedEncoding)
}

func TestPositional_CommaInNameDoesNotRoundTrip(t *testing.T) {
	reg := testRegistry(t)
	p := NewProfile(reg, "Alpha", Identity{DisplayName: "Lovelace, Ada"})

	_, err := DecodePositional(reg, "Alpha", EncodePositional(p))
	assert.ErrorIs(t, err, ErrMalformedEncoding)
}

func TestEscapeURI(t *testing.T) {
	assert.Equal(t, "a-b_c.d!e~f*g'h(i)j", escapeURI("a-b_c.d!e~f*g'h(i)j"))
	assert.Equal(t, ";,/?:@&=+$#", escapeURI(";,/?:@&=+$#"))
	assert.Equal(t, "100%25%20sure", escapeURI("100% sure"))
	assert.Equal(t, "%E2%9D%84", escapeURI("❄"))
}
