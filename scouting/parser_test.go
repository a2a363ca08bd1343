package scouting

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullSubmission = `MATCHNUM: 12
TEAMNUM: 6238
COLOR: Red
MOBILITY: TRUE
DEFENDING: false
STARTINGPOS: 3
AUTONCORAL1: 1
AUTONCORAL2: 0
AUTONCORAL3: 2
AUTONCORAL4: 1
AUTONALGAEPRO: 1
AUTONALGAENET: 0
TELECORAL1: 4
TELECORAL2: 3
TELECORAL3: 2
TELECORAL4: 1
TELEALGAEPRO: 2
TELEALGAENET: 1
HUMANPLAYER: 5
ENDGAME: Deep
GROUNDPICKUP: true
FEEDER: yes
NOTES: fast cycles: strong defense late
SCOUTERNAME: Avery
`

func TestParseFullSubmission(t *testing.T) {
	rec, err := ParseString(fullSubmission)
	require.NoError(t, err)

	assert.Equal(t, 12, rec.MatchNum)
	assert.Equal(t, 6238, rec.TeamNum)
	assert.Equal(t, "Red", rec.Color)
	assert.Equal(t, "red", rec.Alliance())
	assert.True(t, rec.Mobility)
	assert.False(t, rec.Defending)
	assert.Equal(t, 3, rec.StartingPos)
	assert.Equal(t, 1, rec.AutonCoral1)
	assert.Equal(t, 2, rec.AutonCoral3)
	assert.Equal(t, 1, rec.AutonAlgaePro)
	assert.Equal(t, 4, rec.TeleCoral1)
	assert.Equal(t, 1, rec.TeleAlgaeNet)
	assert.Equal(t, 5, rec.HumanPlayer)
	assert.Equal(t, "Deep", rec.Endgame)
	assert.True(t, rec.GroundPickup)
	assert.False(t, rec.Feeder, "only the literal true is truthy")
	assert.Equal(t, "fast cycles: strong defense late", rec.Notes, "value keeps colons after the first")
	assert.Equal(t, "Avery", rec.ScouterName)
	require.NoError(t, rec.Validate())
}

func TestParseDefaults(t *testing.T) {
	rec, err := ParseString("MATCHNUM: 4\nTEAMNUM: 254\n")
	require.NoError(t, err)

	assert.Equal(t, 1, rec.StartingPos)
	assert.Zero(t, rec.AutonCoral4)
	assert.Zero(t, rec.HumanPlayer)
	assert.False(t, rec.Mobility)
	assert.Empty(t, rec.Color)
	assert.Empty(t, rec.Notes)
	assert.Empty(t, rec.ScouterName)
}

func TestParseMalformedValues(t *testing.T) {
	rec, err := ParseString(strings.Join([]string{
		"MATCHNUM: 7",
		"TEAMNUM: 1678",
		"STARTINGPOS:abc",
		"AUTONCORAL2: two",
		"TELECORAL1: -3",
		"HUMANPLAYER: 2.5",
	}, "\n"))
	require.NoError(t, err)

	assert.Equal(t, 1, rec.StartingPos)
	assert.Zero(t, rec.AutonCoral2)
	assert.Zero(t, rec.TeleCoral1)
	assert.Zero(t, rec.HumanPlayer)
	assert.NoError(t, rec.Validate())
}

func TestParseStartingPosZeroFallsBack(t *testing.T) {
	rec, err := ParseString("STARTINGPOS: 0")
	require.NoError(t, err)
	assert.Equal(t, 1, rec.StartingPos)
}

func TestParseKeysAreCaseInsensitive(t *testing.T) {
	rec, err := ParseString("matchnum: 3\n  TeamNum : 118\nscoutname: Riley\nmobility: True")
	require.NoError(t, err)

	assert.Equal(t, 3, rec.MatchNum)
	assert.Equal(t, 118, rec.TeamNum)
	assert.Equal(t, "Riley", rec.ScouterName)
	assert.True(t, rec.Mobility)
}

func TestParseIgnoresUnknownKeysAndBareLines(t *testing.T) {
	rec, err := ParseString("just a line\nMATCHNUM: 9\nTEAMNUM: 971\nCYCLE_TIME: 4.2\n\n")
	require.NoError(t, err)

	assert.Equal(t, 9, rec.MatchNum)
	assert.Equal(t, 971, rec.TeamNum)
}

func TestParseLastDuplicateKeyWins(t *testing.T) {
	rec, err := ParseString("TEAMNUM: 1\nTEAMNUM: 2\nMATCHNUM: 5")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.TeamNum)
}

func TestValidateMissingIdentity(t *testing.T) {
	cases := map[string]string{
		"missing match":  "TEAMNUM: 6238\nENDGAME: Deep",
		"invalid match":  "MATCHNUM: q1\nTEAMNUM: 6238",
		"missing team":   "MATCHNUM: 2",
		"negative team":  "MATCHNUM: 2\nTEAMNUM: -1",
		"empty document": "",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec, err := ParseString(body)
			require.NoError(t, err)
			err = rec.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingIdentity))
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestParseReadFailure(t *testing.T) {
	_, err := Parse(failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

func TestWithReadDefaults(t *testing.T) {
	rec := Record{MatchNum: 1, TeamNum: 2, Notes: "  "}.WithReadDefaults()
	assert.Equal(t, DefaultColor, rec.Color)
	assert.Equal(t, DefaultNotes, rec.Notes)
	assert.Equal(t, DefaultScouter, rec.ScouterName)

	kept := Record{Color: " RED ", Notes: "tipped", ScouterName: "Sam"}.WithReadDefaults()
	assert.Equal(t, "red", kept.Color)
	assert.Equal(t, "tipped", kept.Notes)
	assert.Equal(t, "Sam", kept.ScouterName)
}

func TestEndgameCategory(t *testing.T) {
	for _, c := range EndgameCategories {
		got, ok := Record{Endgame: c}.EndgameCategory()
		assert.True(t, ok, c)
		assert.Equal(t, c, got)
	}
	for _, in := range []string{"deep", "PARKED", "Xyz", ""} {
		_, ok := Record{Endgame: in}.EndgameCategory()
		assert.False(t, ok, in)
	}
}

func TestRecordValue(t *testing.T) {
	rec := Record{Mobility: true, StartingPos: 2, TeleCoral4: 6}
	for _, f := range StatFields {
		_, ok := rec.Value(f)
		assert.True(t, ok, string(f))
	}
	v, _ := rec.Value(FieldMobility)
	assert.Equal(t, 1, v)
	v, _ = rec.Value(FieldTeleCoral4)
	assert.Equal(t, 6, v)
	_, ok := rec.Value(Field("cycle_time"))
	assert.False(t, ok)
}
