package store

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reef-scout/scouting"
)

func newStoreMock(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, driverName)
	cleanup := func() {
		_ = sqlxDB.Close()
	}
	return New(sqlxDB), mock, cleanup
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUpsertRecordStatements(t *testing.T) {
	s, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO matches (number) VALUES (?) ON CONFLICT (number) DO NOTHING`)).
		WithArgs(12).
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM scouting WHERE matchnum = ? AND teamnum = ?)`)).
		WithArgs(12, 6238).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO scouting (`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	replaced, err := s.UpsertRecord(context.Background(), scouting.Record{MatchNum: 12, TeamNum: 6238})
	require.NoError(t, err)
	assert.True(t, replaced)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRecordRollsBackOnFailure(t *testing.T) {
	s, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO matches`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(0))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO scouting (`)).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	_, err := s.UpsertRecord(context.Background(), scouting.Record{MatchNum: 3, TeamNum: 254})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert record 3/254")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryByTeamStatement(t *testing.T) {
	s, mock, cleanup := newStoreMock(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"matchnum", "teamnum", "color", "endgame", "notes", "scoutername"}).
		AddRow(1, 118, "red", "Deep", "", "Jo").
		AddRow(4, 118, "blue", "", "", "")
	mock.ExpectQuery(`(?s)SELECT .+ FROM scouting WHERE teamnum = \? ORDER BY matchnum`).
		WithArgs(118).
		WillReturnRows(rows)

	records, err := s.QueryByTeam(context.Background(), 118)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].MatchNum)
	assert.Equal(t, "Deep", records[0].Endgame)
	assert.Equal(t, 4, records[1].MatchNum)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreUnavailable(t *testing.T) {
	s, mock, cleanup := newStoreMock(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT DISTINCT teamnum`).WillReturnError(errors.New("database is locked"))

	_, err := s.DistinctTeams(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query teams")
}

func TestUpsertReplacesEveryColumn(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := scouting.Record{
		MatchNum: 5, TeamNum: 6238, Color: "red", Mobility: true, StartingPos: 3,
		AutonCoral4: 2, TeleCoral1: 5, HumanPlayer: 4, Endgame: "Deep",
		GroundPickup: true, Notes: "great auto", ScouterName: "Avery",
	}
	replaced, err := s.UpsertRecord(ctx, first)
	require.NoError(t, err)
	assert.False(t, replaced)

	// The second submission omits most fields; they revert to defaults.
	second := scouting.Record{MatchNum: 5, TeamNum: 6238, StartingPos: 1, TeleCoral2: 1, Endgame: "Parked"}
	replaced, err = s.UpsertRecord(ctx, second)
	require.NoError(t, err)
	assert.True(t, replaced)

	records, err := s.QueryByTeam(ctx, 6238)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, second, records[0])
}

func TestConcurrentUpsertsKeepOneRow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.UpsertRecord(ctx, scouting.Record{MatchNum: 1, TeamNum: 971, StartingPos: 1, HumanPlayer: i})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := s.QueryAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestQueriesAreOrdered(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, rec := range []scouting.Record{
		{MatchNum: 3, TeamNum: 254, StartingPos: 1},
		{MatchNum: 1, TeamNum: 971, StartingPos: 1},
		{MatchNum: 1, TeamNum: 118, StartingPos: 1},
		{MatchNum: 2, TeamNum: 254, StartingPos: 1},
	} {
		_, err := s.UpsertRecord(ctx, rec)
		require.NoError(t, err)
	}

	all, err := s.QueryAll(ctx)
	require.NoError(t, err)
	var keys [][2]int
	for _, r := range all {
		keys = append(keys, [2]int{r.MatchNum, r.TeamNum})
	}
	assert.Equal(t, [][2]int{{1, 118}, {1, 971}, {2, 254}, {3, 254}}, keys)

	team, err := s.QueryByTeam(ctx, 254)
	require.NoError(t, err)
	require.Len(t, team, 2)
	assert.Equal(t, 2, team[0].MatchNum)
	assert.Equal(t, 3, team[1].MatchNum)

	teams, err := s.DistinctTeams(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{118, 254, 971}, teams)

	empty, err := s.QueryByTeam(ctx, 9999)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestUpsertRecordCreatesMatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertRecord(ctx, scouting.Record{MatchNum: 7, TeamNum: 1678, StartingPos: 1})
	require.NoError(t, err)

	matches, err := s.ListMatches(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, scouting.Match{Number: 7}, matches[0])
	assert.False(t, matches[0].Scheduled())
}

func TestScheduleSurvivesUpsertMatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sched := scouting.Match{Number: 2, Blue1: 1, Blue2: 2, Blue3: 3, Red1: 4, Red2: 5, Red3: 6}
	require.NoError(t, s.ImportSchedule(ctx, []scouting.Match{sched}))
	require.NoError(t, s.UpsertMatch(ctx, 2))
	require.NoError(t, s.UpsertMatch(ctx, 1))
	_, err := s.UpsertRecord(ctx, scouting.Record{MatchNum: 2, TeamNum: 4, StartingPos: 1})
	require.NoError(t, err)

	matches, err := s.ListMatches(ctx)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, scouting.Match{Number: 1}, matches[0])
	assert.Equal(t, sched, matches[1])

	resched := scouting.Match{Number: 2, Blue1: 10, Blue2: 20, Blue3: 30, Red1: 40, Red2: 50, Red3: 60}
	require.NoError(t, s.ImportSchedule(ctx, []scouting.Match{resched}))
	matches, err = s.ListMatches(ctx)
	require.NoError(t, err)
	assert.Equal(t, resched, matches[1])
}

func TestClearAllKeepsMatches(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, team := range []int{1, 2, 3} {
		_, err := s.UpsertRecord(ctx, scouting.Record{MatchNum: 1, TeamNum: team, StartingPos: 1})
		require.NoError(t, err)
	}

	n, err := s.ClearAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	all, err := s.QueryAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	matches, err := s.ListMatches(ctx)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}
