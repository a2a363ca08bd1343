// Package store persists matches and scouting records in SQLite.
package store

import (
	"context"
	"fmt"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"

	"reef-scout/scouting"
)

const driverName = "sqlite"

func init() {
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

// Store is the SQLite-backed match and scouting record store. It is safe for
// concurrent use.
type Store struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the SQLite database at path and applies
// the schema. path may be ":memory:".
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if path == ":memory:" {
		// Every connection to :memory: is its own database.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}

	s := New(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing connection. The schema is not applied.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// UpsertMatch inserts match number if it is not already known. An existing
// match, and any schedule attached to it, is left alone.
func (s *Store) UpsertMatch(ctx context.Context, number int) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO matches (number) VALUES (?) ON CONFLICT (number) DO NOTHING`, number); err != nil {
		return fmt.Errorf("upsert match %d: %w", number, err)
	}
	return nil
}

// UpsertRecord stores rec, replacing every column of any earlier record for
// the same match and team. The match row is created first if needed.
// replaced reports whether an earlier record existed.
func (s *Store) UpsertRecord(ctx context.Context, rec scouting.Record) (replaced bool, err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin upsert: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Write first so the transaction holds the write lock before it reads.
	if _, err = tx.ExecContext(ctx,
		`INSERT INTO matches (number) VALUES (?) ON CONFLICT (number) DO NOTHING`, rec.MatchNum); err != nil {
		return false, fmt.Errorf("upsert match %d: %w", rec.MatchNum, err)
	}

	if err = tx.GetContext(ctx, &replaced,
		`SELECT EXISTS (SELECT 1 FROM scouting WHERE matchnum = ? AND teamnum = ?)`,
		rec.MatchNum, rec.TeamNum); err != nil {
		return false, fmt.Errorf("check record %d/%d: %w", rec.MatchNum, rec.TeamNum, err)
	}

	if _, err = tx.NamedExecContext(ctx, upsertRecordSQL, rec); err != nil {
		return false, fmt.Errorf("upsert record %d/%d: %w", rec.MatchNum, rec.TeamNum, err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit upsert %d/%d: %w", rec.MatchNum, rec.TeamNum, err)
	}
	return replaced, nil
}

// QueryByTeam returns the team's records ascending by match number.
func (s *Store) QueryByTeam(ctx context.Context, team int) ([]scouting.Record, error) {
	records := []scouting.Record{}
	query := `SELECT ` + recordColumns + ` FROM scouting WHERE teamnum = ? ORDER BY matchnum`
	if err := s.db.SelectContext(ctx, &records, query, team); err != nil {
		return nil, fmt.Errorf("query team %d: %w", team, err)
	}
	return records, nil
}

// QueryAll returns every record ascending by match then team.
func (s *Store) QueryAll(ctx context.Context) ([]scouting.Record, error) {
	records := []scouting.Record{}
	query := `SELECT ` + recordColumns + ` FROM scouting ORDER BY matchnum, teamnum`
	if err := s.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	return records, nil
}

// DistinctTeams returns every scouted team number, ascending.
func (s *Store) DistinctTeams(ctx context.Context) ([]int, error) {
	teams := []int{}
	if err := s.db.SelectContext(ctx, &teams, `SELECT DISTINCT teamnum FROM scouting ORDER BY teamnum`); err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	return teams, nil
}

// ClearAll deletes every scouting record and returns how many were removed.
// Matches are kept.
func (s *Store) ClearAll(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scouting`)
	if err != nil {
		return 0, fmt.Errorf("clear scouting: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear scouting: %w", err)
	}
	return n, nil
}

// ImportSchedule writes the team slots of every match, adding matches that
// do not exist yet. Scouting records are untouched.
func (s *Store) ImportSchedule(ctx context.Context, matches []scouting.Match) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schedule import: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, m := range matches {
		if _, err = tx.NamedExecContext(ctx, upsertScheduleSQL, m); err != nil {
			return fmt.Errorf("import match %d: %w", m.Number, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit schedule import: %w", err)
	}
	return nil
}

// ListMatches returns every match ascending by number. Unscheduled team
// slots read as zero.
func (s *Store) ListMatches(ctx context.Context) ([]scouting.Match, error) {
	matches := []scouting.Match{}
	const query = `SELECT number,
	COALESCE(blue1, 0) AS blue1, COALESCE(blue2, 0) AS blue2, COALESCE(blue3, 0) AS blue3,
	COALESCE(red1, 0) AS red1, COALESCE(red2, 0) AS red2, COALESCE(red3, 0) AS red3
FROM matches ORDER BY number`
	if err := s.db.SelectContext(ctx, &matches, query); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return matches, nil
}
