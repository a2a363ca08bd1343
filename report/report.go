// Package report answers the presentation layer's questions about scouting
// data: per-team lookups, scoring trends, category series and the roster
// tables. Roster tables are cached until the next ingest.
package report

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"reef-scout/metrics"
	"reef-scout/scouting"
	"reef-scout/stats"
)

// ErrNoData is returned when a team has no scouting records.
var ErrNoData = errors.New("no scouting data")

const (
	tableAverages = "averages"
	tableMedians  = "medians"
)

// Store is the read side of the record store.
type Store interface {
	QueryByTeam(ctx context.Context, team int) ([]scouting.Record, error)
	QueryAll(ctx context.Context) ([]scouting.Record, error)
	DistinctTeams(ctx context.Context) ([]int, error)
}

// TeamReport is everything the team lookup page shows.
type TeamReport struct {
	Team          int                `json:"team"`
	MatchesPlayed int                `json:"matches_played"`
	Averages      stats.Summary      `json:"averages"`
	Medians       stats.Summary      `json:"medians"`
	Endgame       stats.Distribution `json:"endgame"`
	Records       []scouting.Record  `json:"records"`
}

// Service computes reports from the store.
type Service struct {
	store   Store
	engine  *stats.Engine
	cache   *cache.Cache
	fill    singleflight.Group
	mu      sync.Mutex // guards gen and cache writes
	gen     uint64
	log     *zap.Logger
	metrics *metrics.Registry
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *metrics.Registry) Option {
	return func(s *Service) { s.metrics = m }
}

// WithCacheTTL sets how long roster tables are kept. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl <= 0 {
			s.cache = nil
			return
		}
		s.cache = cache.New(ttl, 2*ttl)
	}
}

// New returns a Service over store scoring with engine.
func New(store Store, engine *stats.Engine, opts ...Option) *Service {
	s := &Service{
		store:  store,
		engine: engine,
		cache:  cache.New(time.Minute, 2*time.Minute),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Invalidate drops cached roster tables. Ingestion calls it after every
// stored record.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.cache != nil {
		s.cache.Flush()
	}
}

// Teams lists every scouted team, ascending.
func (s *Service) Teams(ctx context.Context) ([]int, error) {
	return s.store.DistinctTeams(ctx)
}

// TeamLookup summarizes one team. It returns ErrNoData when the team has no
// records.
func (s *Service) TeamLookup(ctx context.Context, team int) (TeamReport, error) {
	records, err := s.teamRecords(ctx, team)
	if err != nil {
		return TeamReport{}, err
	}

	out := TeamReport{
		Team:          team,
		MatchesPlayed: len(records),
		Averages:      s.engine.Average(records, stats.TeamPrecision),
		Medians:       s.engine.Median(records),
		Endgame:       stats.EndgameDistribution(records),
		Records:       make([]scouting.Record, 0, len(records)),
	}
	for _, r := range records {
		out.Records = append(out.Records, r.WithReadDefaults())
	}
	return out, nil
}

// TeamPerformance returns the team's score per match.
func (s *Service) TeamPerformance(ctx context.Context, team int) ([]stats.ScorePoint, error) {
	records, err := s.store.QueryByTeam(ctx, team)
	if err != nil {
		return nil, err
	}
	return s.engine.Performance(records), nil
}

// CategoryPerformance extracts one scoring category for team. An unknown
// category fails with stats.ErrUnknownCategory before the store is read.
func (s *Service) CategoryPerformance(ctx context.Context, team int, category string) (stats.CategoryResult, error) {
	if _, err := stats.LookupCategory(category); err != nil {
		return stats.CategoryResult{}, err
	}
	records, err := s.store.QueryByTeam(ctx, team)
	if err != nil {
		return stats.CategoryResult{}, err
	}
	return s.engine.Extract(records, category)
}

// ClimbChart returns the endgame distribution of each team, ascending by
// team. With no teams given every scouted team is charted.
func (s *Service) ClimbChart(ctx context.Context, teams []int) ([]stats.TeamDistribution, error) {
	if len(teams) == 0 {
		all, err := s.store.DistinctTeams(ctx)
		if err != nil {
			return nil, err
		}
		teams = all
	}

	byTeam := make(map[int][]scouting.Record, len(teams))
	for _, t := range teams {
		records, err := s.store.QueryByTeam(ctx, t)
		if err != nil {
			return nil, err
		}
		byTeam[t] = records
	}
	return stats.SeasonClimb(byTeam), nil
}

// Averages returns the roster average table.
func (s *Service) Averages(ctx context.Context) ([]stats.Summary, error) {
	return s.roster(ctx, tableAverages, s.engine.RosterAverages)
}

// Medians returns the roster lower-median table.
func (s *Service) Medians(ctx context.Context) ([]stats.Summary, error) {
	return s.roster(ctx, tableMedians, s.engine.RosterMedians)
}

// Raw returns every record with read defaults applied, ascending by match
// then team.
func (s *Service) Raw(ctx context.Context) ([]scouting.Record, error) {
	records, err := s.store.QueryAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i] = records[i].WithReadDefaults()
	}
	return records, nil
}

func (s *Service) teamRecords(ctx context.Context, team int) ([]scouting.Record, error) {
	records, err := s.store.QueryByTeam(ctx, team)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("team %d: %w", team, ErrNoData)
	}
	return records, nil
}

func (s *Service) roster(ctx context.Context, table string, build func([]scouting.Record) []stats.Summary) ([]stats.Summary, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(table); ok {
			s.countCache(table, true)
			return v.([]stats.Summary), nil
		}
	}
	s.countCache(table, false)

	v, err, _ := s.fill.Do(table, func() (interface{}, error) {
		gen := s.generation()
		records, err := s.store.QueryAll(ctx)
		if err != nil {
			return nil, err
		}
		rows := build(records)
		s.keep(table, rows, gen)
		s.log.Debug("computed roster table", zap.String("table", table), zap.Int("teams", len(rows)))
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]stats.Summary), nil
}

func (s *Service) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// keep caches rows computed at generation gen. Rows computed before the last
// Invalidate are stale and are not kept.
func (s *Service) keep(table string, rows []stats.Summary, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cache == nil || s.gen != gen {
		return false
	}
	s.cache.SetDefault(table, rows)
	return true
}

func (s *Service) countCache(table string, hit bool) {
	if s.metrics == nil || s.cache == nil {
		return
	}
	if hit {
		s.metrics.CacheHitsTotal.WithLabelValues(table).Inc()
	} else {
		s.metrics.CacheMissesTotal.WithLabelValues(table).Inc()
	}
}
