package stats

import (
	"encoding/json"
	"math"
	"sort"

	"reef-scout/scouting"
)

// ScoreColumn is the derived total-score column added to every summary.
const ScoreColumn scouting.Field = "score"

// Precision used by the whole-roster tables and the single-team lookup.
const (
	RosterPrecision = 3
	TeamPrecision   = 2
)

// Summary is one team's averages or medians. Fields is empty when the team
// has no records.
type Summary struct {
	Team          int
	MatchesPlayed int
	Fields        map[scouting.Field]float64
}

// MarshalJSON flattens the summary into one object per team, the row shape
// the averages and medians tables render.
func (s Summary) MarshalJSON() ([]byte, error) {
	row := make(map[string]any, len(s.Fields)+2)
	for f, v := range s.Fields {
		row[string(f)] = v
	}
	row["teamnum"] = s.Team
	row["MatchesPlayed"] = s.MatchesPlayed
	return json.Marshal(row)
}

// Engine computes statistics under a ruleset.
type Engine struct {
	rules Ruleset
}

// NewEngine returns an Engine scoring with rules.
func NewEngine(rules Ruleset) *Engine {
	return &Engine{rules: rules}
}

// Score returns a single record's total points.
func (e *Engine) Score(r scouting.Record) int {
	return e.rules.Score(r)
}

// Average returns the mean of every stat field over records, rounded to
// places decimals. records are assumed to belong to one team.
func (e *Engine) Average(records []scouting.Record, places int) Summary {
	return e.summarize(records, func(vals []float64) float64 {
		return Round(Mean(vals), places)
	})
}

// Median returns the lower median of every stat field over records.
func (e *Engine) Median(records []scouting.Record) Summary {
	return e.summarize(records, LowerMedian)
}

func (e *Engine) summarize(records []scouting.Record, reduce func([]float64) float64) Summary {
	s := Summary{MatchesPlayed: len(records), Fields: map[scouting.Field]float64{}}
	if len(records) == 0 {
		return s
	}
	s.Team = records[0].TeamNum

	cols := make(map[scouting.Field][]float64, len(scouting.StatFields)+1)
	for _, r := range records {
		for _, f := range scouting.StatFields {
			v, _ := r.Value(f)
			cols[f] = append(cols[f], float64(v))
		}
		cols[ScoreColumn] = append(cols[ScoreColumn], float64(e.Score(r)))
	}
	for f, vals := range cols {
		s.Fields[f] = reduce(vals)
	}
	return s
}

// RosterAverages returns one average summary per team, ascending by team.
func (e *Engine) RosterAverages(records []scouting.Record) []Summary {
	groups := GroupByTeam(records)
	out := make([]Summary, 0, len(groups))
	for _, g := range groups {
		out = append(out, e.Average(g, RosterPrecision))
	}
	return out
}

// RosterMedians returns one median summary per team, ascending by team.
func (e *Engine) RosterMedians(records []scouting.Record) []Summary {
	groups := GroupByTeam(records)
	out := make([]Summary, 0, len(groups))
	for _, g := range groups {
		out = append(out, e.Median(g))
	}
	return out
}

// GroupByTeam splits records by team number. Groups come back ascending by
// team and keep the input order within a team.
func GroupByTeam(records []scouting.Record) [][]scouting.Record {
	byTeam := make(map[int][]scouting.Record)
	for _, r := range records {
		byTeam[r.TeamNum] = append(byTeam[r.TeamNum], r)
	}
	teams := make([]int, 0, len(byTeam))
	for t := range byTeam {
		teams = append(teams, t)
	}
	sort.Ints(teams)

	out := make([][]scouting.Record, 0, len(teams))
	for _, t := range teams {
		out = append(out, byTeam[t])
	}
	return out
}

// Mean returns the arithmetic mean, or 0 for no values.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// LowerMedian returns the element at index n/2 of the ascending sort. Even
// counts are not interpolated: [1 2 3 5] yields 3. It returns 0 for no
// values and does not modify vals.
func LowerMedian(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

// Round rounds v half away from zero to places decimals.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
