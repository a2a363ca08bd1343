package stats

import (
	"encoding/json"
	"sort"

	"reef-scout/scouting"
)

// Distribution counts records per endgame category. Every category in
// scouting.EndgameCategories is present, zero when unobserved.
type Distribution map[string]int

// EndgameDistribution counts the endgame results of records. Results outside
// the known categories are not counted.
func EndgameDistribution(records []scouting.Record) Distribution {
	d := make(Distribution, len(scouting.EndgameCategories))
	for _, c := range scouting.EndgameCategories {
		d[c] = 0
	}
	for _, r := range records {
		if c, ok := r.EndgameCategory(); ok {
			d[c]++
		}
	}
	return d
}

// Counts returns the bucket counts in scouting.EndgameCategories order.
func (d Distribution) Counts() []int {
	out := make([]int, len(scouting.EndgameCategories))
	for i, c := range scouting.EndgameCategories {
		out[i] = d[c]
	}
	return out
}

// TeamDistribution is one team's bar in the season climb chart.
type TeamDistribution struct {
	Team         int          `json:"team"`
	Distribution Distribution `json:"distribution"`
}

// SeasonClimb returns the endgame distribution of every team in byTeam,
// ascending by team.
func SeasonClimb(byTeam map[int][]scouting.Record) []TeamDistribution {
	teams := make([]int, 0, len(byTeam))
	for t := range byTeam {
		teams = append(teams, t)
	}
	sort.Ints(teams)

	out := make([]TeamDistribution, 0, len(teams))
	for _, t := range teams {
		out = append(out, TeamDistribution{Team: t, Distribution: EndgameDistribution(byTeam[t])})
	}
	return out
}

// MarshalJSON writes the buckets in category order.
func (d Distribution) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, c := range scouting.EndgameCategories {
		if i > 0 {
			buf = append(buf, ',')
		}
		k, _ := json.Marshal(c)
		v, _ := json.Marshal(d[c])
		buf = append(buf, k...)
		buf = append(buf, ':')
		buf = append(buf, v...)
	}
	return append(buf, '}'), nil
}
