// Package stats derives per-team statistics from scouting records: match
// scores under a season ruleset, field averages and medians, endgame
// distributions and per-category scoring series. Nothing here holds state
// between calls.
package stats

import "reef-scout/scouting"

// Ruleset is one season's point table. Points are per unit of a field's
// value, so a boolean field scores its points when true.
type Ruleset struct {
	Season  string
	Points  map[scouting.Field]int
	Endgame map[string]int
}

// Reefscape2025 is the 2025 FRC game point table.
var Reefscape2025 = Ruleset{
	Season: "2025-reefscape",
	Points: map[scouting.Field]int{
		scouting.FieldAutonCoral1:   3,
		scouting.FieldAutonCoral2:   4,
		scouting.FieldAutonCoral3:   6,
		scouting.FieldAutonCoral4:   7,
		scouting.FieldAutonAlgaePro: 6,
		scouting.FieldAutonAlgaeNet: 3,
		scouting.FieldTeleCoral1:    2,
		scouting.FieldTeleCoral2:    3,
		scouting.FieldTeleCoral3:    4,
		scouting.FieldTeleCoral4:    5,
		scouting.FieldTeleAlgaePro:  6,
		scouting.FieldTeleAlgaeNet:  4,
		scouting.FieldMobility:      3,
	},
	Endgame: map[string]int{
		scouting.EndgameParked:  2,
		scouting.EndgameShallow: 6,
		scouting.EndgameDeep:    12,
	},
}

// Score returns the points a record earns under rs.
func (rs Ruleset) Score(r scouting.Record) int {
	total := 0
	for f, pts := range rs.Points {
		v, _ := r.Value(f)
		total += pts * v
	}
	if c, ok := r.EndgameCategory(); ok {
		total += rs.Endgame[c]
	}
	return total
}
