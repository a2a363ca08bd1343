// Package scouting holds the scouting record model and the parser that turns
// a scout's KEY: value submission into a typed record.
package scouting

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingIdentity is returned by Validate when a record has no usable
// match or team number. Such a record cannot be keyed in the store.
var ErrMissingIdentity = errors.New("missing match or team number")

// Read-time defaults for text columns left empty by the scout.
const (
	DefaultColor   = "blue"
	DefaultNotes   = "No notes available"
	DefaultScouter = "Unknown"
)

// Endgame results counted in distributions. Anything else a scout types is
// kept verbatim on the record but never lands in a bucket.
const (
	EndgameParked  = "Parked"
	EndgameShallow = "Shallow"
	EndgameDeep    = "Deep"
	EndgameNone    = "None"
)

// EndgameCategories is the display order of the endgame buckets.
var EndgameCategories = []string{EndgameParked, EndgameShallow, EndgameDeep, EndgameNone}

// Record is one team's observed performance in one match. The pair
// (MatchNum, TeamNum) is its identity.
type Record struct {
	MatchNum    int    `db:"matchnum" json:"matchnum"`
	TeamNum     int    `db:"teamnum" json:"teamnum"`
	Color       string `db:"color" json:"color"`
	Mobility    bool   `db:"mobility" json:"mobility"`
	Defending   bool   `db:"defending" json:"defending"`
	StartingPos int    `db:"startingpos" json:"startingpos"`

	AutonCoral1   int `db:"autoncoral1" json:"autoncoral1"`
	AutonCoral2   int `db:"autoncoral2" json:"autoncoral2"`
	AutonCoral3   int `db:"autoncoral3" json:"autoncoral3"`
	AutonCoral4   int `db:"autoncoral4" json:"autoncoral4"`
	AutonAlgaePro int `db:"autonalgaepro" json:"autonalgaepro"`
	AutonAlgaeNet int `db:"autonalgaenet" json:"autonalgaenet"`

	TeleCoral1   int `db:"telecoral1" json:"telecoral1"`
	TeleCoral2   int `db:"telecoral2" json:"telecoral2"`
	TeleCoral3   int `db:"telecoral3" json:"telecoral3"`
	TeleCoral4   int `db:"telecoral4" json:"telecoral4"`
	TeleAlgaePro int `db:"telealgaepro" json:"telealgaepro"`
	TeleAlgaeNet int `db:"telealgaenet" json:"telealgaenet"`

	HumanPlayer  int    `db:"humanplayer" json:"humanplayer"`
	Endgame      string `db:"endgame" json:"endgame"`
	GroundPickup bool   `db:"groundpickup" json:"groundpickup"`
	Feeder       bool   `db:"feeder" json:"feeder"`
	Notes        string `db:"notes" json:"notes"`
	ScouterName  string `db:"scoutername" json:"scoutername"`
}

// Validate reports whether the record can be stored. Only the identity
// fields are checked; every other field has already been defaulted by Parse.
func (r Record) Validate() error {
	switch {
	case r.MatchNum <= 0:
		return fmt.Errorf("%w: %s", ErrMissingIdentity, KeyMatchNum)
	case r.TeamNum <= 0:
		return fmt.Errorf("%w: %s", ErrMissingIdentity, KeyTeamNum)
	}
	return nil
}

// WithReadDefaults fills empty text columns with their display defaults and
// lower-cases the alliance color.
func (r Record) WithReadDefaults() Record {
	r.Color = r.Alliance()
	if r.Color == "" {
		r.Color = DefaultColor
	}
	if strings.TrimSpace(r.Notes) == "" {
		r.Notes = DefaultNotes
	}
	if strings.TrimSpace(r.ScouterName) == "" {
		r.ScouterName = DefaultScouter
	}
	return r
}

// Alliance returns the alliance color lower-cased, so "RED" and "red" compare
// equal.
func (r Record) Alliance() string {
	return strings.ToLower(strings.TrimSpace(r.Color))
}

// EndgameCategory reports which of EndgameCategories the endgame result is.
// Matching is exact: "deep" is not Deep.
func (r Record) EndgameCategory() (category string, ok bool) {
	for _, c := range EndgameCategories {
		if r.Endgame == c {
			return c, true
		}
	}
	return "", false
}

// Match is one scheduled qualification match. Team slots are zero until a
// schedule has been imported for the match.
type Match struct {
	Number int `db:"number" json:"number"`
	Blue1  int `db:"blue1" json:"blue1"`
	Blue2  int `db:"blue2" json:"blue2"`
	Blue3  int `db:"blue3" json:"blue3"`
	Red1   int `db:"red1" json:"red1"`
	Red2   int `db:"red2" json:"red2"`
	Red3   int `db:"red3" json:"red3"`
}

// Scheduled reports whether team slots are known for the match.
func (m Match) Scheduled() bool {
	return m.Blue1 != 0 || m.Blue2 != 0 || m.Blue3 != 0 || m.Red1 != 0 || m.Red2 != 0 || m.Red3 != 0
}
