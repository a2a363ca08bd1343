package scouting

import (
	"strconv"
	"strings"
)

// Submission keys, as written by the scouting app.
const (
	KeyMatchNum      = "MATCHNUM"
	KeyTeamNum       = "TEAMNUM"
	KeyColor         = "COLOR"
	KeyMobility      = "MOBILITY"
	KeyDefending     = "DEFENDING"
	KeyStartingPos   = "STARTINGPOS"
	KeyAutonCoral1   = "AUTONCORAL1"
	KeyAutonCoral2   = "AUTONCORAL2"
	KeyAutonCoral3   = "AUTONCORAL3"
	KeyAutonCoral4   = "AUTONCORAL4"
	KeyAutonAlgaePro = "AUTONALGAEPRO"
	KeyAutonAlgaeNet = "AUTONALGAENET"
	KeyTeleCoral1    = "TELECORAL1"
	KeyTeleCoral2    = "TELECORAL2"
	KeyTeleCoral3    = "TELECORAL3"
	KeyTeleCoral4    = "TELECORAL4"
	KeyTeleAlgaePro  = "TELEALGAEPRO"
	KeyTeleAlgaeNet  = "TELEALGAENET"
	KeyHumanPlayer   = "HUMANPLAYER"
	KeyEndgame       = "ENDGAME"
	KeyGroundPickup  = "GROUNDPICKUP"
	KeyFeeder        = "FEEDER"
	KeyNotes         = "NOTES"
	KeyScouterName   = "SCOUTERNAME"
)

type coercion int

const (
	// counter: non-negative integer, 0 when absent or unparseable.
	counter coercion = iota
	// position: positive integer, 1 when absent or unparseable.
	position
	// flag: true only for a case-insensitive "true".
	flag
	// text: trimmed verbatim, empty when absent.
	text
)

type rule struct {
	key  string
	kind coercion
	set  func(r *Record, v any)
}

func intRule(key string, set func(*Record, int)) rule {
	return rule{key: key, kind: counter, set: func(r *Record, v any) { set(r, v.(int)) }}
}

func boolRule(key string, set func(*Record, bool)) rule {
	return rule{key: key, kind: flag, set: func(r *Record, v any) { set(r, v.(bool)) }}
}

func textRule(key string, set func(*Record, string)) rule {
	return rule{key: key, kind: text, set: func(r *Record, v any) { set(r, v.(string)) }}
}

// rules is the coercion table for every recognized key. Keys not listed here
// are dropped by the parser.
var rules = []rule{
	intRule(KeyMatchNum, func(r *Record, v int) { r.MatchNum = v }),
	intRule(KeyTeamNum, func(r *Record, v int) { r.TeamNum = v }),
	textRule(KeyColor, func(r *Record, v string) { r.Color = v }),
	boolRule(KeyMobility, func(r *Record, v bool) { r.Mobility = v }),
	boolRule(KeyDefending, func(r *Record, v bool) { r.Defending = v }),
	{key: KeyStartingPos, kind: position, set: func(r *Record, v any) { r.StartingPos = v.(int) }},
	intRule(KeyAutonCoral1, func(r *Record, v int) { r.AutonCoral1 = v }),
	intRule(KeyAutonCoral2, func(r *Record, v int) { r.AutonCoral2 = v }),
	intRule(KeyAutonCoral3, func(r *Record, v int) { r.AutonCoral3 = v }),
	intRule(KeyAutonCoral4, func(r *Record, v int) { r.AutonCoral4 = v }),
	intRule(KeyAutonAlgaePro, func(r *Record, v int) { r.AutonAlgaePro = v }),
	intRule(KeyAutonAlgaeNet, func(r *Record, v int) { r.AutonAlgaeNet = v }),
	intRule(KeyTeleCoral1, func(r *Record, v int) { r.TeleCoral1 = v }),
	intRule(KeyTeleCoral2, func(r *Record, v int) { r.TeleCoral2 = v }),
	intRule(KeyTeleCoral3, func(r *Record, v int) { r.TeleCoral3 = v }),
	intRule(KeyTeleCoral4, func(r *Record, v int) { r.TeleCoral4 = v }),
	intRule(KeyTeleAlgaePro, func(r *Record, v int) { r.TeleAlgaePro = v }),
	intRule(KeyTeleAlgaeNet, func(r *Record, v int) { r.TeleAlgaeNet = v }),
	intRule(KeyHumanPlayer, func(r *Record, v int) { r.HumanPlayer = v }),
	textRule(KeyEndgame, func(r *Record, v string) { r.Endgame = v }),
	boolRule(KeyGroundPickup, func(r *Record, v bool) { r.GroundPickup = v }),
	boolRule(KeyFeeder, func(r *Record, v bool) { r.Feeder = v }),
	textRule(KeyNotes, func(r *Record, v string) { r.Notes = v }),
	textRule(KeyScouterName, func(r *Record, v string) { r.ScouterName = v }),
}

var recognized = func() map[string]bool {
	m := make(map[string]bool, len(rules))
	for _, r := range rules {
		m[r.key] = true
	}
	return m
}()

// canonicalKey normalizes a raw key and reports whether it is recognized.
func canonicalKey(raw string) (string, bool) {
	k := strings.ToUpper(strings.TrimSpace(raw))
	return k, recognized[k]
}

// coerce converts a raw value under kind. present is false when the key did
// not appear in the submission.
func coerce(kind coercion, raw string, present bool) any {
	switch kind {
	case counter:
		if n, err := strconv.Atoi(raw); present && err == nil && n >= 0 {
			return n
		}
		return 0
	case position:
		if n, err := strconv.Atoi(raw); present && err == nil && n > 0 {
			return n
		}
		return 1
	case flag:
		return present && strings.EqualFold(raw, "true")
	default:
		if !present {
			return ""
		}
		return raw
	}
}
