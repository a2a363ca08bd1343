package stats

import (
	"errors"
	"fmt"
	"sort"

	"reef-scout/scouting"
)

// ErrUnknownCategory is returned for a category name outside Categories. It
// is a caller mistake, not a fault.
var ErrUnknownCategory = errors.New("unknown scoring category")

// ClimbCategory is the categorical endgame category.
const ClimbCategory = "climb"

// Category is a named scoring view: the sum of Fields per match, or the
// endgame distribution when Climb is set.
type Category struct {
	Name   string
	Label  string
	Fields []scouting.Field
	Climb  bool
}

var (
	autoCoral = []scouting.Field{
		scouting.FieldAutonCoral1, scouting.FieldAutonCoral2,
		scouting.FieldAutonCoral3, scouting.FieldAutonCoral4,
	}
	teleCoral = []scouting.Field{
		scouting.FieldTeleCoral1, scouting.FieldTeleCoral2,
		scouting.FieldTeleCoral3, scouting.FieldTeleCoral4,
	}
)

// Categories lists every category in menu order.
var Categories = []Category{
	{Name: "auto_coral", Label: "Auto Coral", Fields: autoCoral},
	{Name: "autoncoral1", Label: "Auto L1", Fields: autoCoral[0:1]},
	{Name: "autoncoral2", Label: "Auto L2", Fields: autoCoral[1:2]},
	{Name: "autoncoral3", Label: "Auto L3", Fields: autoCoral[2:3]},
	{Name: "autoncoral4", Label: "Auto L4", Fields: autoCoral[3:4]},
	{Name: "tele_coral", Label: "Tele Coral", Fields: teleCoral},
	{Name: "telecoral1", Label: "Tele L1", Fields: teleCoral[0:1]},
	{Name: "telecoral2", Label: "Tele L2", Fields: teleCoral[1:2]},
	{Name: "telecoral3", Label: "Tele L3", Fields: teleCoral[2:3]},
	{Name: "telecoral4", Label: "Tele L4", Fields: teleCoral[3:4]},
	{Name: "total_coral", Label: "Total Coral", Fields: append(append([]scouting.Field{}, autoCoral...), teleCoral...)},
	{Name: "net", Label: "Net", Fields: []scouting.Field{scouting.FieldAutonAlgaeNet, scouting.FieldTeleAlgaeNet}},
	{Name: "processor", Label: "Processor", Fields: []scouting.Field{scouting.FieldAutonAlgaePro, scouting.FieldTeleAlgaePro}},
	{Name: ClimbCategory, Label: "Climb", Climb: true},
}

// LookupCategory finds a category by name.
func LookupCategory(name string) (Category, error) {
	for _, c := range Categories {
		if c.Name == name {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// Point is one match's value in a category series.
type Point struct {
	Match   int    `json:"match"`
	Value   int    `json:"value"`
	Notes   string `json:"notes"`
	Scouter string `json:"scouter"`
}

// CategoryResult holds either a per-match series or, for the climb
// category, the endgame distribution.
type CategoryResult struct {
	Category     Category
	Series       []Point
	Distribution Distribution
}

// Extract computes category name over one team's records. Series points are
// ascending by match.
func (e *Engine) Extract(records []scouting.Record, name string) (CategoryResult, error) {
	c, err := LookupCategory(name)
	if err != nil {
		return CategoryResult{}, err
	}
	res := CategoryResult{Category: c}
	if c.Climb {
		res.Distribution = EndgameDistribution(records)
		return res, nil
	}

	res.Series = make([]Point, 0, len(records))
	for _, r := range sortedByMatch(records) {
		sum := 0
		for _, f := range c.Fields {
			v, _ := r.Value(f)
			sum += v
		}
		d := r.WithReadDefaults()
		res.Series = append(res.Series, Point{Match: r.MatchNum, Value: sum, Notes: d.Notes, Scouter: d.ScouterName})
	}
	return res, nil
}

// ScorePoint is one match of a team's scoring trend.
type ScorePoint struct {
	Match   int    `json:"match"`
	Score   int    `json:"score"`
	Color   string `json:"color"`
	Notes   string `json:"notes"`
	Scouter string `json:"scouter"`
}

// Performance returns the team's total score per match, ascending by match.
func (e *Engine) Performance(records []scouting.Record) []ScorePoint {
	out := make([]ScorePoint, 0, len(records))
	for _, r := range sortedByMatch(records) {
		d := r.WithReadDefaults()
		out = append(out, ScorePoint{
			Match:   r.MatchNum,
			Score:   e.Score(r),
			Color:   d.Color,
			Notes:   d.Notes,
			Scouter: d.ScouterName,
		})
	}
	return out
}

func sortedByMatch(records []scouting.Record) []scouting.Record {
	out := append([]scouting.Record(nil), records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MatchNum < out[j].MatchNum })
	return out
}
