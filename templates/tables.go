package templates

import (
	"strconv"

	"github.com/a-h/templ"

	"reef-scout/scouting"
	"reef-scout/stats"
)

// SummaryTable lays out roster summaries one team per row.
func SummaryTable(title string, rows []stats.Summary) TablePageData {
	cols := []string{"teamnum", "MatchesPlayed"}
	for _, f := range scouting.StatFields {
		cols = append(cols, string(f))
	}
	cols = append(cols, string(stats.ScoreColumn))

	data := TablePageData{Title: title, Columns: cols, Rows: make([][]string, 0, len(rows))}
	for _, s := range rows {
		row := []string{strconv.Itoa(s.Team), strconv.Itoa(s.MatchesPlayed)}
		for _, f := range scouting.StatFields {
			row = append(row, formatFloat(s.Fields[f]))
		}
		row = append(row, formatFloat(s.Fields[stats.ScoreColumn]))
		data.Rows = append(data.Rows, row)
	}
	return data
}

// RecordTable lays out stored records one submission per row.
func RecordTable(title string, records []scouting.Record) TablePageData {
	data := TablePageData{
		Title: title,
		Columns: []string{
			"matchnum", "teamnum", "color", "startingpos", "mobility", "defending",
			"autoncoral1", "autoncoral2", "autoncoral3", "autoncoral4", "autonalgaepro", "autonalgaenet",
			"telecoral1", "telecoral2", "telecoral3", "telecoral4", "telealgaepro", "telealgaenet",
			"humanplayer", "endgame", "groundpickup", "feeder", "notes", "scoutername",
		},
		Rows: make([][]string, 0, len(records)),
	}
	for _, r := range records {
		data.Rows = append(data.Rows, []string{
			strconv.Itoa(r.MatchNum), strconv.Itoa(r.TeamNum), r.Color,
			strconv.Itoa(r.StartingPos), strconv.FormatBool(r.Mobility), strconv.FormatBool(r.Defending),
			strconv.Itoa(r.AutonCoral1), strconv.Itoa(r.AutonCoral2), strconv.Itoa(r.AutonCoral3), strconv.Itoa(r.AutonCoral4),
			strconv.Itoa(r.AutonAlgaePro), strconv.Itoa(r.AutonAlgaeNet),
			strconv.Itoa(r.TeleCoral1), strconv.Itoa(r.TeleCoral2), strconv.Itoa(r.TeleCoral3), strconv.Itoa(r.TeleCoral4),
			strconv.Itoa(r.TeleAlgaePro), strconv.Itoa(r.TeleAlgaeNet),
			strconv.Itoa(r.HumanPlayer), r.Endgame, strconv.FormatBool(r.GroundPickup), strconv.FormatBool(r.Feeder),
			r.Notes, r.ScouterName,
		})
	}
	return data
}

// summaryFields lists the team page rows: every stat field, then score.
func summaryFields() []scouting.Field {
	return append(append([]scouting.Field{}, scouting.StatFields...), stats.ScoreColumn)
}

func teamURL(team int) templ.SafeURL {
	return templ.URL("/team-lookup/" + strconv.Itoa(team))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
