package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reef-scout/report"
	"reef-scout/scouting"
	"reef-scout/stats"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, c.Render(context.Background(), &sb))
	return sb.String()
}

func TestHomeEscapesAndLinksTeams(t *testing.T) {
	html := renderString(t, Home(HomePageData{
		Teams:   []int{254, 6238},
		Message: "<b>2 imported</b>",
	}))

	assert.Contains(t, html, `href="/team-lookup/6238"`)
	assert.Contains(t, html, "&lt;b&gt;2 imported&lt;/b&gt;")
	assert.NotContains(t, html, "<b>2 imported</b>")
	assert.Contains(t, html, `["Parked","Shallow","Deep","None"]`)
}

func TestTeamLookupPage(t *testing.T) {
	engine := stats.NewEngine(stats.Reefscape2025)
	records := []scouting.Record{
		{MatchNum: 1, TeamNum: 118, StartingPos: 1, Endgame: "Deep", Notes: "fast <cycle>"},
	}
	html := renderString(t, TeamLookup(TeamPageData{
		Report: report.TeamReport{
			Team:          118,
			MatchesPlayed: 1,
			Averages:      engine.Average(records, stats.TeamPrecision),
			Medians:       engine.Median(records),
			Endgame:       stats.EndgameDistribution(records),
			Records:       records,
		},
		Categories: stats.Categories,
	}))

	assert.Contains(t, html, "<title>Team 118 | Reef Scout</title>")
	assert.Contains(t, html, "Matches played: 1")
	assert.Contains(t, html, `<option value="tele_coral">Tele Coral</option>`)
	assert.Contains(t, html, "fast &lt;cycle&gt;")
	assert.Contains(t, html, `<script id="team" type="application/json">118`)
	assert.Contains(t, html, `<span class="font-semibold">Deep</span>: 1`)
}

func TestSummaryTable(t *testing.T) {
	data := SummaryTable("Averages", []stats.Summary{{
		Team:          254,
		MatchesPlayed: 2,
		Fields:        map[scouting.Field]float64{scouting.FieldTeleCoral4: 2.5, stats.ScoreColumn: 12.125},
	}})

	require.Len(t, data.Rows, 1)
	require.Len(t, data.Rows[0], len(data.Columns))
	assert.Equal(t, "teamnum", data.Columns[0])
	assert.Equal(t, "score", data.Columns[len(data.Columns)-1])
	assert.Equal(t, "254", data.Rows[0][0])
	assert.Equal(t, "12.125", data.Rows[0][len(data.Columns)-1])

	html := renderString(t, Table(data))
	assert.Contains(t, html, "<td class=\"px-2\">2.5</td>")
}

func TestRecordTableShape(t *testing.T) {
	data := RecordTable("Raw Data", []scouting.Record{{MatchNum: 3, TeamNum: 971, Mobility: true, ScouterName: "Sam"}})

	require.Len(t, data.Rows, 1)
	assert.Len(t, data.Rows[0], len(data.Columns))
	assert.Equal(t, "true", data.Rows[0][4])
	assert.Equal(t, "Sam", data.Rows[0][len(data.Columns)-1])

	empty := renderString(t, Table(RecordTable("Raw Data", nil)))
	assert.Contains(t, empty, "No data")
}

func TestSchedulePage(t *testing.T) {
	html := renderString(t, Schedule(SchedulePageData{
		Matches: []scouting.Match{
			{Number: 1, Blue1: 254, Blue2: 971, Blue3: 118, Red1: 6238, Red2: 1678, Red3: 2056},
			{Number: 2},
			{Number: 3, Blue1: 254},
		},
	}))

	assert.Contains(t, html, `href="/team-lookup/1678"`)
	assert.Contains(t, html, `<td class="text-red-700"><a class="hover:underline" href="/team-lookup/2056">2056</a></td>`)
	assert.Contains(t, html, "Not scheduled")
	assert.Contains(t, html, "<td>-</td>")
	assert.NotContains(t, html, "/import-schedule/tba")

	html = renderString(t, Schedule(SchedulePageData{TBAEnabled: true}))
	assert.Contains(t, html, "/import-schedule/tba")
	assert.Contains(t, html, "No matches")
}
