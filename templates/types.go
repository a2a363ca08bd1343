package templates

import (
	"reef-scout/report"
	"reef-scout/scouting"
	"reef-scout/stats"
)

type NavLink struct {
	Href  string
	Label string
}

var navLinks = []NavLink{
	{Href: "/", Label: "Home"},
	{Href: "/averages", Label: "Averages"},
	{Href: "/medians", Label: "Medians"},
	{Href: "/raw", Label: "Raw Data"},
	{Href: "/match-schedule", Label: "Schedule"},
}

type HomePageData struct {
	Teams      []int
	Categories []stats.Category
	Message    string
}

type TeamPageData struct {
	Report     report.TeamReport
	Categories []stats.Category
}

// TablePageData is a plain table page: the averages, medians and raw views.
type TablePageData struct {
	Title   string
	Columns []string
	Rows    [][]string
}

type SchedulePageData struct {
	Matches    []scouting.Match
	TBAEnabled bool
	Message    string
}
