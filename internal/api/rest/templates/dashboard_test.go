package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/trendboard/internal/ingest/teamrankings"
	"github.com/fortuna/trendboard/internal/stats"
)

func render(t *testing.T, data DashboardData) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Dashboard(data).Render(context.Background(), &buf))
	return buf.String()
}

func TestDashboardRendersTableAndLink(t *testing.T) {
	body := render(t, DashboardData{
		Schedule: &teamrankings.Schedule{Headers: []string{"Matchup"}, Rows: [][]string{{"Dallas @ <Philadelphia>"}}},
		Columns: []ColumnOption{
			{Name: stats.RushingAllowed, Checked: true},
			{Name: stats.PassingAllowed},
		},
		Filters: []FilterOption{{Key: "rushing", Label: "Show only green Rushing Teams", Checked: true}},
		Table: &stats.Display{
			Columns: []string{stats.TeamColumn, stats.RushingAllowed},
			Rows: []stats.DisplayRow{
				{Team: "Bears", Cells: []stats.Cell{{Column: stats.RushingAllowed, Text: "120", Highlight: true}}},
				{Team: "Lions", Cells: []stats.Cell{{Column: stats.RushingAllowed, Text: "95"}}},
			},
		},
		Errors:      []string{"No table found for Red Zone Scoring %"},
		Loaded:      true,
		CSVHref:     templ.SafeURL("data:text/csv;charset=utf-8;base64,VGVhbQo="),
		CSVFilename: "nfl_team_stats.csv",
	})

	assert.Contains(t, body, "<!doctype html>")
	assert.Contains(t, body, "Dallas @ &lt;Philadelphia&gt;")
	assert.Contains(t, body, `value="`+stats.RushingAllowed+`" checked>`)
	assert.Contains(t, body, `value="`+stats.PassingAllowed+`">`)
	assert.Contains(t, body, `name="rushing" value="1" checked>`)
	assert.Contains(t, body, `<td>Bears</td><td class="green">120</td>`)
	assert.Contains(t, body, `<td>Lions</td><td>95</td>`)
	assert.Contains(t, body, `href="data:text/csv;charset=utf-8;base64,VGVhbQo=" download="nfl_team_stats.csv"`)
	assert.Contains(t, body, "View scraping errors (1)")
	assert.Contains(t, body, "Stats loaded!")
}

func TestDashboardStates(t *testing.T) {
	body := render(t, DashboardData{ScheduleWarning: "No schedule table found."})
	assert.Contains(t, body, `<p class="warning">No schedule table found.</p>`)
	assert.Contains(t, body, "No data was loaded. Check error messages below.")
	assert.NotContains(t, body, "<details>")

	body = render(t, DashboardData{Loaded: true, NoneSelected: true, Table: &stats.Display{}})
	assert.Contains(t, body, "Please select at least one stat from the sidebar.")
	assert.NotContains(t, body, `<table id="stats">`)
	assert.NotContains(t, body, "Download CSV")
}
