package teamrankings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/trendboard/internal/stats"
)

const statPage = `<html><body>
<h1>Opponent Rushing Yards per Game</h1>
<table class="datatable">
  <thead>
    <tr><th>Rank</th><th>Team</th><th>2025</th><th>Last 3</th><th>Last 1</th><th>Home</th><th>Away</th><th>2024</th></tr>
  </thead>
  <tbody>
    <tr><td>1</td><td><a href="/nfl/team/baltimore-ravens">Baltimore</a></td><td>1,020.5</td><td>98.3</td><td>88.0</td><td>95.1</td><td>101.2</td><td>90.0</td></tr>
    <tr><td>2</td><td>  Detroit
      </td><td>120.0</td><td>108.0</td><td>110.0</td><td>117.0</td><td>123.0</td><td>99.0</td></tr>
    <tr><td>3</td><td>Denver</td><td>--</td><td>—</td><td></td><td>1</td><td>1</td><td>1</td></tr>
  </tbody>
</table>
<table><tr><th>Other</th></tr></table>
</body></html>`

func TestParseStatTable(t *testing.T) {
	doc, err := ParseHTML(statPage)
	require.NoError(t, err)

	raw, err := ParseStatTable(doc)
	require.NoError(t, err)

	assert.Equal(t, []string{"Rank", "Team", "2025", "Last 3", "Last 1", "Home", "Away", "2024"}, raw.Headers)
	require.Len(t, raw.Rows, 3)
	assert.Equal(t, "Baltimore", raw.Rows[0][1])
	assert.Equal(t, "Detroit", raw.Rows[1][1])
	assert.Equal(t, "1,020.5", raw.Rows[0][2])
	assert.Equal(t, "—", raw.Rows[2][3])
}

func TestParseStatTableNoTable(t *testing.T) {
	doc, err := ParseHTML(`<html><body><p>Access denied</p></body></html>`)
	require.NoError(t, err)

	_, err = ParseStatTable(doc)
	assert.ErrorIs(t, err, stats.ErrNoTableFound)
	assert.Equal(t, KindNoTable, Kind(err))
}

func TestParsedTableNormalizes(t *testing.T) {
	doc, err := ParseHTML(statPage)
	require.NoError(t, err)
	raw, err := ParseStatTable(doc)
	require.NoError(t, err)

	table, err := stats.NewNormalizer(stats.DroppedColumns(2025)).Normalize(raw, stats.RushingAllowed)
	require.NoError(t, err)
	assert.Equal(t, []string{"Baltimore", "Denver", "Detroit"}, table.Teams())
	assert.Equal(t, stats.Num(1020.5), table.Rows[0].Get(stats.RushingAllowed))
	assert.False(t, table.Rows[1].Get(stats.Last3Name(stats.RushingAllowed)).Valid)
}

const schedulePage = `<html><body>
<table>
  <tr><th>Date</th><th>Matchup</th><th>Time</th></tr>
  <tr><td>Sep 4</td><td>Dallas @ Philadelphia</td><td>8:20 PM</td></tr>
  <tr><td>Sep 5</td><td>Kansas City vs. LA Chargers</td></tr>
  <tr><td>Sep 7</td><td>Pittsburgh @ NY Jets</td><td>1:00 PM</td><td>extra</td></tr>
</table>
</body></html>`

func TestParseSchedule(t *testing.T) {
	s, err := ParseSchedule(schedulePage)
	require.NoError(t, err)

	assert.Equal(t, []string{"Date", "Matchup", "Time"}, s.Headers)
	require.Len(t, s.Rows, 3)
	assert.Equal(t, []string{"Sep 4", "Dallas @ Philadelphia", "8:20 PM"}, s.Rows[0])
	assert.Equal(t, []string{"Sep 5", "Kansas City vs. LA Chargers", ""}, s.Rows[1])
	assert.Equal(t, []string{"Sep 7", "Pittsburgh @ NY Jets", "1:00 PM"}, s.Rows[2])
	assert.False(t, s.Empty())
}

func TestParseScheduleNoTable(t *testing.T) {
	_, err := ParseSchedule(`<html><body>nothing yet</body></html>`)
	require.ErrorIs(t, err, ErrNoScheduleTable)
	assert.Equal(t, "No schedule table found.", ScheduleMessage(err))
}
