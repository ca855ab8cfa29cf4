package main

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/trendboard/internal/stats"
)

const rushingHTML = `<table>
<tr><th>Rank</th><th>Team</th><th>2025</th><th>Last 3</th><th>2024</th></tr>
<tr><td>1</td><td>Bears</td><td>120.0</td><td>115.0</td><td>99</td></tr>
<tr><td>2</td><td>Lions</td><td>120.0</td><td>108.0</td><td>99</td></tr>
</table>`

func newStatSite(t *testing.T) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/stat/opponent-rushing-yards-per-game", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(rushingHTML))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	t.Setenv("STAT_BASE_URL", srv.URL+"/stat/")
	t.Setenv("SCHEDULE_URL", srv.URL+"/schedule/")
	t.Setenv("LOG_LEVEL", "error")
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestExportToFile(t *testing.T) {
	newStatSite(t)
	out := filepath.Join(t.TempDir(), "stats.csv")

	_, stderr, err := runCLI(t, "export", "--delay", "0s", "-o", out, "--rushing")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Error scraping "+stats.PassingAllowed)
	assert.Contains(t, stderr, "✓ Wrote 1 teams")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 2)
	assert.Equal(t, []string{
		stats.TeamColumn, stats.RushingAllowed, stats.Last3Name(stats.RushingAllowed), stats.DeltaName(stats.RushingAllowed),
	}, records[0])
	assert.Equal(t, "Bears", records[1][0])
}

func TestExportToStdoutWithColumns(t *testing.T) {
	newStatSite(t)

	stdout, _, err := runCLI(t, "export", "--delay", "0s", "--cols", stats.RushingAllowed)
	require.NoError(t, err)
	assert.Equal(t, "Team,"+stats.RushingAllowed+"\nBears,120\nLions,120\n", stdout)
}

func TestExportNothingLoaded(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)
	t.Setenv("STAT_BASE_URL", srv.URL+"/")
	t.Setenv("LOG_LEVEL", "error")

	_, stderr, err := runCLI(t, "export", "--delay", "0s")
	assert.EqualError(t, err, "no data was loaded")
	assert.Contains(t, stderr, "404")
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("FETCH_MODE", "browser")
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PORT", "9000")
	t.Setenv("REQUEST_DELAY", "3s")
	t.Setenv("DATABASE_DSN", "postgres://user:secret@db/trendboard")

	stdout, _, err := runCLI(t, "config", "--fetch-mode", "http", "--delay", "250ms")
	require.NoError(t, err)

	assert.Contains(t, stdout, "fetch_mode: http\n")
	assert.Contains(t, stdout, "request_delay: 250ms\n")
	assert.Contains(t, stdout, "addr: 0.0.0.0:9000\n", "unset flags keep the environment")
	assert.Contains(t, stdout, "database_dsn: ****\n")
	assert.NotContains(t, stdout, "secret")
}

func TestEnvironmentWinsOverFlagDefaults(t *testing.T) {
	t.Setenv("FETCH_MODE", "browser")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("REDIS_URL", "")

	stdout, _, err := runCLI(t, "config")
	require.NoError(t, err)
	assert.Contains(t, stdout, "fetch_mode: browser\n")
	assert.Contains(t, stdout, "log_level: warn\n")
	assert.Contains(t, stdout, "redis_url: (disabled)\n")
}

func TestInvalidFetchModeFlag(t *testing.T) {
	_, _, err := runCLI(t, "export", "--fetch-mode", "pigeon")
	assert.ErrorContains(t, err, "invalid FETCH_MODE")
}
