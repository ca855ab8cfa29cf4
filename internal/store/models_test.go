package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fortuna/trendboard/internal/stats"
)

func TestNewRun(t *testing.T) {
	started := time.Date(2025, 10, 5, 17, 0, 0, 0, time.FixedZone("EDT", -4*3600))
	res := stats.Result{
		Table:     &stats.Table{Rows: make([]stats.Row, 32)},
		Errors:    []string{"No table found for Red Zone Scoring %"},
		Outcomes:  []stats.Outcome{{Stat: "a"}, {Stat: "b", Err: errors.New("x")}, {Stat: "c"}},
		StartedAt: started,
		Duration:  7250 * time.Millisecond,
	}

	run := NewRun(res)
	assert.Equal(t, time.UTC, run.StartedAt.Location())
	assert.True(t, run.StartedAt.Equal(started))
	assert.Equal(t, int64(7250), run.DurationMS)
	assert.Equal(t, 2, run.StatsOK)
	assert.Equal(t, 1, run.StatsFailed)
	assert.Equal(t, 32, run.Teams)

	res.Errors[0] = "changed"
	assert.Equal(t, "No table found for Red Zone Scoring %", run.Errors[0])
}

func TestNewRunWithoutErrorsHasEmptyList(t *testing.T) {
	run := NewRun(stats.Result{Table: &stats.Table{}})
	assert.NotNil(t, run.Errors)
	assert.Empty(t, run.Errors)
}
