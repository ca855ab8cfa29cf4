package store

import (
	"time"

	"github.com/fortuna/trendboard/internal/stats"
)

// Run is the metadata of one aggregation. Stat values are never stored.
type Run struct {
	RunID       int64     `json:"run_id" db:"run_id"`
	StartedAt   time.Time `json:"started_at" db:"started_at"`
	DurationMS  int64     `json:"duration_ms" db:"duration_ms"`
	StatsOK     int       `json:"stats_ok" db:"stats_ok"`
	StatsFailed int       `json:"stats_failed" db:"stats_failed"`
	Teams       int       `json:"teams" db:"teams"`
	Errors      []string  `json:"errors" db:"errors"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// NewRun summarizes an aggregation result.
func NewRun(res stats.Result) *Run {
	errs := append([]string{}, res.Errors...)
	return &Run{
		StartedAt:   res.StartedAt.UTC(),
		DurationMS:  res.Duration.Milliseconds(),
		StatsOK:     res.Succeeded(),
		StatsFailed: len(res.Errors),
		Teams:       len(res.Table.Rows),
		Errors:      errs,
	}
}
