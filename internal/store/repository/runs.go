package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/fortuna/trendboard/internal/store"
)

// DefaultRecentLimit bounds RecentRuns when the caller passes no limit.
const DefaultRecentLimit = 20

// RunRepository handles run history access
type RunRepository struct {
	db *store.Database
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *store.Database) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts run and fills in its id and creation time.
func (r *RunRepository) Create(ctx context.Context, run *store.Run) error {
	query := `
		INSERT INTO runs (started_at, duration_ms, stats_ok, stats_failed, teams, errors)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING run_id, created_at
	`
	err := r.db.DB().QueryRowContext(ctx, query,
		run.StartedAt, run.DurationMS, run.StatsOK, run.StatsFailed, run.Teams, pq.Array(run.Errors),
	).Scan(&run.RunID, &run.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// Recent returns the latest runs, newest first.
func (r *RunRepository) Recent(ctx context.Context, limit int) ([]*store.Run, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	query := `
		SELECT run_id, started_at, duration_ms, stats_ok, stats_failed, teams, errors, created_at
		FROM runs
		ORDER BY started_at DESC, run_id DESC
		LIMIT $1
	`
	rows, err := r.db.DB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []*store.Run
	for rows.Next() {
		run := &store.Run{}
		if err := rows.Scan(
			&run.RunID, &run.StartedAt, &run.DurationMS, &run.StatsOK, &run.StatsFailed,
			&run.Teams, pq.Array(&run.Errors), &run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
