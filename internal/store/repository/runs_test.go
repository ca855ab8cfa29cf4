package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/trendboard/internal/store"
)

func openTestDB(t *testing.T) *store.Database {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	ctx := context.Background()
	db, err := store.NewDatabase(ctx, dsn, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations(ctx))
	require.NoError(t, db.RunMigrations(ctx), "migrations are idempotent")
	return db
}

func TestRunRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewRunRepository(db)
	ctx := context.Background()

	older := &store.Run{StartedAt: time.Now().Add(-time.Hour).UTC(), DurationMS: 10, StatsOK: 7, Teams: 32, Errors: []string{}}
	newer := &store.Run{
		StartedAt:   time.Now().UTC(),
		DurationMS:  20,
		StatsOK:     6,
		StatsFailed: 1,
		Teams:       32,
		Errors:      []string{"Error scraping Red Zone Scoring %: 503 Service Unavailable"},
	}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))
	assert.NotZero(t, newer.RunID)

	runs, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.RunID, runs[0].RunID)
	assert.Equal(t, newer.Errors, runs[0].Errors)
	assert.Equal(t, older.RunID, runs[1].RunID)
}
