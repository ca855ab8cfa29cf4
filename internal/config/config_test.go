package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, FetchHTTP, cfg.Scrape.FetchMode)
	assert.Equal(t, time.Second, cfg.Scrape.RequestDelay)
	assert.Equal(t, 2025, cfg.Scrape.Season)
	assert.Empty(t, cfg.Store.DatabaseDSN)
	assert.NoError(t, cfg.Validate())
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STAT_BASE_URL", "http://localhost:9999/stat/")
	t.Setenv("SEASON", "2026")
	t.Setenv("REQUEST_DELAY", "250ms")
	t.Setenv("FETCH_MODE", "browser")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_DSN", "postgres://localhost/trendboard")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Scrape.RequestDelay)
	assert.Equal(t, FetchBrowser, cfg.Scrape.FetchMode)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, DefaultUserAgent, cfg.Scrape.UserAgent)
	assert.Equal(t, "postgres://localhost/trendboard", cfg.Store.DatabaseDSN)

	catalog := cfg.Catalog()
	assert.Equal(t, "http://localhost:9999/stat/", catalog.BaseURL())
	assert.Contains(t, catalog.Dropped(), "2025")
}

func TestLoadRejectsUnknownFetchMode(t *testing.T) {
	t.Setenv("FETCH_MODE", "carrier-pigeon")

	_, err := Load()
	assert.ErrorContains(t, err, `invalid FETCH_MODE "carrier-pigeon"`)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("REQUEST_DELAY", "soon")

	_, err := Load()
	assert.Error(t, err)
}
