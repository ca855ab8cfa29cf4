package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/fortuna/trendboard/internal/stats"
)

// Fetch modes.
const (
	FetchHTTP    = "http"
	FetchBrowser = "browser"
)

// DefaultUserAgent identifies requests as a desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/116.0.0.0 Safari/537.36"

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Scrape  ScrapeConfig
	Logging LogConfig
	Store   StoreConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// ScrapeConfig controls how stat pages are fetched.
type ScrapeConfig struct {
	BaseURL      string        `envconfig:"STAT_BASE_URL" default:"https://www.teamrankings.com/nfl/stat/"`
	ScheduleURL  string        `envconfig:"SCHEDULE_URL" default:"https://www.teamrankings.com/nfl/schedules/season/"`
	UserAgent    string        `envconfig:"USER_AGENT"`
	Season       int           `envconfig:"SEASON" default:"2025"`
	RequestDelay time.Duration `envconfig:"REQUEST_DELAY" default:"1s"`
	HTTPTimeout  time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
	FetchMode    string        `envconfig:"FETCH_MODE" default:"http"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// StoreConfig points at the optional run history database and event stream.
// Empty values disable the corresponding component.
type StoreConfig struct {
	DatabaseDSN string `envconfig:"DATABASE_DSN"`
	RedisURL    string `envconfig:"REDIS_URL"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Scrape.UserAgent == "" {
		cfg.Scrape.UserAgent = DefaultUserAgent
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Host: "0.0.0.0",
		},
		Scrape: ScrapeConfig{
			BaseURL:      stats.DefaultBaseURL,
			ScheduleURL:  stats.DefaultScheduleURL,
			UserAgent:    DefaultUserAgent,
			Season:       2025,
			RequestDelay: time.Second,
			HTTPTimeout:  30 * time.Second,
			FetchMode:    FetchHTTP,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch c.Scrape.FetchMode {
	case FetchHTTP, FetchBrowser:
	default:
		return fmt.Errorf("invalid FETCH_MODE %q (want %q or %q)", c.Scrape.FetchMode, FetchHTTP, FetchBrowser)
	}
	if c.Scrape.RequestDelay < 0 {
		return fmt.Errorf("REQUEST_DELAY must not be negative, got %s", c.Scrape.RequestDelay)
	}
	if c.Scrape.Season < 2000 {
		return fmt.Errorf("SEASON looks wrong: %d", c.Scrape.Season)
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// Catalog builds the immutable stat catalog for the configured site and season.
func (c *Config) Catalog() stats.Catalog {
	return stats.NewCatalog(
		c.Scrape.BaseURL,
		c.Scrape.ScheduleURL,
		stats.DefaultEndpoints(),
		stats.DroppedColumns(c.Scrape.Season),
		stats.DefaultDeltaRules(),
	)
}
