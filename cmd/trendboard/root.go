package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fortuna/trendboard/internal/config"
	"github.com/fortuna/trendboard/internal/ingest/teamrankings"
	"github.com/fortuna/trendboard/internal/logging"
)

// rootOptions are the persistent flags; set ones override the environment.
type rootOptions struct {
	port      string
	logLevel  string
	fetchMode string
	delay     time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "NFL team stat trends from TeamRankings",
		Long:          `trendboard scrapes NFL team stat pages, merges them by team, adds Last-3 trend columns and serves the result as a dashboard, JSON and CSV.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Flag defaults only document the built-in values; unset flags never override.
	def := config.Default()
	f := cmd.PersistentFlags()
	f.StringVar(&opts.port, "port", def.Server.Port, "HTTP port (overrides PORT)")
	f.StringVar(&opts.logLevel, "log-level", def.Logging.Level, "debug, info, warn or error (overrides LOG_LEVEL)")
	f.StringVar(&opts.fetchMode, "fetch-mode", def.Scrape.FetchMode, "http or browser (overrides FETCH_MODE)")
	f.DurationVar(&opts.delay, "delay", def.Scrape.RequestDelay, "pause between page requests (overrides REQUEST_DELAY)")

	cmd.AddCommand(newServeCmd(opts), newExportCmd(opts), newConfigCmd(opts))
	return cmd
}

// load reads the environment, then applies flags the user actually set.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	f := cmd.Root().PersistentFlags()
	if f.Changed("port") {
		cfg.Server.Port = o.port
	}
	if f.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if f.Changed("fetch-mode") {
		cfg.Scrape.FetchMode = o.fetchMode
	}
	if f.Changed("delay") {
		cfg.Scrape.RequestDelay = o.delay
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*logging.Logger, error) {
	lc := logging.DefaultConfig()
	if cfg.Logging.Development {
		lc = logging.DevelopmentConfig()
	}
	lc.Level = cfg.Logging.Level
	logger, err := logging.New(lc)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// newFetcher picks the page fetcher for the configured mode. The returned
// func releases it.
func newFetcher(cfg *config.Config, logger *logging.Logger) (teamrankings.Fetcher, func()) {
	opts := teamrankings.Options{
		UserAgent: cfg.Scrape.UserAgent,
		Delay:     cfg.Scrape.RequestDelay,
		Timeout:   cfg.Scrape.HTTPTimeout,
	}
	if cfg.Scrape.FetchMode == config.FetchBrowser {
		b := teamrankings.NewBrowserFetcher(opts, logger)
		return b, b.Close
	}
	return teamrankings.NewHTTPFetcher(opts, logger), func() {}
}
