package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration (environment plus flags)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "addr: %s\n", cfg.Addr())
			fmt.Fprintf(out, "stat_base_url: %s\n", cfg.Scrape.BaseURL)
			fmt.Fprintf(out, "schedule_url: %s\n", cfg.Scrape.ScheduleURL)
			fmt.Fprintf(out, "season: %d\n", cfg.Scrape.Season)
			fmt.Fprintf(out, "fetch_mode: %s\n", cfg.Scrape.FetchMode)
			fmt.Fprintf(out, "request_delay: %s\n", cfg.Scrape.RequestDelay)
			fmt.Fprintf(out, "http_timeout: %s\n", cfg.Scrape.HTTPTimeout)
			fmt.Fprintf(out, "log_level: %s\n", cfg.Logging.Level)
			fmt.Fprintf(out, "database_dsn: %s\n", mask(cfg.Store.DatabaseDSN))
			fmt.Fprintf(out, "redis_url: %s\n", mask(cfg.Store.RedisURL))
			return nil
		},
	}
}

// mask hides connection strings, which usually carry credentials.
func mask(s string) string {
	if s == "" {
		return "(disabled)"
	}
	return "****"
}
