package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fortuna/trendboard/internal/ingest/teamrankings"
	"github.com/fortuna/trendboard/internal/stats"
)

func newExportCmd(root *rootOptions) *cobra.Command {
	var (
		output  string
		cols    []string
		rushing bool
		passing bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Scrape once and write the merged stats as CSV",
		Example: `  trendboard export -o nfl_team_stats.csv
  trendboard export --rushing --cols "Opponent Rushing Yards per Game"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			opts := stats.ViewOptions{}
			if cmd.Flags().Changed("cols") {
				if len(cols) == 0 {
					return errors.New("select at least one stat")
				}
				opts.Columns = cols
			}
			if rushing {
				opts.Green = append(opts.Green, "rushing")
			}
			if passing {
				opts.Green = append(opts.Green, "passing")
			}

			fetcher, release := newFetcher(cfg, logger)
			defer release()

			catalog := cfg.Catalog()
			res := stats.NewAggregator(teamrankings.NewClient(fetcher), catalog, logger).Run(cmd.Context())
			for _, msg := range res.Errors {
				fmt.Fprintln(cmd.ErrOrStderr(), "⚠", msg)
			}
			if res.Table.Empty() {
				return errors.New("no data was loaded")
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			view := stats.Apply(res.Table, catalog.DeltaRules(), opts)
			if err := stats.WriteCSV(w, view); err != nil {
				return err
			}
			if output != "" && output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %d teams to %s\n", len(view.Rows), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write CSV to this file instead of stdout")
	cmd.Flags().StringArrayVar(&cols, "cols", nil, "stat column to include (repeatable; default all)")
	cmd.Flags().BoolVar(&rushing, "rushing", false, "only teams green on rushing yards allowed")
	cmd.Flags().BoolVar(&passing, "passing", false, "only teams green on passing yards allowed")
	return cmd
}
