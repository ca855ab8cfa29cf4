package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fortuna/trendboard/internal/api/rest"
	"github.com/fortuna/trendboard/internal/api/websocket"
	"github.com/fortuna/trendboard/internal/config"
	"github.com/fortuna/trendboard/internal/ingest/teamrankings"
	"github.com/fortuna/trendboard/internal/logging"
	"github.com/fortuna/trendboard/internal/metrics"
	"github.com/fortuna/trendboard/internal/publisher"
	"github.com/fortuna/trendboard/internal/service"
	"github.com/fortuna/trendboard/internal/stats"
	"github.com/fortuna/trendboard/internal/store"
	"github.com/fortuna/trendboard/internal/store/repository"
)

const (
	connectAttempts = 5
	connectDelay    = 2 * time.Second
	shutdownTimeout = 10 * time.Second
)

func newServeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard and JSON API",
		Args:  cobra.NoArgs,
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

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *logging.Logger) error {
	logger.Info("Starting trendboard", zap.String("version", version), zap.Int("season", cfg.Scrape.Season))

	m := metrics.New()
	ws := websocket.NewServer(logger, m)
	go ws.Run(ctx)

	fetcher, release := newFetcher(cfg, logger)
	defer release()
	client := teamrankings.NewClient(fetcher)

	agg := stats.NewAggregator(client, cfg.Catalog(), logger, m.ObserveOutcome, ws.ObserveOutcome)
	opts := []service.Option{
		service.WithRunListener(m.RecordRun),
		service.WithRunListener(ws.BroadcastRun),
	}

	if cfg.Store.DatabaseDSN != "" {
		db, err := connect(ctx, logger, "run history database", func() (*store.Database, error) {
			return store.NewDatabase(ctx, cfg.Store.DatabaseDSN, logger)
		})
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.RunMigrations(ctx); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
		opts = append(opts, service.WithHistory(repository.NewRunRepository(db)))
		logger.Info("✓ Connected to run history database")
	}

	if cfg.Store.RedisURL != "" {
		pub, err := connect(ctx, logger, "redis", func() (*publisher.RedisPublisher, error) {
			return publisher.NewRedisPublisher(ctx, cfg.Store.RedisURL)
		})
		if err != nil {
			return err
		}
		defer pub.Close()
		opts = append(opts, service.WithPublisher(pub))
		logger.Info("✓ Redis publisher initialized", zap.String("stream", publisher.RunStream))
	}

	svc := service.NewStatsService(agg, client, logger, opts...)
	srv := rest.NewServer(cfg.Addr(), rest.NewHandler(svc, logger), ws, m, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	logger.Info("✓ REST API server listening", zap.String("addr", cfg.Addr()), zap.String("fetch_mode", cfg.Scrape.FetchMode))

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("REST server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down trendboard gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("REST API server shutdown error", zap.Error(err))
	}
	logger.Info("trendboard stopped")
	return nil
}

// connect retries fn while the target starts up.
func connect[T any](ctx context.Context, logger *logging.Logger, what string, fn func() (T, error)) (T, error) {
	var zero T
	var err error
	for i := 1; i <= connectAttempts; i++ {
		var v T
		if v, err = fn(); err == nil {
			return v, nil
		}
		if i == connectAttempts {
			break
		}
		logger.Warn("connection attempt failed",
			zap.String("target", what),
			zap.Int("attempt", i),
			zap.Int("max", connectAttempts),
			zap.Error(err))
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(connectDelay):
		}
	}
	return zero, fmt.Errorf("failed to connect to %s after %d attempts: %w", what, connectAttempts, err)
}
