package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/trendboard/internal/ingest/teamrankings"
	"github.com/fortuna/trendboard/internal/logging"
	"github.com/fortuna/trendboard/internal/stats"
	"github.com/fortuna/trendboard/internal/store"
)

// ErrHistoryDisabled is returned by RecentRuns when no database is configured.
var ErrHistoryDisabled = errors.New("run history is disabled")

// recordTimeout bounds bookkeeping after a run; it outlives the request.
const recordTimeout = 5 * time.Second

// ScheduleSource fetches the season schedule.
type ScheduleSource interface {
	FetchSchedule(ctx context.Context, url string) (*teamrankings.Schedule, error)
}

// RunHistory stores run metadata.
type RunHistory interface {
	Create(ctx context.Context, run *store.Run) error
	Recent(ctx context.Context, limit int) ([]*store.Run, error)
}

// RunPublisher announces finished runs.
type RunPublisher interface {
	PublishRun(ctx context.Context, run *store.Run) (string, error)
}

// Option configures a StatsService.
type Option func(*StatsService)

// WithHistory records every run.
func WithHistory(h RunHistory) Option {
	return func(s *StatsService) { s.history = h }
}

// WithPublisher publishes every run.
func WithPublisher(p RunPublisher) Option {
	return func(s *StatsService) { s.publisher = p }
}

// WithRunListener is called with every finished run.
func WithRunListener(fn func(stats.Result)) Option {
	return func(s *StatsService) { s.listeners = append(s.listeners, fn) }
}

// StatsService rebuilds the merged table on every call. Nothing from a
// previous run is reused.
type StatsService struct {
	aggregator *stats.Aggregator
	schedule   ScheduleSource
	history    RunHistory
	publisher  RunPublisher
	listeners  []func(stats.Result)
	logger     *logging.Logger
}

// NewStatsService creates the service. schedule may be nil.
func NewStatsService(agg *stats.Aggregator, schedule ScheduleSource, logger *logging.Logger, opts ...Option) *StatsService {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &StatsService{
		aggregator: agg,
		schedule:   schedule,
		logger:     logger.Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the catalog runs are made against.
func (s *StatsService) Catalog() stats.Catalog {
	return s.aggregator.Catalog()
}

// Run scrapes every stat and merges them. Bookkeeping failures are logged,
// never returned.
func (s *StatsService) Run(ctx context.Context) stats.Result {
	res := s.aggregator.Run(ctx)

	if s.history != nil || s.publisher != nil {
		run := store.NewRun(res)
		bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
		defer cancel()

		if s.history != nil {
			if err := s.history.Create(bctx, run); err != nil {
				s.logger.Warn("failed to record run", zap.Error(err))
			}
		}
		if s.publisher != nil {
			if _, err := s.publisher.PublishRun(bctx, run); err != nil {
				s.logger.Warn("failed to publish run", zap.Error(err))
			}
		}
	}

	for _, fn := range s.listeners {
		fn(res)
	}
	return res
}

// Schedule fetches the season schedule. A failure comes back as a warning
// message so it never blocks the stats.
func (s *StatsService) Schedule(ctx context.Context) (*teamrankings.Schedule, string) {
	if s.schedule == nil {
		return nil, ""
	}
	url := s.Catalog().ScheduleURL()
	sched, err := s.schedule.FetchSchedule(ctx, url)
	if err != nil {
		s.logger.Warn("schedule scrape failed", zap.String("url", url), zap.Error(err))
		return nil, teamrankings.ScheduleMessage(err)
	}
	return sched, ""
}

// RecentRuns lists the latest recorded runs.
func (s *StatsService) RecentRuns(ctx context.Context, limit int) ([]*store.Run, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	runs, err := s.history.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}
