package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fortuna/trendboard/internal/logging"
)

// Source fetches a stat page and returns its first table.
type Source interface {
	FetchTable(ctx context.Context, url string) (RawTable, error)
}

// Outcome is the result of scraping one catalog entry.
type Outcome struct {
	Stat     string        `json:"stat"`
	URL      string        `json:"url"`
	Teams    int           `json:"teams"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
	Message  string        `json:"error,omitempty"`
}

// Observer is notified after every catalog entry, in order.
type Observer func(Outcome)

// Result is one aggregation run. Table is never nil; it is empty when nothing
// succeeded, in which case Errors has one entry per catalog endpoint.
type Result struct {
	Table     *Table
	Errors    []string
	Outcomes  []Outcome
	StartedAt time.Time
	Duration  time.Duration
}

// Succeeded counts the endpoints that produced a table.
func (r Result) Succeeded() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// Aggregator scrapes every catalog endpoint sequentially and merges the results.
type Aggregator struct {
	source     Source
	catalog    Catalog
	normalizer Normalizer
	logger     *logging.Logger
	observers  []Observer
}

// NewAggregator wires a source to a catalog. Observers are fixed for its lifetime.
func NewAggregator(source Source, catalog Catalog, logger *logging.Logger, observers ...Observer) *Aggregator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Aggregator{
		source:     source,
		catalog:    catalog,
		normalizer: NewNormalizer(catalog.Dropped()),
		logger:     logger.Named("aggregator"),
		observers:  observers,
	}
}

// Catalog returns the catalog the aggregator runs against.
func (a *Aggregator) Catalog() Catalog {
	return a.catalog
}

// Run never fails: per-endpoint errors are collected as messages and the
// endpoints that did succeed are merged.
func (a *Aggregator) Run(ctx context.Context) Result {
	res := Result{StartedAt: time.Now()}

	var tables []*Table
	for _, ep := range a.catalog.Endpoints() {
		url := a.catalog.URL(ep)
		started := time.Now()
		table, err := a.scrape(ctx, url, ep.Name)

		out := Outcome{Stat: ep.Name, URL: url, Duration: time.Since(started), Err: err}
		if err != nil {
			out.Message = ErrorMessage(ep.Name, err)
			res.Errors = append(res.Errors, out.Message)
			a.logger.Warn("stat scrape failed", zap.String("stat", ep.Name), zap.String("url", url), zap.Error(err))
		} else {
			out.Teams = len(table.Rows)
			tables = append(tables, table)
			a.logger.Debug("stat scraped", zap.String("stat", ep.Name), zap.Int("teams", out.Teams), zap.Duration("took", out.Duration))
		}
		res.Outcomes = append(res.Outcomes, out)
		for _, notify := range a.observers {
			notify(out)
		}
	}

	merged := Merge(tables...)
	if len(tables) > 0 {
		rules := a.catalog.DeltaRules()
		AddDeltas(merged, rules)
		merged.Columns = PlaceDeltas(merged.Columns, rules)
	}
	res.Table = merged
	res.Duration = time.Since(res.StartedAt)

	a.logger.Info("aggregation finished",
		zap.Int("succeeded", res.Succeeded()),
		zap.Int("failed", len(res.Errors)),
		zap.Int("teams", len(merged.Rows)),
		zap.Duration("took", res.Duration))
	return res
}

func (a *Aggregator) scrape(ctx context.Context, url, stat string) (*Table, error) {
	raw, err := a.source.FetchTable(ctx, url)
	if err != nil {
		return nil, err
	}
	return a.normalizer.Normalize(raw, stat)
}

// ErrorMessage renders a per-stat failure for the error log.
func ErrorMessage(stat string, err error) string {
	switch {
	case errors.Is(err, ErrNoTableFound):
		return fmt.Sprintf("No table found for %s", stat)
	case errors.Is(err, ErrSchemaMismatch):
		return fmt.Sprintf("Could not find Team or Stat column for %s", stat)
	default:
		return fmt.Sprintf("Error scraping %s: %v", stat, err)
	}
}
