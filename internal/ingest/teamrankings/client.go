package teamrankings

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fortuna/trendboard/internal/logging"
	"github.com/fortuna/trendboard/internal/stats"
)

// Fetcher returns the HTML body of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Options configure a fetcher.
type Options struct {
	UserAgent string
	// Delay is the minimum spacing between two requests. Zero disables it.
	Delay   time.Duration
	Timeout time.Duration
}

func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// HTTPFetcher fetches pages with a plain HTTP client. It never retries.
type HTTPFetcher struct {
	resty   *resty.Client
	limiter *rate.Limiter
	logger  *logging.Logger
}

// NewHTTPFetcher creates a fetcher sending a browser User-Agent.
func NewHTTPFetcher(opts Options, logger *logging.Logger) *HTTPFetcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	client := resty.New().
		SetRetryCount(0).
		SetHeader("Accept", "text/html,application/xhtml+xml")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}

	return &HTTPFetcher{
		resty:   client,
		limiter: newLimiter(opts.Delay),
		logger:  logger.Named("fetch"),
	}
}

// Fetch waits for the inter-request delay, then GETs url.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", &NetworkError{URL: url, Err: err}
	}

	start := time.Now()
	resp, err := f.resty.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", &NetworkError{URL: url, Err: err}
	}
	f.logger.Debug("fetched page",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode()),
		zap.Int("bytes", len(resp.Body())),
		zap.Duration("took", time.Since(start)))

	if resp.IsError() {
		return "", &HTTPStatusError{URL: url, StatusCode: resp.StatusCode(), Status: resp.Status()}
	}
	return resp.String(), nil
}

// Client turns fetched pages into raw tables. It satisfies stats.Source.
type Client struct {
	fetcher Fetcher
}

// NewClient wraps a fetcher.
func NewClient(fetcher Fetcher) *Client {
	return &Client{fetcher: fetcher}
}

// FetchTable fetches url and returns its first table.
func (c *Client) FetchTable(ctx context.Context, url string) (stats.RawTable, error) {
	html, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return stats.RawTable{}, err
	}
	doc, err := ParseHTML(html)
	if err != nil {
		return stats.RawTable{}, err
	}
	return ParseStatTable(doc)
}

// FetchSchedule fetches and parses the season schedule.
func (c *Client) FetchSchedule(ctx context.Context, url string) (*Schedule, error) {
	html, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch schedule: %w", err)
	}
	return ParseSchedule(html)
}
