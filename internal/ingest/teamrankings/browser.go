package teamrankings

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/fortuna/trendboard/internal/logging"
)

// renderWait gives client-side scripts time to fill the stat table.
const renderWait = time.Second

// BrowserFetcher renders pages in headless Chrome. Used when the site
// serves its tables from JavaScript.
type BrowserFetcher struct {
	mu          sync.Mutex
	lastRequest time.Time
	interval    time.Duration
	timeout     time.Duration
	logger      *logging.Logger

	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewBrowserFetcher starts a headless Chrome allocator.
func NewBrowserFetcher(opts Options, logger *logging.Logger) *BrowserFetcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)

	return &BrowserFetcher{
		interval: opts.Delay,
		timeout:  timeout,
		logger:   logger.Named("browser"),
		allocCtx: allocCtx,
		cancel:   cancel,
	}
}

// Close releases the browser.
func (b *BrowserFetcher) Close() {
	if b.cancel != nil {
		b.cancel()
	}
}

// Fetch renders url and returns the resulting document.
func (b *BrowserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.lastRequest.IsZero() {
		if wait := b.interval - time.Since(b.lastRequest); wait > 0 {
			b.logger.Debug("rate limiting", zap.Duration("wait", wait))
			select {
			case <-ctx.Done():
				return "", &NetworkError{URL: url, Err: ctx.Err()}
			case <-time.After(wait):
			}
		}
	}

	html, err := b.render(ctx, url)
	b.lastRequest = time.Now()
	return html, err
}

func (b *BrowserFetcher) render(ctx context.Context, url string) (string, error) {
	browserCtx, cancel := chromedp.NewContext(b.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, b.timeout)
	defer cancel()

	// Tie the tab to the caller so a dropped request stops rendering.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(renderWait),
		chromedp.OuterHTML(`html`, &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", &NetworkError{URL: url, Err: fmt.Errorf("chromedp: %w", err)}
	}
	if html == "" {
		return "", &NetworkError{URL: url, Err: fmt.Errorf("empty HTML content returned")}
	}
	return html, nil
}
