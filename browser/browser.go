// Package browser manages the shared headless Chrome instance behind the
// scraping listers and fetchers. It owns browser startup flags, tab
// creation, and pacing of page loads; all page-structure knowledge stays in
// the youtube package.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"
)

// userAgent mimics a desktop Chrome on Linux. YouTube serves a degraded
// listing page to unknown agents.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds browser startup and pacing settings.
type Config struct {
	// Headless runs Chrome without a visible window. Default true.
	Headless bool

	// NavTimeout bounds a single page navigation. Default 60s.
	NavTimeout time.Duration

	// PageLoadsPerSecond paces how fast new page loads may start across
	// all tabs. 0 disables pacing.
	PageLoadsPerSecond float64
}

// DefaultConfig returns browser settings matching a polite scraper.
func DefaultConfig() Config {
	return Config{
		Headless:           true,
		NavTimeout:         60 * time.Second,
		PageLoadsPerSecond: 1.0,
	}
}

// Browser is a running headless Chrome instance. Tabs created from it share
// the process; the zero value is not usable, use New.
type Browser struct {
	cfg         Config
	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	cancel      context.CancelFunc
	limiter     *rate.Limiter
}

// New launches a Chrome instance with the given configuration.
// Callers must Close the browser when done.
func New(cfg Config) (*Browser, error) {
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = DefaultConfig().NavTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.NoSandbox,
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// Start the browser process eagerly so launch failures surface here
	// rather than inside the first worker.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("browser: launch chrome: %w", err)
	}

	b := &Browser{
		cfg:         cfg,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		browserCtx:  browserCtx,
		cancel:      cancel,
	}
	if cfg.PageLoadsPerSecond > 0 {
		b.limiter = rate.NewLimiter(rate.Limit(cfg.PageLoadsPerSecond), 1)
	}
	return b, nil
}

// Close shuts down the browser process and all its tabs.
func (b *Browser) Close() error {
	b.cancel()
	b.allocCancel()
	return nil
}

// NavTimeout reports the configured per-navigation timeout.
func (b *Browser) NavTimeout() time.Duration {
	return b.cfg.NavTimeout
}

// NewTab opens a fresh tab in the shared browser. The returned context is
// the handle all chromedp actions run against; the cancel func closes the
// tab. The tab stops working once the parent ctx is done.
func (b *Browser) NewTab(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := b.browserCtx.Err(); err != nil {
		return nil, nil, errors.New("browser: already closed")
	}

	tabCtx, tabCancel := chromedp.NewContext(b.browserCtx)

	// Tie tab lifetime to the caller's context.
	stop := context.AfterFunc(ctx, tabCancel)
	cancel := func() {
		stop()
		tabCancel()
	}
	return tabCtx, cancel, nil
}

// Navigate paces and performs a page load in the given tab, waiting for the
// DOM to be ready. The configured NavTimeout bounds the whole operation.
func (b *Browser) Navigate(tabCtx context.Context, url string) error {
	if b.limiter != nil {
		if err := b.limiter.Wait(tabCtx); err != nil {
			return err
		}
	}

	navCtx, cancel := context.WithTimeout(tabCtx, b.cfg.NavTimeout)
	defer cancel()

	if err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	return nil
}
