package browser

import (
	"context"
	"fmt"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// defaultUserAgent is a realistic Chrome user agent, used unless the
// caller overrides it.
const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Options configures the Chrome backend.
type Options struct {
	// ExecPath points at the Chrome binary. Empty means auto-detect.
	ExecPath string

	// UserAgent replaces the default user agent when non-empty.
	UserAgent string

	// Headers are sent with every request in every session, for sites
	// that need authentication or language hints.
	Headers map[string]string
}

// Chrome drives a single headless Chrome process over the DevTools
// protocol and hands out one tab per crawl worker.
type Chrome struct {
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	headers       map[string]string
}

var _ Browser = (*Chrome)(nil)

// NewChrome launches the browser process. A missing or broken Chrome
// installation surfaces here, before any crawling starts. The process
// lives until Close, or until ctx is cancelled.
func NewChrome(ctx context.Context, opts Options) (*Chrome, error) {
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-component-update", true),
		chromedp.Flag("no-service-autorun", true),
		chromedp.UserAgent(userAgent),
		chromedp.WindowSize(1920, 1080),
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run with no actions forces the process to start now, so a bad
	// installation fails fast instead of on the first page.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	return &Chrome{
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		headers:       opts.Headers,
	}, nil
}

// NewSession implements Browser by opening a fresh tab in the shared
// process.
func (c *Chrome) NewSession() (Session, error) {
	tabCtx, tabCancel := chromedp.NewContext(c.browserCtx)

	// Attach the tab now so a session that cannot start is reported at
	// worker startup.
	if err := chromedp.Run(tabCtx); err != nil {
		tabCancel()
		return nil, fmt.Errorf("open tab: %w", err)
	}
	return &chromeSession{ctx: tabCtx, cancel: tabCancel, headers: c.headers}, nil
}

// Close implements Browser, shutting the process down gracefully.
func (c *Chrome) Close() error {
	err := chromedp.Cancel(c.browserCtx)
	c.browserCancel()
	c.allocCancel()
	if err != nil {
		return fmt.Errorf("shut down chrome: %w", err)
	}
	return nil
}

// chromeSession is one tab. The tab context carries the DevTools
// session and must outlive individual page loads, so per-call
// deadlines are bridged in from the caller's context instead of being
// derived the usual way.
type chromeSession struct {
	ctx     context.Context
	cancel  context.CancelFunc
	headers map[string]string
}

var _ Session = (*chromeSession)(nil)

// Navigate implements Session. It loads pageURL, waits for the body to
// be ready, and returns the rendered markup.
func (s *chromeSession) Navigate(ctx context.Context, pageURL string) (string, error) {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	actions := make([]chromedp.Action, 0, 4)
	if len(s.headers) > 0 {
		headers := make(network.Headers, len(s.headers))
		for k, v := range s.headers {
			headers[k] = v
		}
		actions = append(actions, network.SetExtraHTTPHeaders(headers))
	}

	var markup string
	actions = append(actions,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
	)

	if err := chromedp.Run(runCtx, actions...); err != nil {
		// When the caller's deadline fired, report that rather than
		// the cascade it caused inside chromedp.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("navigate %s: %w", pageURL, err)
	}
	return markup, nil
}

// PDF implements Session, printing the currently loaded page.
func (s *chromeSession) PDF(ctx context.Context) ([]byte, error) {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var buf []byte
	err := chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		data, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
		if err != nil {
			return err
		}
		buf = data
		return nil
	}))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	return buf, nil
}

// Close implements Session by closing the tab.
func (s *chromeSession) Close() error {
	s.cancel()
	return nil
}
