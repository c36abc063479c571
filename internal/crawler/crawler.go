package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sitesnap/internal/browser"
	"sitesnap/internal/model"
	"sitesnap/internal/saver"
)

// Defaults applied by New when the corresponding option is absent.
const (
	// defaultConcurrency matches the CLI default of ten workers.
	defaultConcurrency = 10

	// defaultFetchTimeout bounds a single page navigation.
	defaultFetchTimeout = 60 * time.Second

	// defaultOutputDir receives page files when no directory is set.
	defaultOutputDir = "download"
)

// Crawler walks one website breadth-first from a seed URL. Every
// same-domain page reachable from the seed is visited exactly once,
// fetched through a browser session, handed to each configured sink,
// and mined for further links. The crawl ends when the frontier drains
// or the context is cancelled.
type Crawler struct {
	browser browser.Browser
	sinks   []saver.Saver
	logger  *slog.Logger

	concurrency  int
	fetchTimeout time.Duration
	outputDir    string
	ignoreRaw    []string
	ignore       []*regexp.Regexp

	frontier *Frontier
	visited  *VisitedSet

	// extractor is created by Run once the crawl domain is known.
	extractor *Extractor

	started bool

	mu                sync.Mutex
	results           []model.PageResult
	linksDiscovered   int
	duplicatesSkipped int
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithConcurrency sets the number of workers. Each worker owns one
// browser session for the whole run. Values below one are clamped to
// a single worker.
func WithConcurrency(n int) Option {
	return func(c *Crawler) { c.concurrency = n }
}

// WithFetchTimeout bounds every single page navigation. A page that
// does not finish loading in time is recorded as failed and never
// retried.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Crawler) { c.fetchTimeout = d }
}

// WithOutputDir sets the directory page files are written to. Run
// creates it if necessary.
func WithOutputDir(dir string) Option {
	return func(c *Crawler) { c.outputDir = dir }
}

// WithIgnorePatterns drops discovered links matching any of the given
// regular expressions. New fails on an invalid pattern.
func WithIgnorePatterns(patterns []string) Option {
	return func(c *Crawler) { c.ignoreRaw = patterns }
}

// WithLogger sets the structured logger for crawl progress and errors.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Crawler) { c.logger = logger }
}

// New creates a Crawler over the given browser backend and sinks.
func New(b browser.Browser, sinks []saver.Saver, opts ...Option) (*Crawler, error) {
	if b == nil {
		return nil, ErrNoBrowser
	}
	if len(sinks) == 0 {
		return nil, ErrNoSinks
	}

	c := &Crawler{
		browser:      b,
		sinks:        sinks,
		concurrency:  defaultConcurrency,
		fetchTimeout: defaultFetchTimeout,
		outputDir:    defaultOutputDir,
		frontier:     NewFrontier(),
		visited:      NewVisitedSet(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.concurrency < 1 {
		c.concurrency = 1
	}
	if c.fetchTimeout <= 0 {
		c.fetchTimeout = defaultFetchTimeout
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	ignore, err := CompileIgnorePatterns(c.ignoreRaw)
	if err != nil {
		return nil, err
	}
	c.ignore = ignore
	return c, nil
}

// Run crawls the site rooted at seedURL until every reachable
// same-domain page has been visited once, then returns a report of the
// run. It blocks until the crawl drains naturally or ctx is cancelled;
// on cancellation the partially filled report is returned together
// with the context error.
//
// The only error that aborts a run in progress is a worker failing to
// open its browser session; individual page failures are recorded in
// the report and crawling continues.
//
// A Crawler is single-use: a second Run returns ErrAlreadyRun.
func (c *Crawler) Run(ctx context.Context, seedURL string) (*model.CrawlReport, error) {
	if c.started {
		return nil, ErrAlreadyRun
	}
	c.started = true

	seed, err := url.Parse(strings.TrimSpace(seedURL))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeed, seedURL)
	}
	if (seed.Scheme != "http" && seed.Scheme != "https") || seed.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSeed, seedURL)
	}

	// The seed is canonicalized the same way as every discovered link:
	// absolute form, fragment dropped, nothing else touched.
	seed.Fragment = ""
	seed.RawFragment = ""
	canonicalSeed := seed.String()
	domain := seed.Host

	c.extractor = NewExtractor(domain, c.ignore)

	report := model.NewCrawlReport(canonicalSeed, domain, "")
	report.OutputDir = c.outputDir
	report.Concurrency = c.concurrency
	for _, sink := range c.sinks {
		report.Formats = append(report.Formats, string(sink.Format()))
	}

	if err := os.MkdirAll(c.outputDir, 0750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	c.logger.Info("starting crawl",
		"seed", canonicalSeed,
		"domain", domain,
		"output", c.outputDir,
		"concurrency", c.concurrency,
		"formats", report.Formats)

	g, gctx := errgroup.WithContext(ctx)

	// Closing the frontier is how cancellation, or a worker's fatal
	// error, reaches goroutines blocked in Dequeue and Join.
	stop := context.AfterFunc(gctx, c.frontier.Close)
	defer stop()

	for i := 0; i < c.concurrency; i++ {
		g.Go(func() error {
			return c.worker(gctx)
		})
	}

	c.frontier.Enqueue(canonicalSeed)
	c.frontier.Join()
	c.frontier.Close()

	workerErr := g.Wait()

	c.mu.Lock()
	for _, page := range c.results {
		report.AddPage(page)
	}
	report.LinksDiscovered = c.linksDiscovered
	report.DuplicatesSkipped = c.duplicatesSkipped
	c.mu.Unlock()
	report.Finish()

	switch {
	case workerErr != nil:
		report.Error = workerErr.Error()
		return report, workerErr
	case ctx.Err() != nil:
		report.Error = ctx.Err().Error()
		return report, ctx.Err()
	}

	c.logger.Info("crawl complete",
		"pages", report.PagesCrawled,
		"failed", report.PagesFailed,
		"duplicates", report.DuplicatesSkipped,
		"elapsed", report.Duration().Round(time.Millisecond))
	return report, nil
}

// worker owns one browser session and loops until the frontier closes.
func (c *Crawler) worker(ctx context.Context) error {
	session, err := c.browser.NewSession()
	if err != nil {
		// A fetch backend that cannot start is the one failure that
		// aborts the whole run.
		return fmt.Errorf("open browser session: %w", err)
	}
	defer session.Close()

	for {
		pageURL, ok := c.frontier.Dequeue()
		if !ok {
			return nil
		}
		c.process(ctx, session, pageURL)
		c.frontier.MarkDone()
	}
}

// process runs the per-URL sequence: claim, fetch, save in every
// format, extract links, enqueue the unseen ones. It never returns an
// error; page-level failures are logged and recorded in the results.
func (c *Crawler) process(ctx context.Context, session browser.Session, pageURL string) {
	if !c.visited.Claim(pageURL) {
		// Lost the claim race or hit a duplicate queue entry. The
		// caller still marks the queue item done.
		c.recordDuplicate()
		return
	}

	c.logger.Info("crawling", "url", pageURL)
	start := time.Now()
	result := model.PageResult{URL: pageURL, FetchedAt: start, Status: model.PageOK}

	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	markup, err := session.Navigate(fetchCtx, pageURL)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.logger.Error("fetch timed out", "url", pageURL, "timeout", c.fetchTimeout)
		} else {
			c.logger.Error("fetch failed", "url", pageURL, "error", err)
		}
		result.Status = model.PageFailed
		result.Error = err.Error()
		result.Elapsed = time.Since(start)
		c.recordResult(result)
		return
	}

	var saveErrs []string
	for _, sink := range c.sinks {
		if err := sink.Save(ctx, session, pageURL, markup, c.outputDir); err != nil {
			// One format failing never blocks the others.
			c.logger.Error("save failed",
				"url", pageURL,
				"format", string(sink.Format()),
				"error", err)
			saveErrs = append(saveErrs, fmt.Sprintf("%s: %v", sink.Format(), err))
			continue
		}
		result.SavedFormats = append(result.SavedFormats, string(sink.Format()))
	}
	if len(saveErrs) > 0 {
		result.Error = strings.Join(saveErrs, "; ")
	}

	page := c.extractor.Extract(pageURL, markup)
	result.Title = page.Title
	c.recordLinks(len(page.Links))
	for _, link := range page.Links {
		// Advisory peek; the Claim in whichever worker dequeues the
		// link is what actually decides.
		if c.visited.Seen(link) {
			continue
		}
		c.frontier.Enqueue(link)
	}

	result.Elapsed = time.Since(start)
	c.recordResult(result)
	c.logger.Debug("page processed",
		"url", pageURL,
		"title", page.Title,
		"links", len(page.Links),
		"elapsed", result.Elapsed.Round(time.Millisecond))
}

func (c *Crawler) recordResult(r model.PageResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, r)
}

func (c *Crawler) recordDuplicate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.duplicatesSkipped++
}

func (c *Crawler) recordLinks(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.linksDiscovered += n
}
