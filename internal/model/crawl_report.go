package model

import "time"

// CrawlReport is the aggregate result of one crawl run.
// It is assembled by the coordinator after the frontier drains and is
// consumed by the report writers and the manifest database.
//
// Design decision: The report is built once, after the run, from the
// coordinator's own collectors rather than being mutated concurrently
// by workers. This keeps the type free of locks; anything touching it
// owns it exclusively.
type CrawlReport struct {
	// SeedURL is the canonical start URL of the run.
	SeedURL string `json:"seed_url"`

	// Domain is the host (including any port) all crawled URLs share.
	Domain string `json:"domain"`

	// WebsiteName is the short site name used for the default output
	// directory, derived from the domain's second-to-last label.
	WebsiteName string `json:"website_name"`

	// OutputDir is the directory page files were written to.
	OutputDir string `json:"output_dir"`

	// Formats lists the output format names requested for the run.
	Formats []string `json:"formats"`

	// Concurrency is the worker count used for the run.
	Concurrency int `json:"concurrency"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the run completed (successfully or not).
	FinishedAt time.Time `json:"finished_at"`

	// Pages holds one result per attempted URL, in completion order.
	// Completion order is nondeterministic across workers.
	Pages []PageResult `json:"pages,omitempty"`

	// PagesCrawled counts pages fetched successfully.
	PagesCrawled int `json:"pages_crawled"`

	// PagesFailed counts pages whose fetch failed or timed out.
	PagesFailed int `json:"pages_failed"`

	// LinksDiscovered counts same-domain links found across all pages,
	// including links that were already visited.
	LinksDiscovered int `json:"links_discovered"`

	// DuplicatesSkipped counts dequeued URLs that lost the claim race
	// and were dropped without processing.
	DuplicatesSkipped int `json:"duplicates_skipped"`

	// Error holds the run-fatal error message, if any. Per-page errors
	// live in Pages and do not appear here.
	Error string `json:"error,omitempty"`
}

// NewCrawlReport creates a report for a run that starts now.
func NewCrawlReport(seedURL, domain, websiteName string) *CrawlReport {
	return &CrawlReport{
		SeedURL:     seedURL,
		Domain:      domain,
		WebsiteName: websiteName,
		StartedAt:   time.Now(),
	}
}

// AddPage appends a page result and updates the run counters.
// Not safe for concurrent use; the coordinator assembles the report
// single-threaded after workers have stopped.
func (r *CrawlReport) AddPage(p PageResult) {
	r.Pages = append(r.Pages, p)
	if p.Succeeded() {
		r.PagesCrawled++
	} else {
		r.PagesFailed++
	}
}

// Finish stamps the completion time.
func (r *CrawlReport) Finish() {
	r.FinishedAt = time.Now()
}

// Duration returns the wall-clock duration of the run. If the run has
// not finished yet, it measures up to now.
func (r *CrawlReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// PagesAttempted returns the total number of URLs processed.
func (r *CrawlReport) PagesAttempted() int {
	return r.PagesCrawled + r.PagesFailed
}

// FormatCounts returns, per format name, how many pages were actually
// written in that format. Formats with zero writes are present when
// they were requested, so report tables always show every requested
// format.
func (r *CrawlReport) FormatCounts() map[string]int {
	counts := make(map[string]int, len(r.Formats))
	for _, f := range r.Formats {
		counts[f] = 0
	}
	for _, p := range r.Pages {
		for _, f := range p.SavedFormats {
			counts[f]++
		}
	}
	return counts
}

// FailedPages returns the page results whose fetch failed.
func (r *CrawlReport) FailedPages() []PageResult {
	var failed []PageResult
	for _, p := range r.Pages {
		if !p.Succeeded() {
			failed = append(failed, p)
		}
	}
	return failed
}
