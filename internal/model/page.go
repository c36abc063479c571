package model

import "time"

// PageStatus describes the outcome of one crawl attempt.
type PageStatus string

const (
	// PageOK means the page was fetched and at least saving was attempted.
	PageOK PageStatus = "ok"

	// PageFailed means navigation failed or timed out and the page was
	// abandoned without saving.
	PageFailed PageStatus = "failed"
)

// PageResult records the outcome of processing a single URL.
// One PageResult exists per claimed URL, whether or not the fetch
// succeeded; URLs skipped as duplicates produce no result.
//
// Design decision: We record outcome metadata only, never page bodies.
// Bodies land in the output directory; keeping them out of the report
// bounds memory on large crawls.
type PageResult struct {
	// URL is the canonical URL that was processed.
	URL string `json:"url"`

	// Title is the page title extracted from the <title> tag.
	// Empty when the fetch failed or the page has no title.
	Title string `json:"title,omitempty"`

	// Status is the overall outcome of the attempt.
	Status PageStatus `json:"status"`

	// Error holds the fetch error message when Status is PageFailed,
	// or save errors (joined) when some formats could not be written.
	Error string `json:"error,omitempty"`

	// SavedFormats lists the format names actually written for this page.
	// A format requested but failed is absent here and noted in Error.
	SavedFormats []string `json:"saved_formats,omitempty"`

	// FetchedAt is when processing of this URL began.
	FetchedAt time.Time `json:"fetched_at"`

	// Elapsed is the total processing time for this URL, including
	// rendering, saving, and link extraction.
	Elapsed time.Duration `json:"elapsed"`
}

// Succeeded reports whether the page was fetched successfully.
func (p *PageResult) Succeeded() bool {
	return p.Status == PageOK
}
