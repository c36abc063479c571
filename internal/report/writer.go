package report

import (
	"io"
	"time"

	"sitesnap/internal/model"
)

// Writer defines the interface for crawl report output.
// Implementations write crawl results in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the full report, including per-page results,
	// to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.CrawlReport) (int, error)

	// WriteSummary outputs only the condensed run overview.
	// This is useful for terminal output when the full report goes
	// to a file.
	WriteSummary(summary *Summary) (int, error)
}

// Summary is a condensed view of a crawl run: the run-level counters
// without the per-page results.
//
// Design decision: Summary lives here rather than in the model package
// because it is an output shape, not crawl state. Writers derive it
// from the report they are given; nothing else needs it.
type Summary struct {
	// SeedURL is the canonical start URL of the run.
	SeedURL string `json:"seed_url"`

	// Domain is the host all crawled URLs share.
	Domain string `json:"domain"`

	// WebsiteName is the short site name, when known.
	WebsiteName string `json:"website_name,omitempty"`

	// OutputDir is the directory page files were written to.
	OutputDir string `json:"output_dir"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// DurationSeconds is the wall-clock run time in seconds.
	DurationSeconds float64 `json:"duration_seconds"`

	// Concurrency is the worker count used for the run.
	Concurrency int `json:"concurrency"`

	// PagesCrawled counts pages fetched successfully.
	PagesCrawled int `json:"pages_crawled"`

	// PagesFailed counts pages whose fetch failed or timed out.
	PagesFailed int `json:"pages_failed"`

	// LinksDiscovered counts same-domain links found across all pages.
	LinksDiscovered int `json:"links_discovered"`

	// DuplicatesSkipped counts URLs dropped as already visited.
	DuplicatesSkipped int `json:"duplicates_skipped"`

	// FilesWritten maps each requested format name to the number of
	// page files written in that format.
	FilesWritten map[string]int `json:"files_written"`

	// Error holds the run-fatal error message, if any.
	Error string `json:"error,omitempty"`
}

// NewSummary derives the condensed view from a full crawl report.
func NewSummary(report *model.CrawlReport) *Summary {
	return &Summary{
		SeedURL:           report.SeedURL,
		Domain:            report.Domain,
		WebsiteName:       report.WebsiteName,
		OutputDir:         report.OutputDir,
		StartedAt:         report.StartedAt,
		DurationSeconds:   report.Duration().Seconds(),
		Concurrency:       report.Concurrency,
		PagesCrawled:      report.PagesCrawled,
		PagesFailed:       report.PagesFailed,
		LinksDiscovered:   report.LinksDiscovered,
		DuplicatesSkipped: report.DuplicatesSkipped,
		FilesWritten:      report.FormatCounts(),
		Error:             report.Error,
	}
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *model.CrawlReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteSummary outputs the run overview to all configured Writers.
func (m *MultiWriter) WriteSummary(summary *Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteSummary(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
