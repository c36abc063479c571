package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"sitesnap/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool

	// verbose enables per-page detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format, including the
// per-page results.
func (w *SimpleWriter) Write(report *model.CrawlReport) (int, error) {
	summary := NewSummary(report)

	var sb strings.Builder

	// Header
	w.writeHeader(&sb, summary)

	// Run counters
	w.writeCounts(&sb, summary)

	// Files written per format
	w.writeFormats(&sb, summary)

	// Per-page sections
	w.writePages(&sb, report)
	w.writeFailures(&sb, report)

	// Footer
	w.writeFooter(&sb)

	// Write to output
	return w.output.Write([]byte(sb.String()))
}

// WriteSummary outputs the condensed run overview without per-page detail.
func (w *SimpleWriter) WriteSummary(summary *Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeCounts(&sb, summary)
	w.writeFormats(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        SITESNAP CRAWL REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Seed URL:  %s\n", summary.SeedURL))
	sb.WriteString(fmt.Sprintf("Domain:    %s\n", summary.Domain))
	if summary.WebsiteName != "" {
		sb.WriteString(fmt.Sprintf("Website:   %s\n", summary.WebsiteName))
	}
	sb.WriteString(fmt.Sprintf("Started:   %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:  %.2fs\n", summary.DurationSeconds))

	if summary.Error != "" {
		sb.WriteString(fmt.Sprintf("Status:    ABORTED - %s (partial results)\n", summary.Error))
	} else {
		sb.WriteString("Status:    Complete\n")
	}

	sb.WriteString("\n")
}

// writeCounts writes the run counter section.
func (w *SimpleWriter) writeCounts(sb *strings.Builder, summary *Summary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CRAWL SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  CRAWLED:    %d\n", summary.PagesCrawled))
	sb.WriteString(fmt.Sprintf("  FAILED:     %d\n", summary.PagesFailed))
	sb.WriteString(fmt.Sprintf("  LINKS:      %d\n", summary.LinksDiscovered))
	sb.WriteString(fmt.Sprintf("  DUPLICATES: %d\n", summary.DuplicatesSkipped))
	sb.WriteString("\n")

	total := summary.PagesCrawled + summary.PagesFailed
	sb.WriteString(fmt.Sprintf("  TOTAL:      %d pages attempted\n", total))
	sb.WriteString("\n")
}

// writeFormats writes the files-written section.
func (w *SimpleWriter) writeFormats(sb *strings.Builder, summary *Summary) {
	if len(summary.FilesWritten) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SAVED FILES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if summary.OutputDir != "" {
		sb.WriteString(fmt.Sprintf("  Output directory: %s\n\n", summary.OutputDir))
	}

	if len(summary.FilesWritten) == 0 {
		sb.WriteString("  No formats requested\n")
	} else {
		// Map order is random; sort for stable output.
		names := make([]string, 0, len(summary.FilesWritten))
		for name := range summary.FilesWritten {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			sb.WriteString(fmt.Sprintf("  %-10s %d file(s)\n", name+":", summary.FilesWritten[name]))
		}
	}
	sb.WriteString("\n")
}

// writePages writes the crawled pages section.
func (w *SimpleWriter) writePages(sb *strings.Builder, report *model.CrawlReport) {
	crawled := 0
	for i := range report.Pages {
		if report.Pages[i].Succeeded() {
			crawled++
		}
	}

	if crawled == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CRAWLED PAGES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if crawled == 0 {
		sb.WriteString("  No pages crawled\n\n")
		return
	}

	for i := range report.Pages {
		page := &report.Pages[i]
		if !page.Succeeded() {
			continue
		}

		sb.WriteString(fmt.Sprintf("  [+] %s\n", page.URL))
		if w.verbose {
			if page.Title != "" {
				sb.WriteString(fmt.Sprintf("      Title: %s\n", page.Title))
			}
			if len(page.SavedFormats) > 0 {
				sb.WriteString(fmt.Sprintf("      Saved: %s\n", strings.Join(page.SavedFormats, ", ")))
			}
			sb.WriteString(fmt.Sprintf("      Time:  %s\n", page.Elapsed.Round(time.Millisecond)))
		}
		if page.Error != "" {
			sb.WriteString(fmt.Sprintf("      Warning: %s\n", page.Error))
		}
	}
	sb.WriteString("\n")
}

// writeFailures writes the failed pages section with their errors.
func (w *SimpleWriter) writeFailures(sb *strings.Builder, report *model.CrawlReport) {
	failed := report.FailedPages()
	if len(failed) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("FAILED PAGES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(failed) == 0 {
		sb.WriteString("  No failures\n")
	} else {
		for i := range failed {
			sb.WriteString(fmt.Sprintf("  [x] %s\n", failed[i].URL))
			if failed[i].Error != "" {
				sb.WriteString(fmt.Sprintf("      Error: %s\n", failed[i].Error))
			}
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by sitesnap\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
