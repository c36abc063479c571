package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sitesnap/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format, including the
// per-page results.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	summary := NewSummary(report)
	md := markdown.NewMarkdown(w.output)

	// Header
	w.writeHeader(md, summary)

	// Run counters
	w.writeCounts(md, summary)

	// Files written per format
	w.writeFormats(md, summary)

	// Per-page results
	w.writePages(md, report)

	// Footer
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteSummary outputs the condensed run overview in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeCounts(md, summary)
	w.writeFormats(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *Summary) {
	// Caser is stateful, so create one per call rather than sharing.
	title := "Crawl Report"
	if summary.WebsiteName != "" {
		title = cases.Title(language.English).String(summary.WebsiteName) + " Crawl Report"
	}
	md.H1(title)
	md.PlainText("")

	// Basic info table
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed URL", "`" + summary.SeedURL + "`"},
			{"Domain", "`" + summary.Domain + "`"},
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", fmt.Sprintf("%.2fs", summary.DurationSeconds)},
			{"Workers", strconv.Itoa(summary.Concurrency)},
			{"Status", w.getStatusText(summary)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on the run outcome.
func (w *MarkdownWriter) getStatusText(summary *Summary) string {
	if summary.Error != "" {
		return "❌ Aborted - " + summary.Error
	}
	return "✅ Complete"
}

// writeCounts writes the run counter section.
func (w *MarkdownWriter) writeCounts(md *markdown.Markdown, summary *Summary) {
	md.H2("Crawl Summary")
	md.PlainText("")

	total := summary.PagesCrawled + summary.PagesFailed

	// Summary table
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"🟢 Pages crawled", strconv.Itoa(summary.PagesCrawled)},
			{"🔴 Pages failed", strconv.Itoa(summary.PagesFailed)},
			{"🔗 Links discovered", strconv.Itoa(summary.LinksDiscovered)},
			{"♻️ Duplicates skipped", strconv.Itoa(summary.DuplicatesSkipped)},
			{"**Total attempted**", "**" + strconv.Itoa(total) + "**"},
		},
	})
	md.PlainText("")

	// Add pie chart if any pages were attempted
	if total > 0 {
		w.writePieChart(md, summary)
	}

	// Add alert based on the run outcome
	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart of page fetch outcomes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Page Fetch Outcomes"),
		piechart.WithShowData(true),
	)

	if summary.PagesCrawled > 0 {
		chart.LabelAndIntValue("Crawled", uint64(summary.PagesCrawled))
	}
	if summary.PagesFailed > 0 {
		chart.LabelAndIntValue("Failed", uint64(summary.PagesFailed))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the run outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *Summary) {
	total := summary.PagesCrawled + summary.PagesFailed

	switch {
	case summary.Error != "":
		md.Cautionf(
			"The crawl aborted early: %s. Results below are partial.",
			summary.Error,
		)
	case summary.PagesFailed > 0 && summary.PagesCrawled == 0:
		md.Cautionf(
			"All %d page fetch(es) failed. Check that the site is reachable.",
			summary.PagesFailed,
		)
	case summary.PagesFailed > 0:
		md.Warningf(
			"%d of %d pages failed to fetch. See the pages table for details.",
			summary.PagesFailed, total,
		)
	case total == 0:
		md.Note("No pages were processed.")
	default:
		md.Tip(fmt.Sprintf("All %d pages crawled successfully.", summary.PagesCrawled))
	}
	md.PlainText("")
}

// writeFormats writes the files-written section.
func (w *MarkdownWriter) writeFormats(md *markdown.Markdown, summary *Summary) {
	md.H2("Saved Files")
	md.PlainText("")

	if summary.OutputDir != "" {
		md.PlainTextf("Output directory: `%s`", summary.OutputDir)
		md.PlainText("")
	}

	if len(summary.FilesWritten) == 0 {
		md.PlainText("No output formats were requested.")
		md.PlainText("")
		return
	}

	// Map order is random; sort for stable output.
	names := make([]string, 0, len(summary.FilesWritten))
	for name := range summary.FilesWritten {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, len(names))
	for i, name := range names {
		rows[i] = []string{name, strconv.Itoa(summary.FilesWritten[name])}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Format", "Files"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePages writes the per-page results table.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, report *model.CrawlReport) {
	md.H2("Pages")
	md.PlainText("")

	if len(report.Pages) == 0 {
		md.PlainText("No pages were processed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Pages))
	for i := range report.Pages {
		page := &report.Pages[i]

		title := page.Title
		if title == "" {
			title = "-"
		}
		saved := strings.Join(page.SavedFormats, ", ")
		if saved == "" {
			saved = "-"
		}

		rows[i] = []string{
			truncateString(page.URL, 60),
			truncateString(title, 40),
			string(page.Status),
			saved,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Title", "Status", "Saved"},
		Rows:   rows,
	})
	md.PlainText("")

	// Add error details for pages that did not complete cleanly
	for i := range report.Pages {
		page := &report.Pages[i]
		if page.Error != "" {
			md.Details(page.URL, page.Error)
		}
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by sitesnap*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
