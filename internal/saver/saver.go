package saver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sitesnap/internal/browser"
)

// ErrUnknownFormat is returned when a requested format name is not one
// of the supported set.
var ErrUnknownFormat = errors.New("unknown format")

// Format identifies one on-disk representation of a crawled page.
type Format string

// The supported formats. ParseFormats rejects everything else, so the
// factory below is exhaustive over values that can reach it.
const (
	// FormatMarkdown converts the page to Markdown.
	FormatMarkdown Format = "markdown"

	// FormatPDF prints the live page to PDF.
	FormatPDF Format = "pdf"

	// FormatHTML stores the fetched markup verbatim.
	FormatHTML Format = "html"
)

// Saver persists one page in one format. A failed save affects only its
// own format; the worker logs the error and carries on with the rest.
type Saver interface {
	// Format reports which format this saver writes.
	Format() Format

	// Save writes the page fetched from pageURL into outputDir.
	// session is the tab the page is still loaded in, for formats that
	// render from the live page; markup is the fetched HTML for
	// formats that work from source.
	Save(ctx context.Context, session browser.Session, pageURL, markup, outputDir string) error
}

// ParseFormats validates raw format names from the CLI or a site
// config and returns them as Formats, deduplicated in first-occurrence
// order. Names are matched after trimming surrounding whitespace.
func ParseFormats(names []string) ([]Format, error) {
	formats := make([]Format, 0, len(names))
	seen := make(map[Format]struct{}, len(names))
	for _, name := range names {
		f := Format(strings.TrimSpace(name))
		switch f {
		case FormatMarkdown, FormatPDF, FormatHTML:
		default:
			return nil, fmt.Errorf("%w: %q (supported: markdown, pdf, html)", ErrUnknownFormat, name)
		}
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}
		formats = append(formats, f)
	}
	return formats, nil
}

// ForFormats builds one saver per format, in the given order. The
// order matters: workers invoke savers sequentially per page, and the
// PDF saver needs the page still loaded in the session.
func ForFormats(formats []Format) []Saver {
	savers := make([]Saver, 0, len(formats))
	for _, f := range formats {
		switch f {
		case FormatMarkdown:
			savers = append(savers, &MarkdownSaver{})
		case FormatPDF:
			savers = append(savers, &PDFSaver{})
		case FormatHTML:
			savers = append(savers, &HTMLSaver{})
		}
	}
	return savers
}
