package saver

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"

	"sitesnap/internal/browser"
)

// MarkdownSaver converts the fetched markup to Markdown. The file
// starts with a level-1 heading naming the source URL, then a blank
// line, then the converted document. The converter emits ATX-style
// headings by default.
type MarkdownSaver struct{}

// Format implements Saver.
func (s *MarkdownSaver) Format() Format { return FormatMarkdown }

// Save implements Saver.
func (s *MarkdownSaver) Save(_ context.Context, _ browser.Session, pageURL, markup, outputDir string) error {
	opts := make([]converter.ConvertOptionFunc, 0, 1)
	if origin := pageOrigin(pageURL); origin != "" {
		// Relative links in the page resolve against its origin.
		opts = append(opts, converter.WithDomain(origin))
	}
	converted, err := htmltomarkdown.ConvertString(markup, opts...)
	if err != nil {
		return fmt.Errorf("convert html to markdown: %w", err)
	}

	content := fmt.Sprintf("# %s\n\n%s", pageURL, converted)
	path := filepath.Join(outputDir, FileStem(pageURL)+".md")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("write markdown file: %w", err)
	}
	return nil
}

// pageOrigin returns the scheme://host origin of pageURL, or "" when
// the URL does not carry one.
func pageOrigin(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
