package saver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"sitesnap/internal/browser"
)

// PDFSaver prints the live page to PDF through the session. It depends
// on the page still being loaded in the tab, which is why workers run
// all savers before navigating anywhere else.
type PDFSaver struct{}

// Format implements Saver.
func (s *PDFSaver) Format() Format { return FormatPDF }

// Save implements Saver. The markup argument is unused; the PDF is
// rendered from the session's current page, not from source.
func (s *PDFSaver) Save(ctx context.Context, session browser.Session, pageURL, _, outputDir string) error {
	data, err := session.PDF(ctx)
	if err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	path := filepath.Join(outputDir, FileStem(pageURL)+".pdf")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write pdf file: %w", err)
	}
	return nil
}
