package saver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"sitesnap/internal/browser"
)

// HTMLSaver stores the fetched markup verbatim, byte for byte.
type HTMLSaver struct{}

// Format implements Saver.
func (s *HTMLSaver) Format() Format { return FormatHTML }

// Save implements Saver. It needs neither the session nor any
// transformation; the markup is written exactly as fetched.
func (s *HTMLSaver) Save(_ context.Context, _ browser.Session, pageURL, markup, outputDir string) error {
	path := filepath.Join(outputDir, FileStem(pageURL)+".html")
	if err := os.WriteFile(path, []byte(markup), 0600); err != nil {
		return fmt.Errorf("write html file: %w", err)
	}
	return nil
}
