package saver

import (
	"fmt"
	"math/rand/v2"
	"net/url"
	"regexp"
	"strings"
)

// invalidFileChars matches characters that are unsafe in file names on
// at least one supported platform.
var invalidFileChars = regexp.MustCompile(`[\\/*?:"<>|]`)

// FileStem derives the extension-less file name for a saved page from
// its URL: the last path segment when the path has one, otherwise a
// random index_NNNNNN placeholder. Each saver derives its own stem, so
// two formats of a root page may land on different placeholders.
func FileStem(pageURL string) string {
	if segment := lastPathSegment(pageURL); segment != "" {
		return sanitizeFileName(segment)
	}
	return fmt.Sprintf("index_%06d", rand.IntN(1_000_000))
}

// lastPathSegment returns the final non-empty segment of the URL path,
// or "" when the path is empty or root.
func lastPathSegment(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	trimmed := strings.Trim(u.Path, "/")
	if trimmed == "" {
		return ""
	}
	segments := strings.Split(trimmed, "/")
	return segments[len(segments)-1]
}

// sanitizeFileName replaces characters that break file names with an
// underscore.
func sanitizeFileName(name string) string {
	return invalidFileChars.ReplaceAllString(name, "_")
}
