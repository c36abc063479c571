package browser

import "context"

// Session is one isolated browser tab. Each crawl worker owns exactly
// one session for the lifetime of the run and uses it to fetch pages
// one at a time; a Session must not be shared between goroutines.
type Session interface {
	// Navigate loads pageURL, waits for the document to finish
	// rendering, and returns the resulting HTML markup. The load is
	// abandoned when ctx is cancelled or its deadline passes.
	Navigate(ctx context.Context, pageURL string) (string, error)

	// PDF renders the page currently loaded in the session. It is only
	// meaningful after a successful Navigate.
	PDF(ctx context.Context) ([]byte, error)

	// Close releases the tab and its resources.
	Close() error
}

// Browser owns a running browser process and hands out sessions backed
// by it. Implementations must allow NewSession to be called from
// multiple goroutines.
type Browser interface {
	// NewSession opens a fresh tab. Callers must Close the session
	// when done with it.
	NewSession() (Session, error)

	// Close shuts down the browser process. All sessions become
	// unusable afterwards.
	Close() error
}
