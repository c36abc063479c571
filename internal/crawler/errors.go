package crawler

import "errors"

var (
	// ErrNoBrowser is returned by New when no browser backend is
	// provided.
	ErrNoBrowser = errors.New("browser backend is required")

	// ErrNoSinks is returned by New when no content sink is provided.
	ErrNoSinks = errors.New("at least one content sink is required")

	// ErrInvalidSeed is returned by Run when the seed URL is not an
	// absolute http or https URL.
	ErrInvalidSeed = errors.New("seed URL must be an absolute http or https URL")

	// ErrAlreadyRun is returned by Run when called a second time; a
	// Crawler is single-use.
	ErrAlreadyRun = errors.New("crawler has already run")
)
