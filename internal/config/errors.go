package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages. ErrInvalidSeed is wrapped with the offending
// URL at the call site; the rest carry no dynamic values.
var (
	// ErrNoSeed is returned when no start URL is given.
	ErrNoSeed = errors.New("no start URL specified: provide one or more URLs as arguments")

	// ErrInvalidSeed is returned when a start URL is not an absolute
	// http or https URL. The crawl domain comes from the seed's host,
	// so relative or scheme-less seeds cannot be crawled.
	ErrInvalidSeed = errors.New("invalid start URL: must be absolute http or https")

	// ErrInvalidConcurrency is returned when the worker count is not positive.
	// Zero workers would leave the frontier queue undrained forever.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	// A zero or negative timeout would fail every page navigation immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrNoFormats is returned when the output format list is empty.
	// A crawl that saves nothing has no observable result.
	ErrNoFormats = errors.New("no output formats specified")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one report format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
