package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values match the behavior of a plain invocation with no flags
// and are tuned for crawling a single site with a headless browser.
const (
	// DefaultConcurrency is the number of crawl workers, each holding its
	// own browser tab. Ten tabs keep a typical site saturated without
	// exhausting memory on the browser side. Larger sites rarely benefit
	// from more because page rendering, not scheduling, is the bottleneck.
	DefaultConcurrency = 10

	// DefaultFetchTimeout bounds a single page navigation including
	// rendering. 60 seconds is generous for slow servers and heavy pages;
	// anything slower is abandoned rather than retried.
	DefaultFetchTimeout = 60 * time.Second

	// DefaultFormat is the output format used when --formats is not given.
	DefaultFormat = "markdown"

	// DefaultOutputRoot is the directory under the current working
	// directory that holds per-site output directories when --output
	// is not given.
	DefaultOutputRoot = "download"

	// AppName is the application name used for XDG directory paths.
	AppName = "sitesnap"
)

// Config holds all configuration options for a sitesnap invocation.
// This struct is populated from CLI flags and passed through the
// application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CrawlConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Seeds is the list of start URLs. Each seed becomes an independent
	// crawl run over its own domain. Must contain at least one absolute
	// http or https URL.
	Seeds []string

	// Formats is the list of output format names to write per page.
	// Valid names are validated by the saver package at startup;
	// this struct only requires the list to be non-empty.
	Formats []string

	// OutputDir is the directory pages are written to. When empty, each
	// run derives its own directory as DefaultOutputRoot/<website-name>.
	// When set explicitly, it is used exactly as given for every run.
	OutputDir string

	// Concurrency is the number of crawl workers per run. Each worker
	// owns an isolated browser tab, so this also bounds browser memory.
	Concurrency int

	// FetchTimeout bounds a single page navigation. On expiry the page
	// is logged and abandoned; there are no retries.
	FetchTimeout time.Duration

	// FormatsSet, ConcurrencySet, and FetchTimeoutSet record whether
	// the corresponding flag was given on the command line. An explicit
	// flag beats a site config entry; only the built-in default yields
	// to one.
	FormatsSet      bool
	ConcurrencySet  bool
	FetchTimeoutSet bool

	// ChromePath overrides the Chrome or Chromium executable used for
	// rendering. When empty, the browser is located on PATH.
	ChromePath string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .sitesnap in the current
	// directory, the home directory, and the XDG config directory.
	ConfigFilePath string

	// SiteConfigs holds per-site overrides loaded from the config file.
	SiteConfigs *File

	// JSONReport switches the run report to JSON.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport switches the run report to Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is an optional file path for the run report.
	// When set, the report is written there instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory holding the crawl manifest database.
	// Defaults to the XDG data directory (~/.local/share/sitesnap on
	// Linux). An unusable manifest is logged and skipped, never fatal.
	DBDir string

	// SaveToDB indicates whether finished runs are recorded in the
	// manifest database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero (concurrency, timeout,
// format list). This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Formats:      []string{DefaultFormat},
		Concurrency:  DefaultConcurrency,
		FetchTimeout: DefaultFetchTimeout,
	}
}

// XDGDataDir returns the XDG data directory for sitesnap.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/sitesnap
// On macOS: ~/Library/Application Support/sitesnap
// On Windows: %LOCALAPPDATA%\sitesnap
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for sitesnap.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/sitesnap
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// WebsiteName derives the short site name used for the default output
// directory from a seed URL. It is the second-to-last dot-separated label
// of the URL's host ("www.example.com" yields "example"); a host with a
// single label is used whole. Returns "" when the URL cannot be parsed
// or has no host; callers validate seeds before deriving names.
func WebsiteName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	parts := strings.Split(u.Host, ".")
	if len(parts) > 1 {
		return parts[len(parts)-2]
	}
	return u.Host
}

// DefaultOutputDir returns the per-seed output directory used when
// --output is not given: DefaultOutputRoot/<website-name>, relative to
// the current working directory.
func DefaultOutputDir(rawURL string) string {
	return filepath.Join(DefaultOutputRoot, WebsiteName(rawURL))
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any crawling begins.
//
// We chose to return the first error found rather than collecting all
// errors because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// We must have at least one seed to crawl
	if len(c.Seeds) == 0 {
		return ErrNoSeed
	}

	// Every seed must be an absolute http(s) URL; the crawl domain is
	// derived from the seed's host, so a host-less URL cannot be crawled
	for _, seed := range c.Seeds {
		u, err := url.Parse(seed)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("%w: %q", ErrInvalidSeed, seed)
		}
	}

	// Concurrency must be positive; zero workers would never drain the queue
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	// FetchTimeout must be positive; zero would fail every navigation instantly
	if c.FetchTimeout <= 0 {
		return ErrInvalidTimeout
	}

	// At least one output format must be requested
	if len(c.Formats) == 0 {
		return ErrNoFormats
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
