package config

// SiteConfig holds site-specific configuration for a single domain.
// This allows customizing crawl behavior per site without repeating
// flags on every invocation.
type SiteConfig struct {
	// Formats overrides the output format list for this site.
	Formats []string `yaml:"formats,omitempty"`

	// Output overrides the output directory for this site.
	Output string `yaml:"output,omitempty"`

	// Concurrency overrides the worker count for this site.
	// If zero, the global concurrency is used.
	Concurrency int `yaml:"concurrency,omitempty"`

	// Timeout overrides the per-page fetch timeout for this site.
	// Accepts a Go duration string such as "90s" or a bare number of
	// seconds. If zero, the global timeout is used.
	Timeout Duration `yaml:"timeout,omitempty"`

	// Headers are extra HTTP headers sent with every navigation to this
	// site, e.g. an Authorization header for a staging environment.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Ignore is a list of regular expressions matched against each
	// discovered (canonical) URL; matching links are not enqueued.
	Ignore []string `yaml:"ignore,omitempty"`
}

// File represents the structure of the .sitesnap configuration file.
type File struct {
	// Sites maps domains to their site-specific configurations.
	// Keys are the host as it appears in the seed URL, including any
	// port (e.g. "docs.example.com" or "localhost:8080").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific domain.
// It merges the site-specific configuration with defaults: non-empty
// site values win, absent values fall through to Defaults.
func (cf *File) GetSiteConfig(domain string) SiteConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[domain]; ok {
		if len(siteConfig.Formats) > 0 {
			result.Formats = siteConfig.Formats
		}
		if siteConfig.Output != "" {
			result.Output = siteConfig.Output
		}
		if siteConfig.Concurrency != 0 {
			result.Concurrency = siteConfig.Concurrency
		}
		if !siteConfig.Timeout.IsZero() {
			result.Timeout = siteConfig.Timeout
		}
		if len(siteConfig.Headers) > 0 {
			// Copy before merging so site values never leak into the
			// shared Defaults map.
			merged := make(map[string]string, len(result.Headers)+len(siteConfig.Headers))
			for k, v := range result.Headers {
				merged[k] = v
			}
			for k, v := range siteConfig.Headers {
				merged[k] = v
			}
			result.Headers = merged
		}
		if len(siteConfig.Ignore) > 0 {
			result.Ignore = siteConfig.Ignore
		}
	}

	return result
}
