// Package config provides configuration structures and utilities for sitesnap.
// It defines the main configuration options for crawling, output formats,
// per-site overrides, and report generation preferences.
package config
