// Package main provides the entry point for the sitesnap CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sitesnap/internal/config"
)

// NewRootCmd creates the root command for sitesnap.
// The root command itself runs the crawl; subcommands cover everything
// around it (history, init, version).
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitesnap [flags] START_URL [START_URL...]",
		Short: "Save entire websites as markdown, PDF, or HTML",
		Long: `sitesnap crawls a website starting from one or more seed URLs.
Every same-domain page reachable from a seed is rendered in a headless
Chrome browser and written to disk in the requested formats.

Crawling stays on the seed's domain: links to other hosts are ignored.
Each page is visited exactly once, even when the site links in cycles.

Examples:
  # Save a site as markdown (the default format)
  sitesnap https://example.com

  # Save as markdown and PDF with 4 workers
  sitesnap --formats markdown,pdf --concurrency 4 https://example.com

  # Save raw HTML into a specific directory
  sitesnap -f html -o ./archive/example https://example.com

  # Write a JSON run report to a file
  sitesnap --json --report-file report.json https://example.com

Configuration file (.sitesnap) example:
  defaults:
    formats:
      - markdown
  sites:
    docs.example.com:
      formats:
        - markdown
        - pdf
      concurrency: 4
      timeout: "90s"
      ignore:
        - "/search.*"`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE:          runCrawlCmd,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Crawl behavior flags
	cmd.Flags().StringSliceP("formats", "f", []string{config.DefaultFormat},
		"Output formats per page: markdown, pdf, html (comma-separated)")
	cmd.Flags().StringP("output", "o", "",
		"Output directory for saved pages (default: download/<website-name>)")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of crawl workers, each with its own browser tab")
	cmd.Flags().DurationP("timeout", "t", config.DefaultFetchTimeout,
		"Navigation timeout per page")
	cmd.Flags().String("chrome-path", "",
		"Path to the Chrome or Chromium executable (default: auto-detect)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sitesnap in the current, home, or XDG config directory)")

	// Run report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output the run report as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the run report as Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("report-file", "r", "",
		"Write the run report to the given file instead of stdout")

	// Add subcommands
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
