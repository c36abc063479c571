package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"sitesnap/internal/browser"
	"sitesnap/internal/config"
	"sitesnap/internal/crawler"
	"sitesnap/internal/database"
	"sitesnap/internal/log"
	"sitesnap/internal/model"
	"sitesnap/internal/report"
	"sitesnap/internal/saver"
)

// runCrawlCmd executes the crawl from the root command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential redaction
	logger := log.NewLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Get flag values
	var err error

	cfg.Formats, err = cmd.Flags().GetStringSlice("formats")
	if err != nil {
		return nil, err
	}
	cfg.FormatsSet = cmd.Flags().Changed("formats")

	cfg.OutputDir, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}
	cfg.ConcurrencySet = cmd.Flags().Changed("concurrency")

	cfg.FetchTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}
	cfg.FetchTimeoutSet = cmd.Flags().Changed("timeout")

	cfg.ChromePath, err = cmd.Flags().GetString("chrome-path")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		// Use empty config if no file found and user didn't explicitly specify one
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("report-file")
	if err != nil {
		return nil, err
	}

	// Always record runs using the XDG data directory
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	// Positional arguments are the seed URLs
	cfg.Seeds = args

	return cfg, nil
}

// runCrawl executes one crawl run per seed URL, sequentially.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.Seeds) == 0 {
		return errors.New("no seed URLs provided (specify one or more start URLs as arguments)")
	}

	logger.Info("starting crawl",
		"seeds", cfg.Seeds,
		"formats", cfg.Formats,
		"concurrency", cfg.Concurrency,
	)

	// Open the manifest database. An unusable manifest is logged and
	// skipped; the crawl itself must not depend on it.
	var db *database.CrawlDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("crawl manifest unavailable, runs will not be recorded",
				"dir", cfg.DBDir, "error", err)
		} else {
			defer db.Close()
			logger.Info("crawl manifest opened", "dir", cfg.DBDir)
		}
	}

	var failed int
	for _, seed := range cfg.Seeds {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := crawlSeed(ctx, cfg, db, seed, logger); err != nil {
			// Cancellation ends the whole invocation, not just this seed
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			logger.Error("crawl failed", "seed", seed, "error", err)
			fmt.Fprintf(os.Stderr, "Crawl error for %s: %v\n", seed, err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d crawl runs failed", failed, len(cfg.Seeds))
	}
	return nil
}

// crawlSeed runs a single crawl over the given seed's domain.
func crawlSeed(ctx context.Context, cfg *config.Config, db *database.CrawlDB, seed string, logger *slog.Logger) error {
	// Site-specific configuration is keyed by the seed's host
	u, err := url.Parse(seed)
	if err != nil {
		return fmt.Errorf("invalid seed URL %q: %w", seed, err)
	}

	var siteCfg config.SiteConfig
	if cfg.SiteConfigs != nil {
		siteCfg = cfg.SiteConfigs.GetSiteConfig(u.Host)
	}

	settings := resolveRunSettings(cfg, siteCfg, seed)

	parsed, err := saver.ParseFormats(settings.formats)
	if err != nil {
		return err
	}
	sinks := saver.ForFormats(parsed)

	// One browser process per run; each worker opens its own tab
	chrome, err := browser.NewChrome(ctx, browser.Options{
		ExecPath: cfg.ChromePath,
		Headers:  siteCfg.Headers,
	})
	if err != nil {
		return fmt.Errorf("start browser: %w", err)
	}
	defer func() {
		if err := chrome.Close(); err != nil {
			logger.Error("failed to close browser", "error", err)
		}
	}()

	opts := []crawler.Option{
		crawler.WithConcurrency(settings.concurrency),
		crawler.WithFetchTimeout(settings.timeout),
		crawler.WithOutputDir(settings.outputDir),
		crawler.WithLogger(logger),
	}
	if len(siteCfg.Ignore) > 0 {
		opts = append(opts, crawler.WithIgnorePatterns(siteCfg.Ignore))
	}

	c, err := crawler.New(chrome, sinks, opts...)
	if err != nil {
		return err
	}

	fmt.Printf("Crawling %s...\n", seed)
	startTime := time.Now()

	crawlReport, runErr := c.Run(ctx, seed)
	if crawlReport == nil {
		return runErr
	}
	crawlReport.WebsiteName = config.WebsiteName(seed)

	if runErr == nil {
		fmt.Printf("Crawl completed in %s\n\n", time.Since(startTime).Round(time.Millisecond))
	}

	// Report and record even a partial run
	if err := outputReport(cfg, crawlReport); err != nil {
		logger.Error("report failed", "seed", seed, "error", err)
	}

	// The run context is already cancelled on the shutdown path;
	// recording the partial run must still go through.
	if err := saveRun(context.WithoutCancel(ctx), db, crawlReport, logger); err != nil {
		logger.Error("failed to record crawl run", "seed", seed, "error", err)
	}

	return runErr
}

// runSettings are the effective crawl settings for one seed after site
// config overrides are applied.
type runSettings struct {
	formats     []string
	concurrency int
	timeout     time.Duration
	outputDir   string
}

// resolveRunSettings applies override precedence for one seed: an
// explicit flag beats the site config entry, and the site config entry
// beats the built-in default. An explicit --output is used verbatim for
// every seed; otherwise each seed gets its own directory.
func resolveRunSettings(cfg *config.Config, siteCfg config.SiteConfig, seed string) runSettings {
	s := runSettings{
		formats:     cfg.Formats,
		concurrency: cfg.Concurrency,
		timeout:     cfg.FetchTimeout,
		outputDir:   cfg.OutputDir,
	}
	if len(siteCfg.Formats) > 0 && !cfg.FormatsSet {
		s.formats = siteCfg.Formats
	}
	if siteCfg.Concurrency > 0 && !cfg.ConcurrencySet {
		s.concurrency = siteCfg.Concurrency
	}
	if siteCfg.Timeout.Duration > 0 && !cfg.FetchTimeoutSet {
		s.timeout = siteCfg.Timeout.Duration
	}
	if s.outputDir == "" {
		s.outputDir = siteCfg.Output
	}
	if s.outputDir == "" {
		s.outputDir = config.DefaultOutputDir(seed)
	}
	return s
}

// outputReport outputs the crawl report in the requested format.
func outputReport(cfg *config.Config, crawlReport *model.CrawlReport) error {
	// Determine output destination
	var output *os.File
	toFile := cfg.ReportFile != ""
	if toFile {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output)
	}

	if _, err := w.Write(crawlReport); err != nil {
		return err
	}

	// When the full report went to a file, the terminal still gets a
	// short summary
	if toFile {
		if _, err := report.NewSimpleWriter(os.Stdout).WriteSummary(report.NewSummary(crawlReport)); err != nil {
			return err
		}
	}

	return nil
}

// saveRun records the finished run in the manifest database.
// If db is nil, this function is a no-op.
func saveRun(ctx context.Context, db *database.CrawlDB, crawlReport *model.CrawlReport, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveRun(ctx, crawlReport)
	if err != nil {
		return fmt.Errorf("failed to record crawl run: %w", err)
	}

	logger.Info("crawl run recorded", "runID", id, "domain", crawlReport.Domain)
	return nil
}
