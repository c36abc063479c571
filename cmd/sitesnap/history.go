package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sitesnap/internal/config"
	"sitesnap/internal/database"
	"sitesnap/internal/report"
)

// NewHistoryCmd creates the history command.
// This command lists and inspects crawl runs recorded in the manifest
// database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [domain]",
		Short: "List and inspect past crawl runs",
		Long: `History lists crawl runs recorded in the local manifest database.

Every finished crawl is recorded with its summary and per-page outcomes.
Without arguments, the most recent runs across all sites are shown;
pass a domain to narrow the listing to one site.

Examples:
  # List recent runs across all sites
  sitesnap history

  # List runs for one domain
  sitesnap history quotes.toscrape.com

  # Show the pages of a specific run
  sitesnap history --run 12

  # Print a run's full report as JSON
  sitesnap history --run 12 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	// Run selection flags
	cmd.Flags().Int64P("run", "r", 0,
		"Show a specific run by ID (use the listing to see available IDs)")
	cmd.Flags().IntP("limit", "l", 20,
		"Maximum number of runs to list")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output the selected run's full report in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	runID, err := cmd.Flags().GetInt64("run")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	var domain string
	if len(args) > 0 {
		domain = args[0]
	}

	// Use XDG data directory for the manifest database
	dbDir := config.XDGDataDir()

	// Unlike crawling, history cannot do anything without the manifest
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open crawl manifest: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	if runID > 0 {
		return showRun(ctx, db, runID, jsonOutput)
	}

	return listRuns(ctx, db, domain, limit)
}

// listRuns prints recent crawl runs, newest first.
func listRuns(ctx context.Context, db *database.CrawlDB, domain string, limit int) error {
	runs, err := db.RecentRuns(ctx, domain, limit)
	if err != nil {
		return fmt.Errorf("failed to list crawl runs: %w", err)
	}

	if len(runs) == 0 {
		if domain != "" {
			fmt.Printf("No crawl runs found for %s\n", domain)
		} else {
			fmt.Println("No crawl runs recorded yet.")
		}
		fmt.Println("\nUse 'sitesnap <url>' to crawl a website.")
		return nil
	}

	if domain != "" {
		fmt.Printf("Crawl runs for %s (%d):\n\n", domain, len(runs))
	} else {
		fmt.Printf("Recent crawl runs (%d):\n\n", len(runs))
	}

	fmt.Printf("  %-6s  %-20s  %-28s  %s\n", "ID", "Date", "Domain", "Result")
	fmt.Println("  " + strings.Repeat("-", 72))

	for _, run := range runs {
		fmt.Printf("  %-6d  %-20s  %-28s  %s\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Domain,
			formatRunResult(run),
		)
	}

	fmt.Println("\nUse 'sitesnap history --run <id>' to see the pages of a run.")
	fmt.Println("Use 'sitesnap history --run <id> --json' for the full report.")

	return nil
}

// formatRunResult condenses a run's outcome into a short table cell.
func formatRunResult(run database.RunSummary) string {
	result := fmt.Sprintf("%d ok", run.PagesCrawled)
	if run.PagesFailed > 0 {
		result += fmt.Sprintf(", %d failed", run.PagesFailed)
	}
	if run.Error != "" {
		result += " (aborted)"
	}
	return result
}

// showRun prints one recorded run, either as a page listing or as the
// full report in JSON.
func showRun(ctx context.Context, db *database.CrawlDB, runID int64, jsonOutput bool) error {
	crawlReport, err := db.GetRunReport(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load run %d: %w", runID, err)
	}
	if crawlReport == nil {
		return fmt.Errorf("run %d not found (use 'sitesnap history' to list runs)", runID)
	}

	if jsonOutput {
		w := report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
		_, err := w.Write(crawlReport)
		return err
	}

	// The pages table keeps fetch order even when the stored report
	// was written by an older version
	pages, err := db.PagesForRun(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load pages for run %d: %w", runID, err)
	}

	fmt.Printf("Run %d: %s\n", runID, crawlReport.SeedURL)
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\nDomain:    %s\n", crawlReport.Domain)
	fmt.Printf("Started:   %s\n", crawlReport.StartedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Output:    %s\n", crawlReport.OutputDir)
	fmt.Printf("Formats:   %s\n", strings.Join(crawlReport.Formats, ", "))
	if crawlReport.Error != "" {
		fmt.Printf("Status:    aborted: %s\n", crawlReport.Error)
	}

	fmt.Printf("\nPages (%d):\n", len(pages))
	for _, page := range pages {
		if page.Succeeded() {
			fmt.Printf("  [+] %s\n", page.URL)
			if len(page.SavedFormats) > 0 {
				fmt.Printf("      Saved: %s\n", strings.Join(page.SavedFormats, ", "))
			}
		} else {
			fmt.Printf("  [x] %s\n", page.URL)
			if page.Error != "" {
				fmt.Printf("      Error: %s\n", page.Error)
			}
		}
	}

	return nil
}
