package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"sitesnap/internal/database"
	"sitesnap/internal/model"
)

func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history [domain]" {
			t.Errorf("unexpected Use: got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty Short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty Long description")
		}
	})

	t.Run("has flags with shorthands", func(t *testing.T) {
		t.Parallel()
		flagsWithShort := map[string]string{
			"run":   "r",
			"limit": "l",
			"json":  "j",
		}
		for name, shorthand := range flagsWithShort {
			f := cmd.Flags().Lookup(name)
			if f == nil {
				t.Errorf("expected flag %q to exist", name)
				continue
			}
			if f.Shorthand != shorthand {
				t.Errorf("flag %q: expected shorthand %q, got %q", name, shorthand, f.Shorthand)
			}
		}
	})

	t.Run("limit defaults to 20", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("limit")
		if flag == nil {
			t.Fatal("expected limit flag")
		}
		if flag.DefValue != "20" {
			t.Errorf("expected default '20', got %q", flag.DefValue)
		}
	})

	t.Run("accepts maximum 1 argument", func(t *testing.T) {
		t.Parallel()
		if cmd.Args == nil {
			t.Error("expected Args to be set")
		}
	})
}

func TestFormatRunResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		run  database.RunSummary
		want string
	}{
		{
			name: "all pages crawled",
			run:  database.RunSummary{PagesCrawled: 5},
			want: "5 ok",
		},
		{
			name: "some pages failed",
			run:  database.RunSummary{PagesCrawled: 5, PagesFailed: 2},
			want: "5 ok, 2 failed",
		},
		{
			name: "aborted run",
			run:  database.RunSummary{PagesCrawled: 3, Error: "browser crashed"},
			want: "3 ok (aborted)",
		},
		{
			name: "aborted run with failures",
			run:  database.RunSummary{PagesFailed: 4, Error: "context canceled"},
			want: "0 ok, 4 failed (aborted)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := formatRunResult(tt.run)
			if got != tt.want {
				t.Errorf("formatRunResult() = %q, want %q", got, tt.want)
			}
		})
	}
}

// captureStdout runs fn while collecting everything written to stdout.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	r.Close()
	return buf.String(), fnErr
}

func TestListRuns(t *testing.T) {
	// Note: Not using t.Parallel() because these tests capture os.Stdout
	ctx := context.Background()

	t.Run("empty database", func(t *testing.T) {
		db, err := database.Open(t.TempDir(), database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		output, err := captureStdout(t, func() error {
			return listRuns(ctx, db, "", 20)
		})
		if err != nil {
			t.Fatalf("listRuns() error = %v", err)
		}

		if !strings.Contains(output, "No crawl runs recorded yet") {
			t.Errorf("expected empty-database message, got %q", output)
		}
	})

	t.Run("lists recorded runs", func(t *testing.T) {
		db, err := database.Open(t.TempDir(), database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := db.SaveRun(ctx, newTestCrawlReport()); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}

		other := model.NewCrawlReport("https://other.org/", "other.org", "other")
		other.Formats = []string{"pdf"}
		other.OutputDir = "download/other"
		other.AddPage(model.PageResult{
			URL:          "https://other.org/",
			Status:       model.PageOK,
			SavedFormats: []string{"pdf"},
		})
		other.Finish()
		if _, err := db.SaveRun(ctx, other); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}

		output, err := captureStdout(t, func() error {
			return listRuns(ctx, db, "", 20)
		})
		if err != nil {
			t.Fatalf("listRuns() error = %v", err)
		}

		expectedStrings := []string{
			"Recent crawl runs (2)",
			"example.com",
			"other.org",
			"1 ok, 1 failed",
		}
		for _, expected := range expectedStrings {
			if !strings.Contains(output, expected) {
				t.Errorf("output missing expected string: %q", expected)
			}
		}
	})

	t.Run("filters by domain", func(t *testing.T) {
		db, err := database.Open(t.TempDir(), database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := db.SaveRun(ctx, newTestCrawlReport()); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}

		output, err := captureStdout(t, func() error {
			return listRuns(ctx, db, "example.com", 20)
		})
		if err != nil {
			t.Fatalf("listRuns() error = %v", err)
		}

		if !strings.Contains(output, "Crawl runs for example.com (1)") {
			t.Errorf("expected domain-filtered header, got %q", output)
		}
	})

	t.Run("reports missing domain", func(t *testing.T) {
		db, err := database.Open(t.TempDir(), database.DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		output, err := captureStdout(t, func() error {
			return listRuns(ctx, db, "nowhere.test", 20)
		})
		if err != nil {
			t.Fatalf("listRuns() error = %v", err)
		}

		if !strings.Contains(output, "No crawl runs found for nowhere.test") {
			t.Errorf("expected missing-domain message, got %q", output)
		}
	})
}

func TestShowRun(t *testing.T) {
	// Note: Not using t.Parallel() because these tests capture os.Stdout
	ctx := context.Background()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, newTestCrawlReport())
	if err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	t.Run("lists pages of a run", func(t *testing.T) {
		output, err := captureStdout(t, func() error {
			return showRun(ctx, db, id, false)
		})
		if err != nil {
			t.Fatalf("showRun() error = %v", err)
		}

		expectedStrings := []string{
			fmt.Sprintf("Run %d: https://example.com/", id),
			"Domain:    example.com",
			"[+] https://example.com/",
			"Saved: markdown",
			"[x] https://example.com/broken",
			"Error: fetch timed out",
		}
		for _, expected := range expectedStrings {
			if !strings.Contains(output, expected) {
				t.Errorf("output missing expected string: %q", expected)
			}
		}
	})

	t.Run("outputs full report as JSON", func(t *testing.T) {
		output, err := captureStdout(t, func() error {
			return showRun(ctx, db, id, true)
		})
		if err != nil {
			t.Fatalf("showRun() error = %v", err)
		}

		var rep model.CrawlReport
		if err := json.Unmarshal([]byte(output), &rep); err != nil {
			t.Fatalf("expected valid JSON output, got error: %v", err)
		}
		if rep.SeedURL != "https://example.com/" {
			t.Errorf("expected seed URL 'https://example.com/', got %q", rep.SeedURL)
		}
		if len(rep.Pages) != 2 {
			t.Errorf("expected 2 pages in report, got %d", len(rep.Pages))
		}
	})

	t.Run("returns error for unknown run", func(t *testing.T) {
		err := showRun(ctx, db, 99999, false)
		if err == nil {
			t.Fatal("expected error for unknown run ID")
		}
		if !strings.Contains(err.Error(), "not found") {
			t.Errorf("expected 'not found' error, got: %v", err)
		}
	})
}
