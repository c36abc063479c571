package main

import (
	"strings"
	"testing"
)

// TestNewRootCmd tests the root command creation.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "sitesnap [flags] START_URL [START_URL...]" {
			t.Errorf("unexpected use: got %q", cmd.Use)
		}
	})

	t.Run("has short description", func(t *testing.T) {
		t.Parallel()
		if cmd.Short == "" {
			t.Error("expected non-empty short description")
		}
	})

	t.Run("has long description", func(t *testing.T) {
		t.Parallel()
		if cmd.Long == "" {
			t.Error("expected non-empty long description")
		}
	})

	t.Run("has version", func(t *testing.T) {
		t.Parallel()
		if cmd.Version == "" {
			t.Error("expected non-empty version")
		}
	})

	t.Run("accepts positional arguments", func(t *testing.T) {
		t.Parallel()
		// Args must be set explicitly or cobra rejects seed URLs as
		// unknown commands once subcommands exist
		if cmd.Args == nil {
			t.Error("expected Args validator")
		}
	})

	t.Run("has verbose flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.PersistentFlags().Lookup("verbose")
		if flag == nil {
			t.Fatal("expected verbose flag")
		}
		if flag.Shorthand != "v" {
			t.Errorf("expected shorthand 'v', got %q", flag.Shorthand)
		}
		if flag.DefValue != "false" {
			t.Errorf("expected default 'false', got %q", flag.DefValue)
		}
	})

	t.Run("has crawl flags with shorthands", func(t *testing.T) {
		t.Parallel()
		flagsWithShort := map[string]string{
			"formats":     "f",
			"output":      "o",
			"concurrency": "n",
			"timeout":     "t",
			"config":      "c",
			"json":        "j",
			"markdown":    "m",
			"report-file": "r",
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

	t.Run("has chrome-path flag without shorthand", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("chrome-path")
		if flag == nil {
			t.Fatal("expected chrome-path flag")
		}
		if flag.Shorthand != "" {
			t.Errorf("expected no shorthand, got %q", flag.Shorthand)
		}
	})

	t.Run("concurrency defaults to 10", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("concurrency")
		if flag == nil {
			t.Fatal("expected concurrency flag")
		}
		if flag.DefValue != "10" {
			t.Errorf("expected default '10', got %q", flag.DefValue)
		}
	})

	t.Run("has subcommands", func(t *testing.T) {
		t.Parallel()
		subcommands := cmd.Commands()
		if len(subcommands) == 0 {
			t.Error("expected subcommands")
		}

		hasHistory := false
		hasInit := false
		hasVersion := false
		for _, sub := range subcommands {
			switch sub.Use {
			case "history [domain]":
				hasHistory = true
			case "init":
				hasInit = true
			case "version":
				hasVersion = true
			}
		}
		if !hasHistory {
			t.Error("expected history subcommand")
		}
		if !hasInit {
			t.Error("expected init subcommand")
		}
		if !hasVersion {
			t.Error("expected version subcommand")
		}
	})

	t.Run("silences usage and errors", func(t *testing.T) {
		t.Parallel()
		if !cmd.SilenceUsage {
			t.Error("expected SilenceUsage to be true")
		}
		if !cmd.SilenceErrors {
			t.Error("expected SilenceErrors to be true")
		}
	})
}

// TestRunCrawlCmdNoArgs tests the root command with no arguments.
func TestRunCrawlCmdNoArgs(t *testing.T) {
	t.Parallel()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{})

	err := rootCmd.Execute()
	if err == nil {
		t.Error("expected error for no arguments")
	}
}

// TestRunCrawlCmdConflictingFormats tests the root command with both
// --json and --markdown.
func TestRunCrawlCmdConflictingFormats(t *testing.T) {
	t.Parallel()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"--json", "--markdown", "https://example.com/"})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected error for conflicting report formats")
	}
	if !strings.Contains(err.Error(), "conflicting report formats") {
		t.Errorf("expected 'conflicting report formats' error, got: %v", err)
	}
}

// TestRunCrawlCmdInvalidSeed tests the root command with a seed URL
// that is not an absolute http(s) URL.
func TestRunCrawlCmdInvalidSeed(t *testing.T) {
	t.Parallel()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"ftp://example.com/"})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected error for invalid seed URL")
	}
	if !strings.Contains(err.Error(), "invalid start URL") {
		t.Errorf("expected 'invalid start URL' error, got: %v", err)
	}
}
