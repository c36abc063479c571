package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"sitesnap/internal/model"
)

// dbFileName is the single database file shared by all crawl runs.
const dbFileName = "sitesnap.db"

// CrawlDB is the SQLite-backed manifest of past crawl runs. Every
// finished run is recorded with its summary and per-page outcomes, so
// earlier downloads can be listed and inspected later.
//
// Design decision: one database file for all runs rather than one per
// site. Cross-site queries ("what did I crawl last week") stay a
// single SQL statement, and there is only one file to back up.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent
	// read performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the manifest database under dbDir.
// With CreateIfNotExists the directory and file are created on demand;
// without it a missing database is an error.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection strings: mode=rw opens existing
	// files only, mode=rwc also creates.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports a single writer; keeping one connection avoids
	// SQLITE_BUSY churn between the run insert and its page inserts.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- One row per crawl run, with the full report kept as JSON for
	-- lossless retrieval.
	CREATE TABLE IF NOT EXISTS crawl_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		seed_url TEXT NOT NULL,
		domain TEXT NOT NULL,
		website_name TEXT,
		output_dir TEXT,
		formats TEXT,
		concurrency INTEGER,
		started_at DATETIME NOT NULL,
		finished_at DATETIME,
		pages_crawled INTEGER DEFAULT 0,
		pages_failed INTEGER DEFAULT 0,
		links_discovered INTEGER DEFAULT 0,
		duplicates_skipped INTEGER DEFAULT 0,
		error TEXT,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_domain ON crawl_runs(domain);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON crawl_runs(started_at);

	-- One row per page attempted in a run.
	CREATE TABLE IF NOT EXISTS crawl_pages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES crawl_runs(id),
		url TEXT NOT NULL,
		title TEXT,
		status TEXT NOT NULL,
		error TEXT,
		saved_formats TEXT,
		fetched_at DATETIME,
		elapsed_ms INTEGER,
		UNIQUE(run_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_pages_run ON crawl_pages(run_id);
	CREATE INDEX IF NOT EXISTS idx_pages_url ON crawl_pages(url);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun records a finished crawl run and all its page results in one
// transaction, returning the new run's ID.
func (cdb *CrawlDB) SaveRun(ctx context.Context, report *model.CrawlReport) (int64, error) {
	if report == nil {
		return 0, errors.New("nil report")
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}
	formatsJSON, err := json.Marshal(report.Formats)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize formats: %w", err)
	}

	tx, err := cdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	res, err := tx.ExecContext(ctx, `
	INSERT INTO crawl_runs (
		seed_url, domain, website_name, output_dir, formats, concurrency,
		started_at, finished_at, pages_crawled, pages_failed,
		links_discovered, duplicates_skipped, error, report_json
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.SeedURL,
		report.Domain,
		report.WebsiteName,
		report.OutputDir,
		string(formatsJSON),
		report.Concurrency,
		formatTimestamp(report.StartedAt),
		formatTimestamp(report.FinishedAt),
		report.PagesCrawled,
		report.PagesFailed,
		report.LinksDiscovered,
		report.DuplicatesSkipped,
		report.Error,
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}

	for _, p := range report.Pages {
		savedJSON, err := json.Marshal(p.SavedFormats)
		if err != nil {
			return 0, fmt.Errorf("failed to serialize saved formats: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
		INSERT INTO crawl_pages (run_id, url, title, status, error, saved_formats, fetched_at, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, url) DO NOTHING`,
			runID,
			p.URL,
			p.Title,
			string(p.Status),
			p.Error,
			string(savedJSON),
			formatTimestamp(p.FetchedAt),
			p.Elapsed.Milliseconds(),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert page %s: %w", p.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// RunSummary is the per-run metadata used when listing history, small
// enough to show many runs without deserializing full reports.
type RunSummary struct {
	// ID is the run's identifier in the database.
	ID int64

	// SeedURL is the URL the crawl started from.
	SeedURL string

	// Domain is the crawl's fixed domain.
	Domain string

	// WebsiteName is the short site label derived from the domain.
	WebsiteName string

	// OutputDir is where the run wrote its files.
	OutputDir string

	// Formats are the output formats the run produced.
	Formats []string

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time

	// PagesCrawled and PagesFailed summarize the outcome.
	PagesCrawled int
	PagesFailed  int

	// Error is non-empty when the run ended abnormally.
	Error string
}

// RecentRuns lists runs newest-first, optionally filtered to one
// domain. A non-positive limit means no limit.
func (cdb *CrawlDB) RecentRuns(ctx context.Context, domain string, limit int) ([]RunSummary, error) {
	query := `
	SELECT id, seed_url, domain, website_name, output_dir, formats,
	       started_at, finished_at, pages_crawled, pages_failed, error
	FROM crawl_runs
	WHERE 1=1
	`
	args := make([]interface{}, 0, 2)
	if domain != "" {
		query += " AND domain = ?"
		args = append(args, domain)
	}
	query += " ORDER BY started_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var results []RunSummary
	for rows.Next() {
		var (
			s           RunSummary
			formatsJSON sql.NullString
			started     string
			finished    sql.NullString
			errText     sql.NullString
		)
		if err := rows.Scan(&s.ID, &s.SeedURL, &s.Domain, &s.WebsiteName,
			&s.OutputDir, &formatsJSON, &started, &finished,
			&s.PagesCrawled, &s.PagesFailed, &errText); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		s.StartedAt = parseTimestamp(started)
		if finished.Valid {
			s.FinishedAt = parseTimestamp(finished.String)
		}
		if errText.Valid {
			s.Error = errText.String
		}
		if formatsJSON.Valid && formatsJSON.String != "" {
			if err := json.Unmarshal([]byte(formatsJSON.String), &s.Formats); err != nil {
				s.Formats = nil
			}
		}
		results = append(results, s)
	}

	return results, rows.Err()
}

// GetRunReport retrieves the full report of a run by its ID, or nil
// when no such run exists.
func (cdb *CrawlDB) GetRunReport(ctx context.Context, id int64) (*model.CrawlReport, error) {
	var reportJSON string
	err := cdb.db.QueryRowContext(ctx,
		`SELECT report_json FROM crawl_runs WHERE id = ?`, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run report: %w", err)
	}

	var report model.CrawlReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse run report: %w", err)
	}
	return &report, nil
}

// PagesForRun lists the pages attempted in a run, in fetch order.
func (cdb *CrawlDB) PagesForRun(ctx context.Context, runID int64) ([]model.PageResult, error) {
	rows, err := cdb.db.QueryContext(ctx, `
	SELECT url, title, status, error, saved_formats, fetched_at, elapsed_ms
	FROM crawl_pages
	WHERE run_id = ?
	ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var results []model.PageResult
	for rows.Next() {
		var (
			p         model.PageResult
			status    string
			errText   sql.NullString
			savedJSON sql.NullString
			fetched   sql.NullString
			elapsedMS sql.NullInt64
		)
		if err := rows.Scan(&p.URL, &p.Title, &status, &errText,
			&savedJSON, &fetched, &elapsedMS); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}

		p.Status = model.PageStatus(status)
		if errText.Valid {
			p.Error = errText.String
		}
		if savedJSON.Valid && savedJSON.String != "" {
			if err := json.Unmarshal([]byte(savedJSON.String), &p.SavedFormats); err != nil {
				p.SavedFormats = nil
			}
		}
		if fetched.Valid {
			p.FetchedAt = parseTimestamp(fetched.String)
		}
		if elapsedMS.Valid {
			p.Elapsed = time.Duration(elapsedMS.Int64) * time.Millisecond
		}
		results = append(results, p)
	}

	return results, rows.Err()
}

// formatTimestamp stores times as RFC3339 in UTC. Zero times become
// empty strings so unfinished runs stay distinguishable.
func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// timestampFormats contains the timestamp formats that SQLite may
// return. The order matters: more specific formats come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple
// formats, returning the zero time when none match.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
