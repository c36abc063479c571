// Package database keeps the manifest of past crawl runs.
//
// This package implements the CrawlDB, which stores:
//   - One record per crawl run with its summary counters
//   - One record per attempted page with status and saved formats
//   - The full run report as JSON for lossless retrieval
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of
// other databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
//
// Manifest writes are best-effort: the crawl itself never fails
// because this package could not record it.
package database
