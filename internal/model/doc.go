// Package model defines the core data structures used throughout sitesnap.
//
// This package contains the following main types:
//   - PageResult: The outcome of processing a single URL
//   - CrawlReport: The aggregate result of one crawl run
//
// Design decision: We separate models into their own package to avoid
// circular dependencies. Multiple packages (crawler, report, database)
// need these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output
// and database storage.
package model
