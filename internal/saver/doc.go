// Package saver persists crawled pages to disk in the supported output
// formats: Markdown, PDF, and raw HTML.
//
// Each format is a separate Saver so that a failure in one never
// affects another; the worker requests every configured format for
// every page and logs failures individually. File names are derived
// per saver from the page URL (see FileStem), and all files for a run
// land flat in the run's output directory.
//
// Design decision: savers receive both the fetched markup and the live
// browser session because the formats disagree about their source of
// truth:
//  1. HTML and Markdown work from the markup string alone
//  2. PDF must render through the browser's print engine, which needs
//     the page still loaded in the tab
package saver
