// Package browser abstracts the page-fetching backend behind small
// Session and Browser interfaces and provides the production
// implementation on headless Chrome.
//
// Design decision: pages are fetched through a real browser (driven
// with chromedp) instead of a plain HTTP client because:
//  1. Modern sites render much of their content with JavaScript, and
//     the crawl must see the rendered document, not the initial payload
//  2. The PDF output format uses the browser's own print engine, which
//     only exists inside a live page
//  3. One Chrome process serves all workers, each pinned to its own
//     tab, so concurrency scales without per-fetch process startup
//
// The crawler and the savers only ever see the interfaces, which keeps
// them testable without a Chrome installation.
package browser
