// Package crawler implements the concurrent site crawl: starting from
// a seed URL it visits every reachable same-domain page exactly once
// and hands each page to the configured content sinks.
//
// # Architecture
//
// The package is built around the Crawler type, which owns a Frontier
// (the FIFO work queue), a VisitedSet (the dedup gate), an Extractor
// (link discovery), and a pool of workers. Each worker holds one
// browser session and loops dequeue, claim, fetch, save, extract,
// enqueue until the frontier closes.
//
// Design decision: We run our own frontier and worker pool rather than
// handing the traversal to a crawling framework because:
//  1. Completion must be detected precisely through an in-flight
//     counter, not approximated with idle timeouts
//  2. Fetching goes through a real browser, so workers must be pinned
//     one-to-one to long-lived browser sessions
//  3. The dedup policy is deliberately exact-string matching, which
//     frameworks tend to override with their own URL normalization
//
// # Components
//
//   - Crawler: coordinates workers and collects per-page results
//   - Frontier: unbounded FIFO queue with join semantics
//   - VisitedSet: atomic claim gate, one visit per canonical URL
//   - Extractor: same-domain link and title extraction
//
// # Termination
//
// Every Enqueue increments an in-flight counter and every MarkDone
// decrements it, with MarkDone only happening after the worker has
// finished the page, including enqueueing its links. The counter can
// therefore only reach zero when no worker holds a page, which makes
// Frontier.Join a sound completion signal with no "queue momentarily
// empty" false positives. Cancellation takes the other exit: closing
// the frontier wakes every blocked Dequeue and Join.
//
// Two workers can discover the same URL at the same moment and both
// enqueue it; VisitedSet.Claim resolves the race. The loser's queue
// entry is consumed as a counted duplicate, never reprocessed.
//
// # Usage
//
//	c, err := crawler.New(chrome, sinks,
//		crawler.WithConcurrency(10),
//		crawler.WithOutputDir("download/example"))
//	if err != nil {
//		return err
//	}
//	report, err := c.Run(ctx, "https://example.com/docs")
package crawler
