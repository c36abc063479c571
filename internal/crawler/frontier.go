package crawler

import "sync"

// Frontier is the unbounded FIFO queue of discovered, not-yet-processed
// URLs, shared by every worker in a crawl run.
//
// Besides the queue itself it tracks an in-flight counter: Enqueue
// increments it, MarkDone decrements it. An item therefore counts as
// in-flight from the moment it is queued until its worker reports
// completion, which is what lets Join detect true quiescence rather
// than a momentarily empty queue.
//
// Design decision: We guard both the slice and the counter with a single
// mutex and condition variable because:
//  1. Dequeue must block on "queue empty", Join on "work outstanding",
//     and the two conditions change under the same transitions
//  2. A channel cannot model an unbounded queue without an extra
//     shuffling goroutine, and offers no join semantics at all
//  3. Broadcast on every transition keeps the invariants easy to audit
type Frontier struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    []string
	inFlight int
	closed   bool
}

// NewFrontier creates an empty open frontier.
func NewFrontier() *Frontier {
	f := &Frontier{}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Enqueue appends url to the tail without blocking and accounts it as
// in-flight until a matching MarkDone. Enqueue on a closed frontier is
// a no-op: the run is shutting down and new work is dropped.
func (f *Frontier) Enqueue(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.items = append(f.items, url)
	f.inFlight++
	f.cond.Broadcast()
}

// Dequeue removes and returns the head of the queue, blocking while the
// queue is empty. It returns ok == false when the frontier has been
// closed, which is the signal for a worker to exit.
func (f *Frontier) Dequeue() (url string, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.items) == 0 && !f.closed {
		f.cond.Wait()
	}
	if f.closed {
		return "", false
	}
	url = f.items[0]
	f.items = f.items[1:]
	return url, true
}

// MarkDone records that a previously dequeued item has been fully
// processed, successfully or not. Every Dequeue must be paired with
// exactly one MarkDone; the coordinator's completion detection depends
// on it.
func (f *Frontier) MarkDone() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
	if f.inFlight < 0 {
		panic("crawler: Frontier.MarkDone called more times than Enqueue")
	}
	if f.inFlight == 0 {
		f.cond.Broadcast()
	}
}

// Join blocks until every enqueued item has been dequeued and marked
// done, or until the frontier is closed. Because the counter is bumped
// at enqueue time, "counter is zero" already implies "queue is empty";
// both are checked anyway so the invariant is explicit.
func (f *Frontier) Join() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for (f.inFlight > 0 || len(f.items) > 0) && !f.closed {
		f.cond.Wait()
	}
}

// Close marks the frontier as closed and wakes every blocked Dequeue
// and Join. Pending items are discarded; subsequent Enqueues are
// dropped. Close is idempotent and safe to call from any goroutine,
// including a context cancellation callback.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.cond.Broadcast()
}

// Len reports the number of queued items not yet dequeued.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// InFlight reports the number of items enqueued but not yet marked done.
func (f *Frontier) InFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}
