package crawler

import (
	"sort"
	"sync"
)

// VisitedSet records which canonical URLs have already been claimed for
// processing. Membership is by raw string equality: two spellings of
// the same page ("http://example.com" and "http://example.com/") are
// distinct entries, matching the crawl's no-normalization policy.
type VisitedSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewVisitedSet creates an empty set.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{seen: make(map[string]struct{})}
}

// Claim atomically checks whether url has been seen and inserts it if
// not. It returns true for exactly one caller per URL across the whole
// run; every later caller gets false. This is the single authoritative
// gate against processing a page twice.
func (v *VisitedSet) Claim(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.seen[url]; ok {
		return false
	}
	v.seen[url] = struct{}{}
	return true
}

// Seen reports whether url has already been claimed. It is an advisory
// pre-filter for link discovery: the answer can be stale by the time
// the caller acts on it, so Claim remains the only correctness gate.
func (v *VisitedSet) Seen(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.seen[url]
	return ok
}

// Len reports how many URLs have been claimed.
func (v *VisitedSet) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.seen)
}

// URLs returns the claimed URLs in sorted order.
func (v *VisitedSet) URLs() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	urls := make([]string, 0, len(v.seen))
	for u := range v.seen {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls
}
