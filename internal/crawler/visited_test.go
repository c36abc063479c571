package crawler

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
)

func TestVisitedSetClaim(t *testing.T) {
	t.Parallel()

	v := NewVisitedSet()

	if !v.Claim("https://example.com/a") {
		t.Error("first Claim = false, want true")
	}
	if v.Claim("https://example.com/a") {
		t.Error("second Claim = true, want false")
	}
	if !v.Claim("https://example.com/a/") {
		t.Error("Claim with trailing slash = false, want true; spellings are distinct")
	}
	if got := v.Len(); got != 2 {
		t.Errorf("Len = %d, want 2", got)
	}
}

func TestVisitedSetClaimIsAtomic(t *testing.T) {
	t.Parallel()

	const goroutines = 100

	v := NewVisitedSet()
	start := make(chan struct{})
	var wins atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if v.Claim("https://example.com/contested") {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := wins.Load(); got != 1 {
		t.Errorf("Claim returned true for %d callers, want exactly 1", got)
	}
	if got := v.Len(); got != 1 {
		t.Errorf("Len = %d, want 1", got)
	}
}

func TestVisitedSetSeen(t *testing.T) {
	t.Parallel()

	v := NewVisitedSet()

	if v.Seen("https://example.com/a") {
		t.Error("Seen = true before any Claim, want false")
	}
	v.Claim("https://example.com/a")
	if !v.Seen("https://example.com/a") {
		t.Error("Seen = false after Claim, want true")
	}
}

func TestVisitedSetURLsSorted(t *testing.T) {
	t.Parallel()

	v := NewVisitedSet()
	v.Claim("https://example.com/c")
	v.Claim("https://example.com/a")
	v.Claim("https://example.com/b")

	want := []string{
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
	}
	if got := v.URLs(); !reflect.DeepEqual(got, want) {
		t.Errorf("URLs = %v, want %v", got, want)
	}
}
