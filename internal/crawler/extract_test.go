package crawler

import (
	"reflect"
	"testing"
)

func TestExtractorLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		base   string
		markup string
		want   []string
	}{
		{
			name:   "relative links resolve against the page URL",
			base:   "https://example.com/docs/start",
			markup: `<a href="guide">Guide</a><a href="/api">API</a>`,
			want:   []string{"https://example.com/docs/guide", "https://example.com/api"},
		},
		{
			name:   "absolute same-domain links are kept",
			base:   "https://example.com/",
			markup: `<a href="https://example.com/about">About</a>`,
			want:   []string{"https://example.com/about"},
		},
		{
			name:   "external domains are dropped",
			base:   "https://example.com/",
			markup: `<a href="https://other.com/x">ext</a><a href="https://sub.example.com/y">sub</a>`,
			want:   nil,
		},
		{
			name:   "host comparison is exact including port",
			base:   "https://example.com/",
			markup: `<a href="https://example.com:8080/x">port</a><a href="https://Example.com/y">case</a>`,
			want:   nil,
		},
		{
			name:   "fragments are stripped and variants collapse",
			base:   "https://example.com/",
			markup: `<a href="/a#sec1">one</a><a href="/a#sec2">two</a>`,
			want:   []string{"https://example.com/a"},
		},
		{
			name:   "fragment-only link resolves to the page itself",
			base:   "https://example.com/page",
			markup: `<a href="#top">top</a>`,
			want:   []string{"https://example.com/page"},
		},
		{
			name:   "non-navigational schemes are skipped",
			base:   "https://example.com/",
			markup: `<a href="javascript:void(0)">j</a><a href="mailto:a@b.example">m</a><a href="tel:+123">t</a><a href="data:text/plain,hi">d</a>`,
			want:   nil,
		},
		{
			name:   "empty and bare-fragment hrefs are skipped",
			base:   "https://example.com/",
			markup: `<a href="">e</a><a href="#">h</a><a>none</a>`,
			want:   nil,
		},
		{
			name:   "duplicates within a page collapse",
			base:   "https://example.com/",
			markup: `<a href="/a">first</a><a href="/a">second</a>`,
			want:   []string{"https://example.com/a"},
		},
		{
			name:   "document order is preserved",
			base:   "https://example.com/",
			markup: `<a href="/z">z</a><a href="/a">a</a><a href="/m">m</a>`,
			want:   []string{"https://example.com/z", "https://example.com/a", "https://example.com/m"},
		},
		{
			name:   "query strings stay distinct",
			base:   "https://example.com/",
			markup: `<a href="/a?page=1">1</a><a href="/a?page=2">2</a>`,
			want:   []string{"https://example.com/a?page=1", "https://example.com/a?page=2"},
		},
		{
			name:   "protocol-relative link on the same host",
			base:   "https://example.com/",
			markup: `<a href="//example.com/pr">pr</a>`,
			want:   []string{"https://example.com/pr"},
		},
		{
			name:   "malformed markup still yields what could be parsed",
			base:   "https://example.com/",
			markup: `<div><a href="/ok">ok</a><span>unclosed`,
			want:   []string{"https://example.com/ok"},
		},
		{
			name:   "nested anchors inside structure are found",
			base:   "https://example.com/",
			markup: `<nav><ul><li><a href="/one">1</a></li><li><a href="/two">2</a></li></ul></nav>`,
			want:   []string{"https://example.com/one", "https://example.com/two"},
		},
		{
			name:   "whitespace around href is trimmed",
			base:   "https://example.com/",
			markup: `<a href="  /padded  ">p</a>`,
			want:   []string{"https://example.com/padded"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := NewExtractor("example.com", nil)
			got := e.Extract(tt.base, tt.markup)
			if !reflect.DeepEqual(got.Links, tt.want) {
				t.Errorf("Extract links = %v, want %v", got.Links, tt.want)
			}
		})
	}
}

func TestExtractorTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "title text is captured",
			markup: `<html><head><title>Welcome</title></head><body></body></html>`,
			want:   "Welcome",
		},
		{
			name:   "surrounding whitespace is trimmed",
			markup: "<title>\n\tPadded Title\n</title>",
			want:   "Padded Title",
		},
		{
			name:   "first title wins",
			markup: `<title>First</title><title>Second</title>`,
			want:   "First",
		},
		{
			name:   "missing title yields empty string",
			markup: `<html><body><p>no title</p></body></html>`,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := NewExtractor("example.com", nil)
			got := e.Extract("https://example.com/", tt.markup)
			if got.Title != tt.want {
				t.Errorf("Extract title = %q, want %q", got.Title, tt.want)
			}
		})
	}
}

func TestExtractorIgnorePatterns(t *testing.T) {
	t.Parallel()

	ignore, err := CompileIgnorePatterns([]string{`/private/`, `\.zip$`})
	if err != nil {
		t.Fatalf("CompileIgnorePatterns returned error: %v", err)
	}
	e := NewExtractor("example.com", ignore)

	markup := `<a href="/keep">k</a><a href="/private/secret">p</a><a href="/files/archive.zip">z</a>`
	got := e.Extract("https://example.com/", markup)

	want := []string{"https://example.com/keep"}
	if !reflect.DeepEqual(got.Links, want) {
		t.Errorf("Extract links = %v, want %v", got.Links, want)
	}
}

func TestExtractorUnparsableBase(t *testing.T) {
	t.Parallel()

	e := NewExtractor("example.com", nil)
	got := e.Extract("http://exa mple.com/%", `<a href="/a">a</a>`)
	if len(got.Links) != 0 {
		t.Errorf("Extract links = %v for unparsable base URL, want none", got.Links)
	}
}

func TestCompileIgnorePatterns(t *testing.T) {
	t.Parallel()

	t.Run("empty input yields nil", func(t *testing.T) {
		t.Parallel()

		got, err := CompileIgnorePatterns(nil)
		if err != nil {
			t.Fatalf("CompileIgnorePatterns(nil) returned error: %v", err)
		}
		if got != nil {
			t.Errorf("CompileIgnorePatterns(nil) = %v, want nil", got)
		}
	})

	t.Run("invalid pattern is reported", func(t *testing.T) {
		t.Parallel()

		_, err := CompileIgnorePatterns([]string{`[unterminated`})
		if err == nil {
			t.Fatal("CompileIgnorePatterns accepted an invalid pattern")
		}
	})

	t.Run("valid patterns compile", func(t *testing.T) {
		t.Parallel()

		got, err := CompileIgnorePatterns([]string{`\.pdf$`, `^https://example\.com/tmp/`})
		if err != nil {
			t.Fatalf("CompileIgnorePatterns returned error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("compiled %d patterns, want 2", len(got))
		}
	})
}
