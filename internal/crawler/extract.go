package crawler

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Extractor pulls the page title and the same-domain links out of
// fetched markup. It is stateless after construction and safe for
// concurrent use by every worker in a run.
type Extractor struct {
	// domain is the crawl's fixed domain, compared verbatim against
	// each resolved link host. No case folding, no www-stripping.
	domain string

	// ignore holds patterns matched against each canonical URL;
	// a match drops the link at discovery time.
	ignore []*regexp.Regexp
}

// NewExtractor creates an extractor bound to domain. The ignore
// patterns must already be compiled; see CompileIgnorePatterns.
func NewExtractor(domain string, ignore []*regexp.Regexp) *Extractor {
	return &Extractor{domain: domain, ignore: ignore}
}

// CompileIgnorePatterns compiles the configured ignore expressions,
// failing on the first invalid one so a bad pattern surfaces before the
// crawl starts rather than silently matching nothing.
func CompileIgnorePatterns(patterns []string) ([]*regexp.Regexp, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile ignore pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// PageLinks is the outcome of one extraction pass.
type PageLinks struct {
	// Title is the text of the first <title> element, or "" when the
	// page has none.
	Title string

	// Links holds the canonical same-domain URLs in document order,
	// deduplicated within the page.
	Links []string
}

// Extract parses markup fetched from pageURL and collects the links to
// follow. The parser recovers from malformed HTML, so a broken page
// yields whatever links could still be found; a document that cannot be
// parsed at all simply yields none. Extraction never fails the page.
func (e *Extractor) Extract(pageURL, markup string) *PageLinks {
	result := &PageLinks{}

	base, err := url.Parse(pageURL)
	if err != nil {
		return result
	}
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return result
	}

	inPage := make(map[string]struct{})
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if result.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					result.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "a":
				if href := getAttr(n, "href"); href != "" {
					if canonical, ok := e.canonicalize(base, href); ok {
						if _, dup := inPage[canonical]; !dup {
							inPage[canonical] = struct{}{}
							result.Links = append(result.Links, canonical)
						}
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return result
}

// canonicalize resolves href against base, strips the fragment, and
// keeps only links on the crawl domain. The canonical form is the
// resolved absolute URL as a string; beyond dropping the fragment no
// normalization is applied, so trailing-slash and encoding variants
// stay distinct.
func (e *Extractor) canonicalize(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || href == "#" {
		return "", false
	}

	// Non-navigational schemes never reach the queue.
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(href, prefix) {
			return "", false
		}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	resolved := base.ResolveReference(ref)

	// The browser backend can only navigate web URLs.
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}
	if resolved.Host != e.domain {
		return "", false
	}

	resolved.Fragment = ""
	resolved.RawFragment = ""
	canonical := resolved.String()

	for _, re := range e.ignore {
		if re.MatchString(canonical) {
			return "", false
		}
	}
	return canonical, true
}

// getAttr returns the value of the named attribute, or "".
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
