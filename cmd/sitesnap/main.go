// Package main provides the entry point for the sitesnap CLI.
//
// sitesnap saves entire websites for offline reading. Starting from a
// seed URL it renders every same-domain page in a headless browser and
// writes each one as markdown, PDF, or raw HTML.
//
// Usage:
//
//	sitesnap https://example.com
//	sitesnap --formats markdown,pdf https://example.com
//
// See --help for all available options.
package main

// main is the entry point for sitesnap.
func main() {
	Execute()
}
