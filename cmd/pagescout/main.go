// Package main provides the entry point for the pagescout CLI.
//
// pagescout fetches web pages the way a crawler does: it resolves the
// text encoding of each body and extracts the followable hyperlinks,
// honoring nofollow directives.
//
// Usage:
//
//	pagescout fetch <url>...
//	pagescout links <url>...
//
// See --help for all available options.
package main

// main is the entry point for pagescout.
func main() {
	Execute()
}
