// Package main provides the entry point for the webcrawl CLI.
//
// webcrawl crawls a single domain from a seed URL up to a configurable link
// depth, logs every attempted URL as valid or invalid, and reports images
// whose bytes are identical across multiple URLs.
//
// Usage:
//
//	webcrawl http://example.test/
//	webcrawl --depth 3 --visited out/visited.csv http://example.test/
//
// See --help for all available options.
package main

// main is the entry point for webcrawl.
func main() {
	Execute()
}
