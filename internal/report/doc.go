// Package report renders the end-of-run crawl summary.
//
// The CSV sinks carry the per-URL results; the report is the operator-facing
// overview printed once the crawl finishes. Writers implement the Writer
// interface so the same summary can go to a terminal table, a Markdown
// document, or both via MultiWriter.
package report
