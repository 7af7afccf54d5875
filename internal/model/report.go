package model

import (
	"time"

	"github.com/google/uuid"
)

// CrawlReport summarizes one completed run. It is assembled by the engine
// after the frontier drains and rendered by the report package; the CSV
// sinks are the authoritative per-URL output, the report is the overview.
type CrawlReport struct {
	// RunID uniquely identifies this run in logs and reports.
	RunID string `json:"run_id"`

	// SeedURL is the URL the crawl started from.
	SeedURL string `json:"seed_url"`

	// MaxDepth is the configured link-depth limit.
	MaxDepth int `json:"max_depth"`

	// Workers is the size of the worker pool used.
	Workers int `json:"workers"`

	// StartedAt is when the engine began processing.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed"`

	// PagesVisited counts URLs that produced a Valid record.
	PagesVisited int `json:"pages_visited"`

	// ImagesFetched counts image resources that were hashed.
	ImagesFetched int `json:"images_fetched"`

	// ExternalDomainCount, DownloadErrorCount and ParseErrorCount break the
	// invalid-URL log down by kind. These count records, not distinct URLs.
	ExternalDomainCount int `json:"external_domain_count"`
	DownloadErrorCount  int `json:"download_error_count"`
	ParseErrorCount     int `json:"parse_error_count"`

	// DuplicateGroups is the number of content hashes shared by two or more
	// URLs; DuplicateImages is the total URL count across those groups.
	DuplicateGroups int `json:"duplicate_groups"`
	DuplicateImages int `json:"duplicate_images"`

	// Interrupted is true when the run was cancelled before the frontier
	// drained. Results written up to that point are still valid.
	Interrupted bool `json:"interrupted"`
}

// NewCrawlReport creates a report for a run that is about to start.
func NewCrawlReport(seedURL string, maxDepth, workers int) *CrawlReport {
	return &CrawlReport{
		RunID:     uuid.NewString(),
		SeedURL:   seedURL,
		MaxDepth:  maxDepth,
		Workers:   workers,
		StartedAt: time.Now(),
	}
}

// InvalidTotal returns the total number of invalid-URL records.
func (r *CrawlReport) InvalidTotal() int {
	return r.ExternalDomainCount + r.DownloadErrorCount + r.ParseErrorCount
}

// CountInvalid adds one invalid record of the given kind to the totals.
func (r *CrawlReport) CountInvalid(kind ErrorKind) {
	switch kind {
	case ErrorKindExternalDomain:
		r.ExternalDomainCount++
	case ErrorKindDownload:
		r.DownloadErrorCount++
	case ErrorKindParse:
		r.ParseErrorCount++
	}
}
