package config

import "errors"

// Configuration validation errors returned by Config.Validate. They are
// package-level sentinels so callers can branch with errors.Is while the
// messages stay human-readable.
var (
	// ErrNoSeedURL is returned when no seed URL was provided.
	ErrNoSeedURL = errors.New("no seed URL specified: provide a URL as the positional argument")

	// ErrInvalidSeedURL is returned when the seed URL does not parse.
	ErrInvalidSeedURL = errors.New("invalid seed URL")

	// ErrInvalidDepth is returned when the depth limit is negative.
	// Depth 0 is valid and crawls only the seed page.
	ErrInvalidDepth = errors.New("invalid depth: must be non-negative")

	// ErrInvalidWorkerCount is returned when the worker count is not
	// positive. Zero workers would accept work and never drain it.
	ErrInvalidWorkerCount = errors.New("invalid worker count: must be positive")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the body cap is negative.
	// Zero means use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are requested for the run summary.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
