package config

import (
	"net/url"
	"path/filepath"
	"runtime"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultMaxDepth is the link-depth limit: the seed page plus two hops.
	// Deeper crawls are opt-in via --depth.
	DefaultMaxDepth = 2

	// DefaultTimeout is the per-request fetch timeout. Failing fast is
	// preferred over hanging a worker on a slow server.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize caps response bodies at 10MB. Larger bodies are
	// truncated; for hashing purposes a truncated image still dedups
	// consistently against itself.
	DefaultMaxBodySize = 10 * 1024 * 1024

	// DefaultValidFile, DefaultInvalidFile and DefaultDupImagesFile are the
	// output paths used when the corresponding flags are not given.
	DefaultValidFile     = "visited.csv"
	DefaultInvalidFile   = "invalid.csv"
	DefaultDupImagesFile = "dupimgs.csv"

	// DefaultShutdownTimeout bounds the wait for worker teardown after the
	// frontier finishes.
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultUserAgent identifies the crawler in HTTP requests so site
	// operators can recognize the traffic in their logs.
	DefaultUserAgent = "webcrawl/1.0 (+https://github.com/bananos/webcrawl)"

	// AppName is used for XDG directory paths.
	AppName = "webcrawl"
)

// DefaultWorkers returns the default worker pool size: one worker per
// available CPU. Fetching is network-bound, so this keeps every core busy
// with parsing while requests are in flight.
func DefaultWorkers() int {
	return runtime.NumCPU()
}

// Config holds all options for one crawl run. It is populated from CLI
// flags (optionally merged with a config file) and passed down by
// dependency injection; there is no global configuration state.
type Config struct {
	// SeedURL is the URL the crawl starts from.
	SeedURL string

	// MaxDepth is the link-depth limit. 0 crawls only the seed page.
	MaxDepth int

	// Workers is the worker pool size.
	Workers int

	// Timeout is the per-request fetch timeout.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// Headers are extra HTTP headers sent with every request.
	Headers map[string]string

	// MaxBodySize caps response body reads, in bytes.
	MaxBodySize int64

	// ValidFile, InvalidFile and DupImagesFile are the three output paths.
	ValidFile     string
	InvalidFile   string
	DupImagesFile string

	// Verbose enables debug-level logging.
	Verbose bool

	// JSONReport and MarkdownReport select the run-summary format; both
	// false means the human-readable table. They are mutually exclusive.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile, when set, writes the run summary to a file instead of
	// stdout. The CSV outputs are unaffected.
	ReportFile string

	// ConfigFilePath is an explicit config file location. Empty means
	// search the standard locations.
	ConfigFilePath string
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		MaxDepth:      DefaultMaxDepth,
		Workers:       DefaultWorkers(),
		Timeout:       DefaultTimeout,
		UserAgent:     DefaultUserAgent,
		MaxBodySize:   DefaultMaxBodySize,
		ValidFile:     DefaultValidFile,
		InvalidFile:   DefaultInvalidFile,
		DupImagesFile: DefaultDupImagesFile,
	}
}

// Validate checks the configuration for errors that must abort the run
// before any work starts.
func (c *Config) Validate() error {
	if c.SeedURL == "" {
		return ErrNoSeedURL
	}
	if _, err := url.Parse(c.SeedURL); err != nil {
		return ErrInvalidSeedURL
	}
	if c.MaxDepth < 0 {
		return ErrInvalidDepth
	}
	if c.Workers <= 0 {
		return ErrInvalidWorkerCount
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// SeedHost returns the host of the seed URL, or "" when the seed does not
// parse. Used by per-host config file overrides.
func (c *Config) SeedHost() string {
	u, err := url.Parse(c.SeedURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// XDGConfigDir returns the XDG config directory for webcrawl.
// On Linux: ~/.config/webcrawl
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
