package crawler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bananos/webcrawl/internal/model"
)

// Fetcher retrieves a single URL. The engine treats every returned error
// uniformly as a download failure; distinguishing DNS, connection, timeout
// and status problems is not its concern.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*model.Resource, error)
}

// HTTPFetcher fetches URLs over HTTP(S) with a shared http.Client.
// A nil client in NewHTTPFetcher gets a default one with the configured
// timeout, so connection pooling is shared across all workers.
type HTTPFetcher struct {
	// client performs the actual requests.
	client *http.Client

	// userAgent is sent as the User-Agent header on every request.
	userAgent string

	// headers are extra headers added to every request.
	headers map[string]string

	// maxBodySize caps how many response bytes are read.
	maxBodySize int64

	// timeout is the per-request timeout applied to the default client.
	timeout time.Duration
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.userAgent = ua
	}
}

// WithHeaders sets extra headers added to every request.
func WithHeaders(headers map[string]string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.headers = headers
	}
}

// WithMaxBodySize caps the number of response body bytes read per URL.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithTimeout sets the per-request timeout. The default fails fast rather
// than letting a slow server hang a worker indefinitely.
func WithTimeout(timeout time.Duration) FetcherOption {
	return func(f *HTTPFetcher) {
		if timeout > 0 {
			f.timeout = timeout
		}
	}
}

// WithClient supplies a pre-configured http.Client, overriding the default.
// WithTimeout has no effect on a supplied client.
func WithClient(client *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		f.client = client
	}
}

// NewHTTPFetcher creates an HTTPFetcher with the given options applied.
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		userAgent:   "webcrawl/1.0 (+https://github.com/bananos/webcrawl)",
		maxBodySize: 10 * 1024 * 1024, // 10MB
		timeout:     30 * time.Second,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{Timeout: f.timeout}
	}

	return f
}

// Fetch retrieves rawURL and returns the body with its metadata.
// Any transport error or non-2xx status is returned as an error; the
// caller records those as DownloadError.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*model.Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused, then fail.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096)) //nolint:errcheck // Best effort drain.
		return nil, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", rawURL, err)
	}

	return &model.Resource{
		URL:         rawURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
