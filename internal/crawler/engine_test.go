package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bananos/webcrawl/internal/model"
)

// memSink collects results in memory for assertions.
type memSink struct {
	mu      sync.Mutex
	valid   map[string]int // url -> depth
	validN  map[string]int // url -> number of valid records written
	invalid []model.InvalidRecord
	dups    []model.DuplicateGroup
	closed  bool
}

func newMemSink() *memSink {
	return &memSink{
		valid:  make(map[string]int),
		validN: make(map[string]int),
	}
}

func (s *memSink) WriteValid(url string, depth int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.valid[url] = depth
	s.validN[url]++
	return nil
}

func (s *memSink) WriteInvalid(records []model.InvalidRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalid = append(s.invalid, records...)
	return nil
}

func (s *memSink) WriteDuplicateImages(groups []model.DuplicateGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dups = groups
	return nil
}

func (s *memSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// invalidKinds returns the recorded kinds for a URL suffix.
func (s *memSink) invalidKinds(urlSuffix string) []model.ErrorKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kinds []model.ErrorKind
	for _, rec := range s.invalid {
		if rec.URL == urlSuffix || hasSuffix(rec.URL, urlSuffix) {
			kinds = append(kinds, rec.Kind)
		}
	}
	return kinds
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

// newSiteServer serves a small site: the root page links to an in-domain
// page, an external page, a malformed link, a missing page, and two images
// with identical bytes plus one with distinct bytes.
func newSiteServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	page := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, body)
		}
	}
	image := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			fmt.Fprint(w, body)
		}
	}

	mux.HandleFunc("/", page(`<html><body>
		<a href="/a">a</a>
		<a href="http://other.test/b">external</a>
		<a href="::not a url::">bad</a>
		<a href="/gone">missing</a>
		<img src="/img.png">
		<img src="/img2.png">
		<img src="/unique.png">
	</body></html>`))
	mux.HandleFunc("/a", page(`<html><body>no links</body></html>`))
	mux.HandleFunc("/img.png", image("IDENTICAL-BYTES"))
	mux.HandleFunc("/img2.png", image("IDENTICAL-BYTES"))
	mux.HandleFunc("/unique.png", image("DIFFERENT-BYTES"))
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// TestEngineCrawl runs the full scenario end to end.
func TestEngineCrawl(t *testing.T) {
	t.Parallel()

	server := newSiteServer(t)
	out := newMemSink()
	engine := NewEngine(NewHTTPFetcher(), out,
		WithMaxDepth(2),
		WithWorkers(4),
	)

	crawlReport, err := engine.Run(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	t.Run("valid records with depths", func(t *testing.T) {
		wantDepths := map[string]int{
			server.URL + "/":           0,
			server.URL + "/a":          1,
			server.URL + "/img.png":    1,
			server.URL + "/img2.png":   1,
			server.URL + "/unique.png": 1,
		}
		for url, depth := range wantDepths {
			got, ok := out.valid[url]
			if !ok {
				t.Errorf("missing valid record for %s", url)
				continue
			}
			if got != depth {
				t.Errorf("%s: expected depth %d, got %d", url, depth, got)
			}
		}
		if len(out.valid) != len(wantDepths) {
			t.Errorf("expected %d valid records, got %d: %v", len(wantDepths), len(out.valid), out.valid)
		}
	})

	t.Run("at most one valid record per URL", func(t *testing.T) {
		for url, n := range out.validN {
			if n != 1 {
				t.Errorf("%s written %d times", url, n)
			}
		}
	})

	t.Run("external link recorded, never fetched", func(t *testing.T) {
		kinds := out.invalidKinds("http://other.test/b")
		if len(kinds) != 1 || kinds[0] != model.ErrorKindExternalDomain {
			t.Errorf("expected one ExternalDomain record, got %v", kinds)
		}
	})

	t.Run("malformed link recorded as ParseError", func(t *testing.T) {
		kinds := out.invalidKinds("::not a url::")
		if len(kinds) != 1 || kinds[0] != model.ErrorKindParse {
			t.Errorf("expected one ParseError record, got %v", kinds)
		}
	})

	t.Run("fetch failure recorded as DownloadError", func(t *testing.T) {
		kinds := out.invalidKinds("/gone")
		if len(kinds) != 1 || kinds[0] != model.ErrorKindDownload {
			t.Errorf("expected one DownloadError record, got %v", kinds)
		}
	})

	t.Run("duplicate images grouped, unique image omitted", func(t *testing.T) {
		if len(out.dups) != 1 {
			t.Fatalf("expected 1 duplicate group, got %v", out.dups)
		}
		group := out.dups[0]
		if len(group.URLs) != 2 {
			t.Fatalf("expected 2 URLs in group, got %v", group.URLs)
		}
		seen := map[string]bool{}
		for _, u := range group.URLs {
			seen[u] = true
		}
		if !seen[server.URL+"/img.png"] || !seen[server.URL+"/img2.png"] {
			t.Errorf("expected both identical images in group, got %v", group.URLs)
		}
	})

	t.Run("report totals", func(t *testing.T) {
		if crawlReport.PagesVisited != 5 {
			t.Errorf("expected 5 pages visited, got %d", crawlReport.PagesVisited)
		}
		if crawlReport.ImagesFetched != 3 {
			t.Errorf("expected 3 images fetched, got %d", crawlReport.ImagesFetched)
		}
		if crawlReport.ExternalDomainCount != 1 || crawlReport.ParseErrorCount != 1 || crawlReport.DownloadErrorCount != 1 {
			t.Errorf("unexpected invalid counts: %+v", crawlReport)
		}
		if crawlReport.DuplicateGroups != 1 || crawlReport.DuplicateImages != 2 {
			t.Errorf("unexpected duplicate stats: %+v", crawlReport)
		}
		if crawlReport.Interrupted {
			t.Error("run should not be interrupted")
		}
	})
}

// TestEngineDepthBound verifies pages beyond the depth limit are never
// fetched.
func TestEngineDepthBound(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	link := func(next string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprintf(w, `<a href="%s">next</a>`, next)
		}
	}
	var deepFetched bool
	mux.HandleFunc("/", link("/d1"))
	mux.HandleFunc("/d1", link("/d2"))
	mux.HandleFunc("/d2", func(w http.ResponseWriter, r *http.Request) {
		deepFetched = true
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	out := newMemSink()
	engine := NewEngine(NewHTTPFetcher(), out, WithMaxDepth(1), WithWorkers(2))

	if _, err := engine.Run(context.Background(), server.URL+"/"); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if deepFetched {
		t.Error("page beyond the depth bound was fetched")
	}
	if _, ok := out.valid[server.URL+"/d1"]; !ok {
		t.Error("page at the depth bound should be fetched")
	}
	for url, depth := range out.valid {
		if depth > 1 {
			t.Errorf("valid record beyond bound: %s depth %d", url, depth)
		}
	}
}

// TestEngineCancellation verifies a cancelled run unwinds without losing
// already-collected results.
func TestEngineCancellation(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<a href="/slow1">s</a><a href="/slow2">s</a><a href="/slow3">s</a>`)
	})
	slow := func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}
	mux.HandleFunc("/slow1", slow)
	mux.HandleFunc("/slow2", slow)
	mux.HandleFunc("/slow3", slow)
	server := httptest.NewServer(mux)
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	out := newMemSink()
	engine := NewEngine(NewHTTPFetcher(), out,
		WithMaxDepth(2),
		WithWorkers(2),
		WithShutdownTimeout(2*time.Second),
	)

	crawlReport, err := engine.Run(ctx, server.URL+"/")
	if err != nil {
		t.Fatalf("cancelled run should return normally, got %v", err)
	}
	if !crawlReport.Interrupted {
		t.Error("report should be marked interrupted")
	}
	if _, ok := out.valid[server.URL+"/"]; !ok {
		t.Error("results collected before cancellation should be kept")
	}
}

// errValidSink fails every valid-record write while keeping the rest of the
// in-memory sink behavior.
type errValidSink struct {
	*memSink
}

func (s *errValidSink) WriteValid(url string, depth int) error {
	return errors.New("stream closed")
}

// TestEnginePagesVisitedMatchesWrites verifies the summary counts only
// records the sink accepted.
func TestEnginePagesVisitedMatchesWrites(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `no links`)
	}))
	defer server.Close()

	out := &errValidSink{memSink: newMemSink()}
	engine := NewEngine(NewHTTPFetcher(), out, WithMaxDepth(0), WithWorkers(1))

	crawlReport, err := engine.Run(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if crawlReport.PagesVisited != 0 {
		t.Errorf("no valid record was written, but PagesVisited = %d", crawlReport.PagesVisited)
	}
}

// TestEngineInvalidSeed verifies initialization failures abort the run.
func TestEngineInvalidSeed(t *testing.T) {
	t.Parallel()

	engine := NewEngine(NewHTTPFetcher(), newMemSink())
	if _, err := engine.Run(context.Background(), "::bad seed::"); err == nil {
		t.Error("expected an error for an unparsable seed")
	}
}

// TestEngineDepthZero crawls only the seed page.
func TestEngineDepthZero(t *testing.T) {
	t.Parallel()

	var fetched sync.Map
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetched.Store(r.URL.Path, true)
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<a href="/a">a</a>`)
	}))
	defer server.Close()

	out := newMemSink()
	engine := NewEngine(NewHTTPFetcher(), out, WithMaxDepth(0), WithWorkers(2))
	if _, err := engine.Run(context.Background(), server.URL+"/"); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := fetched.Load("/a"); ok {
		t.Error("depth 0 must not follow links")
	}
	if len(out.valid) != 1 {
		t.Errorf("expected only the seed record, got %v", out.valid)
	}
}
