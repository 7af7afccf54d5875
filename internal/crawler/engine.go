package crawler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bananos/webcrawl/internal/model"
	"github.com/bananos/webcrawl/internal/sink"
)

// Engine orchestrates one crawl: it owns the frontier, the dedup state and
// the sink, runs a fixed pool of workers, and finalizes the duplicate-image
// report once the frontier drains.
type Engine struct {
	fetcher Fetcher
	sink    sink.Sink
	logger  *slog.Logger

	// maxDepth limits how many link hops from the seed are followed.
	maxDepth int

	// workers is the pool size. Fetching is where the time goes, so the
	// default of one worker per CPU keeps the network busy without
	// oversubscribing the host.
	workers int

	// shutdownTimeout bounds how long Run waits for workers to exit after
	// the frontier is finished.
	shutdownTimeout time.Duration

	frontier *Frontier
	visited  *VisitedSet
	images   *ImageIndex

	// report is guarded by reportMu; workers update counters through it.
	reportMu sync.Mutex
	report   *model.CrawlReport
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxDepth sets the link-depth limit. 0 crawls only the seed page.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth >= 0 {
			e.maxDepth = depth
		}
	}
}

// WithWorkers sets the worker pool size.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithLogger sets the diagnostic logger. Diagnostics are separate from the
// result sinks: unexpected per-URL failures land here, never in the CSVs.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithShutdownTimeout bounds the wait for straggling workers at teardown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.shutdownTimeout = d
		}
	}
}

// NewEngine creates an Engine writing results to s.
func NewEngine(fetcher Fetcher, s sink.Sink, opts ...Option) *Engine {
	e := &Engine{
		fetcher:         fetcher,
		sink:            s,
		logger:          slog.Default(),
		maxDepth:        2,
		workers:         runtime.NumCPU(),
		shutdownTimeout: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Run crawls from seedURL until the frontier drains or ctx is cancelled,
// then writes the duplicate-image report and tears the pool down.
//
// Per-URL failures are recorded as invalid rows and never fail the run;
// the returned error is non-nil only when the engine cannot start (bad
// seed) or the final report cannot be written. A cancelled run returns
// normally with report.Interrupted set.
func (e *Engine) Run(ctx context.Context, seedURL string) (*model.CrawlReport, error) {
	if _, err := url.Parse(seedURL); err != nil {
		return nil, fmt.Errorf("invalid seed URL %q: %w", seedURL, err)
	}

	e.frontier = NewFrontier(e.maxDepth)
	e.visited = NewVisitedSet()
	e.images = NewImageIndex()
	e.report = model.NewCrawlReport(seedURL, e.maxDepth, e.workers)

	e.logger.Info("starting crawl",
		"runID", e.report.RunID,
		"seed", seedURL,
		"maxDepth", e.maxDepth,
		"workers", e.workers,
	)

	// Seed before the pool starts so the pending count is non-zero from
	// the first Pop and the join cannot fire early.
	e.frontier.Push(seedURL, 0)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.workers; i++ {
		i := i
		g.Go(func() error {
			e.worker(ctx, i)
			return nil
		})
	}

	// Propagate cancellation to blocked Pop calls.
	interrupted := false
	select {
	case <-ctx.Done():
		interrupted = true
		e.logger.Info("crawl cancelled, abandoning queued work")
		e.frontier.Close()
	case <-e.frontier.Done():
	}

	// The duplicate-image report is computed once, here, from the final
	// record collection. On an interrupted run it covers whatever was
	// fetched before cancellation.
	groups := e.images.DuplicateGroups()
	if err := e.sink.WriteDuplicateImages(groups); err != nil {
		return nil, fmt.Errorf("finalize duplicate-image report: %w", err)
	}

	if err := e.waitForWorkers(g); err != nil {
		return nil, err
	}

	e.reportMu.Lock()
	defer e.reportMu.Unlock()
	e.report.DuplicateGroups = len(groups)
	for _, group := range groups {
		e.report.DuplicateImages += len(group.URLs)
	}
	e.report.Interrupted = interrupted
	e.report.Elapsed = time.Since(e.report.StartedAt)

	e.logger.Info("crawl finished",
		"runID", e.report.RunID,
		"pages", e.report.PagesVisited,
		"images", e.report.ImagesFetched,
		"invalid", e.report.InvalidTotal(),
		"elapsed", e.report.Elapsed,
	)

	return e.report, nil
}

// waitForWorkers waits for the pool to exit, bounded by shutdownTimeout.
// Goroutines cannot be force-killed; a straggler blocked in a fetch is
// abandoned to its request timeout and logged.
func (e *Engine) waitForWorkers(g *errgroup.Group) error {
	waitCh := make(chan error, 1)
	go func() {
		waitCh <- g.Wait()
	}()

	select {
	case err := <-waitCh:
		return err
	case <-time.After(e.shutdownTimeout):
		e.logger.Warn("workers did not exit in time, abandoning stragglers",
			"timeout", e.shutdownTimeout,
		)
		return nil
	}
}

// worker drains the frontier until it is closed or drained. Every popped
// item is balanced with MarkDone no matter how processing went, so one bad
// URL can never stall termination.
func (e *Engine) worker(ctx context.Context, id int) {
	for {
		item, ok := e.frontier.Pop()
		if !ok {
			return
		}
		e.process(ctx, item, id)
		e.frontier.MarkDone()
	}
}

// process runs the per-item state machine: reserve, fetch, classify,
// enqueue discoveries, record results.
func (e *Engine) process(ctx context.Context, item Item, workerID int) {
	// Unexpected failures (extractor panics and the like) are diagnostics,
	// not results: log and treat the URL as producing no further links.
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("unexpected failure processing URL",
				"url", item.URL,
				"panic", r,
			)
		}
	}()

	// Reserve before fetching. The claim is atomic, so a URL queued twice
	// (or raced by two workers) is fetched exactly once and dropped
	// silently on the losing side.
	if !e.visited.Reserve(item.URL) {
		return
	}

	e.logger.Debug("processing URL",
		"url", item.URL,
		"depth", item.Depth,
		"maxDepth", e.maxDepth,
		"worker", workerID,
	)

	res, err := e.fetcher.Fetch(ctx, item.URL)
	if err != nil {
		if ctx.Err() != nil {
			// Cancelled mid-fetch: abandon without a partial record.
			return
		}
		e.logger.Debug("fetch failed", "url", item.URL, "error", err)
		e.writeInvalid([]model.InvalidRecord{{URL: item.URL, Kind: model.ErrorKindDownload}})
		return
	}

	var invalid []model.InvalidRecord
	switch {
	case res.IsHTML():
		invalid = e.processHTML(item, res)
	case res.IsImage():
		e.images.Append(res.MD5(), item.URL)
		e.reportMu.Lock()
		e.report.ImagesFetched++
		e.reportMu.Unlock()
	}

	// The summary counts records actually written, so a failed write must
	// not bump it past what the CSV holds.
	if err := e.sink.WriteValid(item.URL, item.Depth); err != nil {
		e.logger.Error("failed to write valid record", "url", item.URL, "error", err)
	} else {
		e.reportMu.Lock()
		e.report.PagesVisited++
		e.reportMu.Unlock()
	}

	e.writeInvalid(invalid)
}

// processHTML extracts and classifies the page's links, pushes unvisited
// in-domain discoveries at depth+1, and returns the invalid records found
// along the way.
func (e *Engine) processHTML(item Item, res *model.Resource) []model.InvalidRecord {
	links, err := ExtractLinks(bytes.NewReader(res.Body))
	if err != nil {
		e.logger.Error("link extraction failed", "url", item.URL, "error", err)
		return nil
	}

	normalizer, err := NewNormalizer(item.URL)
	if err != nil {
		e.logger.Error("unparsable page URL", "url", item.URL, "error", err)
		return nil
	}

	var invalid []model.InvalidRecord
	discovered := make(map[string]struct{})
	for _, raw := range links {
		canonical, err := normalizer.Normalize(raw)
		if err != nil {
			var linkErr *model.LinkError
			if errors.As(err, &linkErr) {
				invalid = append(invalid, model.InvalidRecord{URL: linkErr.URL, Kind: linkErr.Kind})
			}
			continue
		}
		discovered[canonical] = struct{}{}
	}

	for canonical := range discovered {
		// Cheap pre-filter only; the worker's Reserve is the real gate.
		if !e.visited.Contains(canonical) {
			e.frontier.Push(canonical, item.Depth+1)
		}
	}

	return invalid
}

// writeInvalid records the batch through the sink and updates the counters.
func (e *Engine) writeInvalid(records []model.InvalidRecord) {
	if len(records) == 0 {
		return
	}
	if err := e.sink.WriteInvalid(records); err != nil {
		e.logger.Error("failed to write invalid records", "error", err)
		return
	}
	e.reportMu.Lock()
	for _, rec := range records {
		e.report.CountInvalid(rec.Kind)
	}
	e.reportMu.Unlock()
}
