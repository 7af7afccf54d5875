// Package crawler implements the concurrent crawl engine.
//
// # Architecture
//
// The Engine owns all shared state and coordinates a fixed pool of workers:
//
//   - Frontier: depth-tagged work queue with join semantics. Termination is
//     detected when every pushed item has been marked done and the queue is
//     empty, not by a bare empty-check.
//   - VisitedSet / ImageIndex: the deduplication state shared by workers.
//   - Normalizer: pure resolution of discovered links against their parent
//     page, producing a canonical URL or a classified rejection.
//   - Fetcher: HTTP retrieval, the only blocking operation. Workers never
//     hold shared locks while fetching.
//   - ExtractLinks: x/net/html DOM walk collecting anchor and image targets.
//
// Workers pull one item at a time, reserve the URL in the visited set,
// fetch, classify, push newly discovered in-domain links at depth+1, and
// write results through the sink. Per-URL failures are data (invalid
// records), never engine failures; unexpected errors are caught at the
// worker boundary and logged so a single bad URL cannot stall termination.
//
// # Usage
//
//	engine := crawler.NewEngine(fetcher, sink,
//		crawler.WithMaxDepth(2),
//		crawler.WithWorkers(runtime.NumCPU()),
//	)
//	report, err := engine.Run(ctx, "http://example.test/")
package crawler
