// Package sink writes crawl results to the three append-only output
// streams: the valid-URL log, the invalid-URL log, and the duplicate-image
// report.
//
// All three streams share a single mutex so that one record set is written
// and flushed as an atomic unit; concurrent workers never interleave
// partial rows. No ordering across workers is guaranteed beyond that
// atomicity.
package sink
