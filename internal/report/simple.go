package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rodaine/table"

	"github.com/bananos/webcrawl/internal/model"
)

// SimpleWriter renders the summary as a plain-text table for terminals.
// No ANSI color, so the output pipes cleanly into files and other tools.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the summary table.
func (w *SimpleWriter) Write(report *model.CrawlReport) (int, error) {
	var buf bytes.Buffer

	status := "complete"
	if report.Interrupted {
		status = "interrupted (partial results)"
	}

	fmt.Fprintf(&buf, "Crawl %s: %s\n\n", report.RunID, status)

	tbl := table.New("Metric", "Value").WithWriter(&buf)
	tbl.AddRow("Seed URL", report.SeedURL)
	tbl.AddRow("Max depth", strconv.Itoa(report.MaxDepth))
	tbl.AddRow("Workers", strconv.Itoa(report.Workers))
	tbl.AddRow("Started", report.StartedAt.Format(time.RFC3339))
	tbl.AddRow("Elapsed", report.Elapsed.Round(time.Millisecond).String())
	tbl.AddRow("Pages visited", strconv.Itoa(report.PagesVisited))
	tbl.AddRow("Images fetched", strconv.Itoa(report.ImagesFetched))
	tbl.AddRow("Invalid URLs", strconv.Itoa(report.InvalidTotal()))
	tbl.AddRow("  external domain", strconv.Itoa(report.ExternalDomainCount))
	tbl.AddRow("  download errors", strconv.Itoa(report.DownloadErrorCount))
	tbl.AddRow("  parse errors", strconv.Itoa(report.ParseErrorCount))
	tbl.AddRow("Duplicate image groups", strconv.Itoa(report.DuplicateGroups))
	tbl.AddRow("Duplicate image URLs", strconv.Itoa(report.DuplicateImages))
	tbl.Print()

	return w.output.Write(buf.Bytes())
}
