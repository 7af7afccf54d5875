package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/bananos/webcrawl/internal/model"
)

// MarkdownWriter renders the summary as GitHub-flavored Markdown, suitable
// for dropping into run logs or documentation.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write renders the summary document.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + report.RunID + "`"},
			{"Seed URL", "`" + report.SeedURL + "`"},
			{"Max depth", strconv.Itoa(report.MaxDepth)},
			{"Workers", strconv.Itoa(report.Workers)},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", report.Elapsed.Round(time.Millisecond).String()},
			{"Status", statusText(report)},
		},
	})
	md.PlainText("")

	md.H2("Results")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Pages visited", strconv.Itoa(report.PagesVisited)},
			{"Images fetched", strconv.Itoa(report.ImagesFetched)},
			{"Invalid URLs (total)", strconv.Itoa(report.InvalidTotal())},
			{"External domain", strconv.Itoa(report.ExternalDomainCount)},
			{"Download errors", strconv.Itoa(report.DownloadErrorCount)},
			{"Parse errors", strconv.Itoa(report.ParseErrorCount)},
			{"Duplicate image groups", strconv.Itoa(report.DuplicateGroups)},
			{"Duplicate image URLs", strconv.Itoa(report.DuplicateImages)},
		},
	})
	md.PlainText("")

	return len(md.String()), md.Build()
}

// statusText describes how the run ended.
func statusText(report *model.CrawlReport) string {
	if report.Interrupted {
		return "interrupted (partial results)"
	}
	return "complete"
}
