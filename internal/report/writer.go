package report

import (
	"io"

	"github.com/bananos/webcrawl/internal/model"
)

// Writer outputs a crawl summary to some destination.
type Writer interface {
	// Write renders the report. Returns the number of bytes written and
	// any error encountered.
	Write(report *model.CrawlReport) (int, error)
}

// MultiWriter writes the same report to several Writers in order, stopping
// on the first error. Not io.MultiWriter: these writers take reports, not
// raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer fanning out to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the report through every writer, returning the total bytes
// written.
func (m *MultiWriter) Write(report *model.CrawlReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the output destination shared by all writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
