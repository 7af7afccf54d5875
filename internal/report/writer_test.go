package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bananos/webcrawl/internal/model"
)

func sampleReport() *model.CrawlReport {
	r := model.NewCrawlReport("http://x.test/", 2, 4)
	r.Elapsed = 1500 * time.Millisecond
	r.PagesVisited = 12
	r.ImagesFetched = 3
	r.ExternalDomainCount = 2
	r.DownloadErrorCount = 1
	r.DuplicateGroups = 1
	r.DuplicateImages = 2
	return r
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewSimpleWriter(&buf).Write(sampleReport())
	if err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
	}

	out := buf.String()
	for _, want := range []string{
		"http://x.test/",
		"Pages visited",
		"12",
		"complete",
		"1.5s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSimpleWriterInterrupted(t *testing.T) {
	t.Parallel()

	r := sampleReport()
	r.Interrupted = true

	var buf bytes.Buffer
	if _, err := NewSimpleWriter(&buf).Write(r); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "interrupted") {
		t.Errorf("expected interrupted status:\n%s", buf.String())
	}
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(sampleReport()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# Crawl Report",
		"## Results",
		"`http://x.test/`",
		"| Pages visited | 12 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

type failWriter struct{}

func (failWriter) Write(*model.CrawlReport) (int, error) {
	return 0, errors.New("boom")
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("fans out to all writers", func(t *testing.T) {
		t.Parallel()

		var a, b bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&a), NewMarkdownWriter(&b))
		if _, err := mw.Write(sampleReport()); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if a.Len() == 0 || b.Len() == 0 {
			t.Error("both writers should receive the report")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var after bytes.Buffer
		mw := NewMultiWriter(failWriter{}, NewSimpleWriter(&after))
		if _, err := mw.Write(sampleReport()); err == nil {
			t.Fatal("expected an error")
		}
		if after.Len() != 0 {
			t.Error("writers after a failure should not run")
		}
	})
}
