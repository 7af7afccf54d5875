package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/bananos/webcrawl/internal/model"
)

// Sink receives terminal crawl results. Implementations must be safe for
// concurrent use; each call writes one atomic record set.
type Sink interface {
	// WriteValid appends one row to the valid-URL log.
	WriteValid(url string, depth int) error

	// WriteInvalid appends the given records to the invalid-URL log as one
	// atomic record set. An empty slice is a no-op.
	WriteInvalid(records []model.InvalidRecord) error

	// WriteDuplicateImages writes the duplicate-image report in one pass.
	// Called once, at shutdown, by the orchestrator.
	WriteDuplicateImages(groups []model.DuplicateGroup) error

	// Close flushes and closes all streams.
	Close() error
}

// validRow is one row of the valid-URL file: url,depth with no header.
type validRow struct {
	URL   string `csv:"url"`
	Depth string `csv:"depth"`
}

// invalidRow is one row of the invalid-URL file: url,errorKind with no header.
type invalidRow struct {
	URL  string `csv:"url"`
	Kind string `csv:"error"`
}

// duplicateImageRow is one row of the duplicate-image file. Unlike the
// other two streams, this file carries a header: URL,md5.
type duplicateImageRow struct {
	URL string `csv:"URL"`
	MD5 string `csv:"md5"`
}

// CSV is the file-backed Sink. Three CSV files, one shared mutex.
type CSV struct {
	mu sync.Mutex

	validFile   *os.File
	invalidFile *os.File
	dupFile     *os.File

	valid   *gocsv.SafeCSVWriter
	invalid *gocsv.SafeCSVWriter
	dup     *gocsv.SafeCSVWriter
}

// OpenCSV creates (truncating) the three output files. Failure to open any
// of them is fatal to the run, so the caller gets an error before any work
// starts.
func OpenCSV(validPath, invalidPath, dupImagesPath string) (*CSV, error) {
	validFile, err := os.Create(validPath)
	if err != nil {
		return nil, fmt.Errorf("open valid-URL file: %w", err)
	}

	invalidFile, err := os.Create(invalidPath)
	if err != nil {
		validFile.Close()
		return nil, fmt.Errorf("open invalid-URL file: %w", err)
	}

	dupFile, err := os.Create(dupImagesPath)
	if err != nil {
		validFile.Close()
		invalidFile.Close()
		return nil, fmt.Errorf("open duplicate-image file: %w", err)
	}

	return &CSV{
		validFile:   validFile,
		invalidFile: invalidFile,
		dupFile:     dupFile,
		valid:       gocsv.NewSafeCSVWriter(csv.NewWriter(validFile)),
		invalid:     gocsv.NewSafeCSVWriter(csv.NewWriter(invalidFile)),
		dup:         gocsv.NewSafeCSVWriter(csv.NewWriter(dupFile)),
	}, nil
}

// WriteValid appends url,depth to the valid-URL log and flushes.
func (s *CSV) WriteValid(url string, depth int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := []validRow{{URL: url, Depth: strconv.Itoa(depth)}}
	if err := gocsv.MarshalCSVWithoutHeaders(&rows, s.valid); err != nil {
		return fmt.Errorf("write valid record: %w", err)
	}
	return nil
}

// WriteInvalid appends one row per record to the invalid-URL log and
// flushes, all under one critical section.
func (s *CSV) WriteInvalid(records []model.InvalidRecord) error {
	if len(records) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]invalidRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, invalidRow{URL: rec.URL, Kind: rec.Kind.String()})
	}
	if err := gocsv.MarshalCSVWithoutHeaders(&rows, s.invalid); err != nil {
		return fmt.Errorf("write invalid records: %w", err)
	}
	return nil
}

// WriteDuplicateImages writes the header row followed by one row per
// (url, hash) pair of every group.
func (s *CSV) WriteDuplicateImages(groups []model.DuplicateGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]duplicateImageRow, 0)
	for _, group := range groups {
		for _, url := range group.URLs {
			rows = append(rows, duplicateImageRow{URL: url, MD5: group.Hash})
		}
	}
	if err := gocsv.MarshalCSV(&rows, s.dup); err != nil {
		return fmt.Errorf("write duplicate-image report: %w", err)
	}
	return nil
}

// Close flushes and closes the three files. The first error wins but all
// files are closed regardless.
func (s *CSV) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.valid.Flush()
	s.invalid.Flush()
	s.dup.Flush()

	var firstErr error
	for _, f := range []*os.File{s.validFile, s.invalidFile, s.dupFile} {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
