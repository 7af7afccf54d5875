package model

import "fmt"

// ErrorKind classifies why a URL could not become crawlable.
// The set is closed: every invalid URL maps to exactly one kind, and the
// kind's name is what ends up in the invalid-URL CSV.
type ErrorKind int

const (
	// ErrorKindExternalDomain marks a URL that resolved correctly but points
	// outside the seed's host. External links are recorded, never fetched.
	ErrorKindExternalDomain ErrorKind = iota

	// ErrorKindDownload marks a URL whose fetch failed: DNS, connection,
	// timeout, or a non-2xx status. All transport failures collapse into
	// this one kind.
	ErrorKindDownload

	// ErrorKindParse marks a URL that could not be parsed, either as found
	// in the document or after resolution.
	ErrorKindParse
)

// String returns the name written to the invalid-URL CSV.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindExternalDomain:
		return "ExternalDomain"
	case ErrorKindDownload:
		return "DownloadError"
	case ErrorKindParse:
		return "ParseError"
	default:
		return "Unknown"
	}
}

// LinkError is the classified rejection of a single URL.
// URL holds the string to record: the raw link for parse failures on input,
// the resolved form otherwise.
type LinkError struct {
	URL  string
	Kind ErrorKind
}

// Error implements the error interface.
func (e *LinkError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.URL)
}

// InvalidRecord is one row of the invalid-URL log. A URL discovered from
// several parent pages may be recorded more than once; the log is not
// deduplicated.
type InvalidRecord struct {
	URL  string
	Kind ErrorKind
}

// ImageRecord pairs a fetched image URL with the hash of its bytes.
// One record is appended per successfully fetched image resource.
type ImageRecord struct {
	Hash string
	URL  string
}

// DuplicateGroup is one entry of the duplicate-image report: a content hash
// observed at two or more URLs.
type DuplicateGroup struct {
	Hash string
	URLs []string
}
