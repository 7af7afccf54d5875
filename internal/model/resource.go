package model

import (
	"crypto/md5" //nolint:gosec // Exact-duplicate detection only, not integrity.
	"encoding/hex"
	"strings"
)

// Resource is the outcome of fetching one URL: the body together with the
// metadata the worker needs to classify it.
type Resource struct {
	// URL is the fetched URL.
	URL string

	// StatusCode is the HTTP response status code.
	StatusCode int

	// ContentType is the value of the Content-Type response header.
	ContentType string

	// Body holds the raw response bytes, capped at the fetcher's
	// configured maximum body size.
	Body []byte
}

// IsHTML reports whether the resource is an HTML document.
// The Content-Type header may carry parameters (charset), so a substring
// match is used rather than an exact comparison.
func (r *Resource) IsHTML() bool {
	return strings.Contains(r.ContentType, "text/html")
}

// IsImage reports whether the resource is any image type.
func (r *Resource) IsImage() bool {
	return strings.HasPrefix(r.ContentType, "image/")
}

// MD5 returns the hex-encoded MD5 digest of the body. Two resources with
// byte-identical content always hash equal, which is all the duplicate-image
// report needs.
func (r *Resource) MD5() string {
	sum := md5.Sum(r.Body) //nolint:gosec // See import note.
	return hex.EncodeToString(sum[:])
}
