package crawler

import (
	"net/url"
	"path"
	"strings"

	"github.com/bananos/webcrawl/internal/model"
)

// Normalizer resolves raw links found on a page into canonical absolute
// URLs, or rejects them with a classified model.LinkError. It is pure and
// safe for concurrent use: all state is the immutable parent URL.
type Normalizer struct {
	parent *url.URL
}

// NewNormalizer creates a Normalizer for links discovered on parentURL.
func NewNormalizer(parentURL string) (*Normalizer, error) {
	u, err := url.Parse(parentURL)
	if err != nil {
		return nil, err
	}
	return &Normalizer{parent: u}, nil
}

// Normalize canonicalizes rawLink:
//
//  1. Parse failures are rejected as ParseError.
//  2. A missing scheme or host is inherited from the parent page. Opaque
//     forms (mailto:, javascript:) are rewritten as paths first so the
//     inheritance reaches them too.
//  3. Parent-directory segments ("..") are collapsed against the parent's
//     path. The resolution is textual; no filesystem entry is consulted.
//  4. The fragment is dropped; scheme, host, path and query are retained.
//  5. The resolved string is re-parsed; failures are rejected as ParseError.
//  6. A host other than the parent's is rejected as ExternalDomain.
//
// Normalization is idempotent: feeding a canonical URL back in returns it
// unchanged.
func (n *Normalizer) Normalize(rawLink string) (string, error) {
	u, err := url.Parse(rawLink)
	if err != nil {
		return "", &model.LinkError{URL: rawLink, Kind: model.ErrorKindParse}
	}

	// mailto: and script links parse as opaque with an empty host, and
	// URL.String ignores Host while Opaque is set. Moving the payload into
	// the path lets these links inherit the parent host like any other.
	if u.Opaque != "" {
		u.Path = u.Opaque
		u.Opaque = ""
	}

	if u.Scheme == "" {
		u.Scheme = n.parent.Scheme
	}
	if u.Host == "" {
		u.Host = n.parent.Host
	}

	// Collapse ".." segments against the parent page's path. Only paths
	// that actually contain a parent-directory reference are rewritten;
	// everything else keeps its original shape.
	if strings.Contains(u.Path, "..") {
		u.Path = path.Clean("/" + n.parent.Path + "/" + u.Path)
	}

	u.Fragment = ""

	resolved := u.String()
	v, err := url.Parse(resolved)
	if err != nil {
		return "", &model.LinkError{URL: resolved, Kind: model.ErrorKindParse}
	}

	if v.Host != n.parent.Host {
		return "", &model.LinkError{URL: resolved, Kind: model.ErrorKindExternalDomain}
	}

	return resolved, nil
}
