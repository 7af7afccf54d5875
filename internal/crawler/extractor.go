package crawler

import (
	"io"

	"golang.org/x/net/html"
)

// ExtractLinks returns every anchor href and image src attribute value from
// an HTML document, in document order, without any filtering or resolution.
// Classification of the returned values is the Normalizer's job.
//
// The x/net/html parser tolerates malformed markup, so an error here is
// rare and usually means the reader itself failed.
func ExtractLinks(body io.Reader) ([]string, error) {
	doc, err := html.Parse(body)
	if err != nil {
		return nil, err
	}

	var links []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "a":
				if href, ok := attrValue(n, "href"); ok {
					links = append(links, href)
				}
			case "img":
				if src, ok := attrValue(n, "src"); ok {
					links = append(links, src)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

// attrValue retrieves an attribute value from an HTML node.
// The second return value distinguishes a missing attribute from an empty one.
func attrValue(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}
