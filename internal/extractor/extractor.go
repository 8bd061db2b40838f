package extractor

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// Defaults for an Extractor.
const (
	// DefaultMaxLinks caps how many titles are taken from one page.
	DefaultMaxLinks = 200

	// DefaultArticlePrefix is the href prefix of content-article links.
	DefaultArticlePrefix = "/wiki/"
)

// Extractor extracts content-article link titles from HTML.
//
// Design decision: We parse with golang.org/x/net/html rather than scanning
// for href attributes with a regex, because article pages contain malformed
// markup and attributes in arbitrary order.
type Extractor struct {
	maxLinks int
	prefix   string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxLinks sets the maximum number of titles returned per page.
// Values <= 0 are ignored.
func WithMaxLinks(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxLinks = n
		}
	}
}

// WithArticlePrefix sets the href prefix identifying article links.
func WithArticlePrefix(prefix string) Option {
	return func(e *Extractor) {
		if prefix != "" {
			e.prefix = prefix
		}
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		maxLinks: DefaultMaxLinks,
		prefix:   DefaultArticlePrefix,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the content-article titles linked from the document,
// in document order, truncated to the configured cap.
// Repeated links are kept; the store ignores duplicate edges.
func (e *Extractor) Extract(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	titles := make([]string, 0)

	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "a" {
			if title, ok := e.titleFromHref(getAttr(n, "href")); ok {
				titles = append(titles, title)
				if len(titles) >= e.maxLinks {
					return false
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(doc)

	return titles, nil
}

// titleFromHref converts an article href into a normalized title.
// It reports false for links that are not content-article links.
func (e *Extractor) titleFromHref(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if !strings.HasPrefix(href, e.prefix) {
		return "", false
	}

	raw := strings.TrimPrefix(href, e.prefix)
	if i := strings.IndexAny(raw, "#?"); i >= 0 {
		raw = raw[:i]
	}
	if raw == "" {
		return "", false
	}

	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", false
	}

	// Namespaced pages (Special:, File:, Категорія:) are administrative.
	// The check runs on the decoded title, so an escaped colon counts and
	// a colon in the stripped fragment or query does not.
	if strings.Contains(decoded, ":") {
		return "", false
	}

	title := NormalizeTitle(decoded)
	if title == "" {
		return "", false
	}
	return title, true
}

// NormalizeTitle maps a title to the form stored in the link graph:
// underscores become spaces, surrounding space is trimmed and the text
// is NFC normalized.
func NormalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "_", " ")
	title = strings.TrimSpace(title)
	return norm.NFC.String(title)
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
