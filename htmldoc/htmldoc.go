// Package htmldoc wraps a parsed HTML page behind a small queryable
// interface so the extraction strategies never depend on a specific parser.
package htmldoc

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/zombar/newslink/models"
)

// Document exposes the anchors of a parsed page. Scope is a CSS selector
// restricting the search to anchors nested under matching elements; an empty
// scope searches the whole page. Hrefs are resolved to absolute URLs.
type Document interface {
	Anchors(scope string) []models.Anchor
}

type document struct {
	doc  *goquery.Document
	base *url.URL
}

// Parse reads HTML from r and returns a Document whose anchor hrefs are
// resolved against baseURL.
func Parse(r io.Reader, baseURL string) (Document, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return &document{doc: doc, base: base}, nil
}

// Anchors returns the page's links, restricted to scope when non-empty.
// Anchors without an href, with a non-http(s) target or with an unparsable
// href are dropped rather than reported as errors.
func (d *document) Anchors(scope string) []models.Anchor {
	sel := d.doc.Find("a")
	if scope != "" {
		sel = d.doc.Find(scope).Find("a")
	}

	var anchors []models.Anchor
	sel.Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}

		abs, err := resolveURL(d.base, href)
		if err != nil {
			return
		}
		if !strings.HasPrefix(abs, "http://") && !strings.HasPrefix(abs, "https://") {
			return
		}

		anchors = append(anchors, models.Anchor{
			Href:          abs,
			Text:          strings.TrimSpace(s.Text()),
			ContainerPath: containerPath(s),
		})
	})

	return anchors
}

// containerPath walks from the anchor up to the document root collecting
// element tag names, outermost first.
func containerPath(s *goquery.Selection) []string {
	if len(s.Nodes) == 0 {
		return nil
	}

	var tags []string
	for n := s.Nodes[0].Parent; n != nil; n = n.Parent {
		if n.Type == html.ElementNode {
			tags = append(tags, n.Data)
		}
	}

	// Reverse so the outermost ancestor comes first
	for i, j := 0, len(tags)-1; i < j; i, j = i+1, j-1 {
		tags[i], tags[j] = tags[j], tags[i]
	}
	return tags
}

// resolveURL resolves a potentially relative URL against a base URL
func resolveURL(base *url.URL, href string) (string, error) {
	parsed, err := url.Parse(href)
	if err != nil {
		return "", err
	}

	resolved := base.ResolveReference(parsed)
	return resolved.String(), nil
}
