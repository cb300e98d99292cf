// Package verify checks that a generated gallery site has no dangling local links.
package verify

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/gallerybuilder/internal/foundation/errors"
)

// Link is a reference found in an HTML page.
type Link struct {
	URL       string
	Tag       string
	Attribute string
}

// Local reports whether the link points into the site rather than at another host.
func (l Link) Local() bool {
	u, err := url.Parse(l.URL)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// page is the parsed form of one HTML file.
type page struct {
	links []Link
	ids   map[string]struct{}
}

var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"img":    "src",
	"script": "src",
	"source": "src",
	"video":  "src",
	"audio":  "src",
}

// parsePage collects every href/src reference, in document order, and the
// element ids anchors can point at.
func parsePage(r io.Reader) (*page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.ValidationError("failed to parse HTML").WithCause(err).Build()
	}

	p := &page{ids: make(map[string]struct{})}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id := attr(n, "id"); id != "" {
				p.ids[id] = struct{}{}
			}
			if key, ok := linkAttrs[n.Data]; ok {
				if v := strings.TrimSpace(attr(n, key)); v != "" {
					p.links = append(p.links, Link{URL: v, Tag: n.Data, Attribute: key})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return p, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
