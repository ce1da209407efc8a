package sitemap

import (
	"net/url"
	"strings"

	"github.com/beevik/etree"
)

// Tag local names that carry meaning in a sitemap document. A <sitemap> entry
// points at another sitemap document; a <url> entry points at a page.
const (
	TagSitemap = "sitemap"
	TagURL     = "url"
)

// LocalName returns the tag name of el without any namespace prefix. Sitemap
// documents commonly declare http://www.sitemaps.org/schemas/sitemap/0.9, but
// entries must resolve the same whichever namespace, or none, is declared.
func LocalName(el *etree.Element) string {
	return el.Tag
}

// Entries returns the direct child elements of a sitemap document root.
func Entries(root *etree.Element) []*etree.Element {
	return root.ChildElements()
}

// FindLoc returns the trimmed text of the first direct child of el whose local
// name is "loc". The second return is false when no such child exists or its
// text is empty after trimming.
func FindLoc(el *etree.Element) (string, bool) {
	for _, child := range el.ChildElements() {
		if LocalName(child) != "loc" {
			continue
		}
		loc := strings.TrimSpace(child.Text())
		if loc == "" {
			return "", false
		}
		return loc, true
	}
	return "", false
}

// Netloc extracts the host[:port] component of a URL. Malformed or host-less
// URLs yield the empty string; callers drop those silently.
func Netloc(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
