package sitemap

import (
	"net/url"
	"strings"
)

// Policy decides what the traversal does with a url-tagged entry's loc.
// Entries tagged <sitemap> are structural and always followed; policies are
// never consulted for them.
type Policy interface {
	// FollowURL reports whether loc should be enqueued as a nested sitemap.
	FollowURL(loc string) bool
	// KeepURL reports whether loc's domain should be recorded. Only consulted
	// when FollowURL returned false.
	KeepURL(loc string) bool
}

// DeepPolicy maximizes domain recall: url-tagged entries that look like
// sitemap documents are followed as nested sitemaps, everything else is
// recorded as a page.
type DeepPolicy struct{}

func (DeepPolicy) FollowURL(loc string) bool { return IsSitemapURL(loc) }

func (DeepPolicy) KeepURL(string) bool { return true }

// FastPolicy trades recall for speed: url-tagged entries are terminal, and
// only homepages contribute domains.
type FastPolicy struct{}

func (FastPolicy) FollowURL(string) bool { return false }

func (FastPolicy) KeepURL(loc string) bool { return IsHomepage(loc) }

// IsSitemapURL reports whether a URL found in a <url> entry is likely another
// sitemap document rather than a page.
func IsSitemapURL(loc string) bool {
	u := strings.ToLower(loc)
	return strings.HasSuffix(u, ".xml") || strings.HasSuffix(u, ".xml.gz") || strings.Contains(u, "sitemap")
}

// IsHomepage reports whether a URL points at the root of its host: the path is
// empty or exactly "/". Query string and fragment are irrelevant.
func IsHomepage(loc string) bool {
	u, err := url.Parse(loc)
	if err != nil {
		return false
	}
	return u.Path == "" || u.Path == "/"
}
