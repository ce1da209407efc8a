package robots

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/temoto/robotstxt"
)

// Resolver finds the seed sitemap URLs for a site by reading the Sitemap
// directives of its robots.txt.
type Resolver struct {
	client    *http.Client
	userAgent string
}

// NewResolver creates a Resolver with its own HTTP client and timeout.
func NewResolver(userAgent string, timeout time.Duration) *Resolver {
	return &Resolver{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Seeds returns the sitemap URLs listed in {base}/robots.txt, in file order.
// When robots.txt is unreachable, unparsable, or lists no sitemaps, the single
// conventional {base}/sitemap.xml is returned instead. The fallback is not
// probed for existence; the traversal discovers a missing sitemap naturally.
func (r *Resolver) Seeds(ctx context.Context, base *url.URL) []string {
	if seeds := r.fromRobots(ctx, base); len(seeds) > 0 {
		log.Info().Int("count", len(seeds)).Str("first", seeds[0]).Msg("found sitemaps in robots.txt")
		return seeds
	}
	fallback := base.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	log.Warn().Str("fallback", fallback).Msg("no sitemaps in robots.txt, trying conventional path")
	return []string{fallback}
}

func (r *Resolver) fromRobots(ctx context.Context, base *url.URL) []string {
	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"}).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("url", robotsURL).Msg("robots.txt unreachable")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Debug().Int("status", resp.StatusCode).Str("url", robotsURL).Msg("robots.txt not available")
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		log.Debug().Err(err).Str("url", robotsURL).Msg("robots.txt unparsable")
		return nil
	}
	return data.Sitemaps
}
