package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/cwillem/submap/internal/config"
	"github.com/cwillem/submap/internal/fetcher"
	"github.com/cwillem/submap/internal/robots"
	"github.com/cwillem/submap/internal/sitemap"
	"github.com/cwillem/submap/internal/traverse"
	"github.com/cwillem/submap/internal/writer"
)

// Run executes a full discovery run: resolve seed sitemaps from robots.txt,
// traverse the sitemap hierarchy under the configured policy, and emit the
// sorted domain list to stdout and, optionally, to a file.
func Run(ctx context.Context, cfg *config.Config) error {
	base, err := config.NormalizeBaseURL(cfg.URL)
	if err != nil {
		return err
	}

	resolver := robots.NewResolver(cfg.UserAgent, cfg.RobotsTimeout)
	seeds := resolver.Seeds(ctx, base)

	var policy sitemap.Policy
	switch cfg.Mode {
	case config.ModeFast:
		policy = sitemap.FastPolicy{}
	default:
		policy = sitemap.DeepPolicy{}
	}

	// The bar renders on stderr so the domain list on stdout stays pipeable.
	// In verbose mode the per-sitemap log lines replace it.
	var bar *progressbar.ProgressBar
	if !cfg.Verbose {
		bar = newSpinner()
	}

	engine := &traverse.Engine{
		Fetcher: fetcher.New(cfg.UserAgent, cfg.FetchTimeout),
		Policy:  policy,
		Workers: cfg.Workers,
		OnProgress: func(ev traverse.Event) {
			if bar == nil {
				log.Info().Str("sitemap", ev.URL).Int("processed", ev.Processed).Int("domains", ev.Domains).Msg("scanned")
				return
			}
			bar.Describe(fmt.Sprintf("scanning sitemaps (%d domains)", ev.Domains))
			_ = bar.Add(1)
		},
	}

	result, err := engine.Run(ctx, seeds)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}

	st := result.Stats
	log.Info().
		Int("sitemaps", st.Processed).
		Int("failed", st.Failed).
		Int("network_errors", st.NetworkErrors).
		Int("decode_errors", st.DecodeErrors).
		Int("parse_errors", st.ParseErrors).
		Int("domains", len(result.Domains)).
		Msg("traversal complete")

	if len(result.Domains) == 0 {
		log.Warn().Msg("no subdomains found; the sitemaps may be empty or blocked")
		return nil
	}

	if err := writer.Render(os.Stdout, result.Domains); err != nil {
		return err
	}
	if cfg.Output != "" {
		if err := writer.WriteFile(cfg.Output, result.Domains); err != nil {
			return err
		}
		log.Info().Str("path", cfg.Output).Msg("domain list written")
	}
	return nil
}

func newSpinner() *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("scanning sitemaps"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSpinnerType(14),
	)
}
