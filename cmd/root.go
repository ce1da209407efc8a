package cmd

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/cwillem/submap/internal/config"
	"github.com/cwillem/submap/internal/logging"
	"github.com/cwillem/submap/internal/pipeline"
)

var (
	cfg        *config.Config
	configFile string

	flagURL           string
	flagMode          string
	flagOutput        string
	flagWorkers       int
	flagUserAgent     string
	flagFetchTimeout  time.Duration
	flagRobotsTimeout time.Duration
	flagLogLevel      string
	flagLogDir        string
	flagVerbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "submap",
	Short: "Discover subdomains through a site's sitemap hierarchy",
	Long: `submap walks a site's XML sitemap tree, starting from robots.txt, and
reports every distinct domain and subdomain it finds in page URLs.

It supports two modes:
  - deep (default): recurses into <url> entries that look like nested
    sitemaps, maximizing how many subdomains are discovered.
  - fast: treats every <url> entry as terminal and keeps homepage URLs
    only, trading recall for speed.`,
	PreRunE: setup,
	RunE:    run,
}

func init() {
	rootCmd.Flags().StringVarP(&flagURL, "url", "u", "", "target domain or URL (required)")
	rootCmd.Flags().StringVarP(&flagMode, "mode", "m", config.ModeDeep, "traversal mode (deep|fast)")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write the domain list to this file as well")
	rootCmd.Flags().IntVarP(&flagWorkers, "workers", "c", 4, "number of parallel sitemap fetches")
	rootCmd.Flags().StringVar(&flagUserAgent, "user-agent", "", "custom User-Agent string")
	rootCmd.Flags().DurationVar(&flagFetchTimeout, "fetch-timeout", 15*time.Second, "timeout per sitemap fetch")
	rootCmd.Flags().DurationVar(&flagRobotsTimeout, "robots-timeout", 10*time.Second, "timeout for the robots.txt fetch")
	rootCmd.Flags().StringVar(&configFile, "config", "", "path to a YAML config file")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "log level (trace|debug|info|warn|error)")
	rootCmd.Flags().StringVar(&flagLogDir, "log-dir", "", "also write logs to a rotating file in this directory")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log every scanned sitemap instead of showing a progress bar")

	rootCmd.MarkFlagRequired("url")
}

// setup loads the config file (if any) and lets explicitly set flags override
// it, then initializes logging.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}

	cfg.URL = flagURL
	flags := cmd.Flags()
	if flags.Changed("mode") {
		cfg.Mode = flagMode
	}
	if flags.Changed("output") {
		cfg.Output = flagOutput
	}
	if flags.Changed("workers") {
		cfg.Workers = flagWorkers
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = flagUserAgent
	}
	if flags.Changed("fetch-timeout") {
		cfg.FetchTimeout = flagFetchTimeout
	}
	if flags.Changed("robots-timeout") {
		cfg.RobotsTimeout = flagRobotsTimeout
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("log-dir") {
		cfg.LogDir = flagLogDir
	}
	if flagVerbose {
		cfg.Verbose = true
		if !flags.Changed("log-level") {
			cfg.LogLevel = "debug"
		}
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	return logging.Setup(cfg.LogLevel, cfg.LogDir)
}

func run(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	return pipeline.Run(ctx, cfg)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
