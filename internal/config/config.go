package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Traversal modes.
const (
	ModeDeep = "deep" // recurse into url-tagged entries that look like sitemaps
	ModeFast = "fast" // keep homepage entries only, never recurse into url tags
)

// Config holds all options for a submap run.
type Config struct {
	URL           string        `mapstructure:"url"`
	Mode          string        `mapstructure:"mode"`
	Output        string        `mapstructure:"output"` // path of the domain list file; empty = stdout only
	Workers       int           `mapstructure:"workers"`
	UserAgent     string        `mapstructure:"user_agent"`
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	RobotsTimeout time.Duration `mapstructure:"robots_timeout"`
	LogLevel      string        `mapstructure:"log_level"`
	LogDir        string        `mapstructure:"log_dir"` // empty = console logging only
	Verbose       bool          `mapstructure:"verbose"`
}

// Load reads configuration from an optional YAML file and SUBMAP_* environment
// variables, applying defaults for anything unset. An empty path means no
// config file; an explicit path that cannot be read is an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("mode", ModeDeep)
	v.SetDefault("workers", 4)
	v.SetDefault("user_agent", "Mozilla/5.0 (compatible; SitemapExtractor/1.0)")
	v.SetDefault("fetch_timeout", 15*time.Second)
	v.SetDefault("robots_timeout", 10*time.Second)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("SUBMAP")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Validate checks option combinations that cannot be expressed by flag types.
func (c *Config) Validate() error {
	if c.Mode != ModeDeep && c.Mode != ModeFast {
		return fmt.Errorf("invalid mode %q (want %q or %q)", c.Mode, ModeDeep, ModeFast)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.FetchTimeout <= 0 || c.RobotsTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

// NormalizeBaseURL turns user input into an absolute base URL, prefixing
// https:// when the scheme is missing (bare domains are accepted).
func NormalizeBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty URL")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing URL %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("URL %q has no host", raw)
	}
	return u, nil
}
