package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwillem/submap/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.ModeDeep, cfg.Mode)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 10*time.Second, cfg.RobotsTimeout)
	assert.Equal(t, "Mozilla/5.0 (compatible; SitemapExtractor/1.0)", cfg.UserAgent)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`mode: fast
workers: 2
fetch_timeout: 5s
user_agent: custom/1.0
`), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, config.ModeFast, cfg.Mode)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "custom/1.0", cfg.UserAgent)
	// Unset keys keep their defaults.
	assert.Equal(t, 10*time.Second, cfg.RobotsTimeout)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	cfg.Mode = "turbo"
	assert.Error(t, cfg.Validate())

	cfg.Mode = config.ModeFast
	cfg.Workers = 0
	assert.Error(t, cfg.Validate())
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "example.com", want: "https://example.com"},
		{in: "  example.com  ", want: "https://example.com"},
		{in: "http://example.com/", want: "http://example.com/"},
		{in: "https://sub.example.com:8080", want: "https://sub.example.com:8080"},
		{in: "", wantErr: true},
		{in: "https://", wantErr: true},
	}
	for _, tt := range tests {
		u, err := config.NormalizeBaseURL(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, u.String(), "input %q", tt.in)
	}
}
