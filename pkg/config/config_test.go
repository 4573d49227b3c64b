package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Empty(t, cfg.TikTok.Cookies)
	assert.NotEmpty(t, cfg.TikTok.UserAgent)
	assert.Equal(t, 0, cfg.Fetch.PostLimit)
	assert.Equal(t, 30*time.Second, cfg.Fetch.RequestTimeout)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	assert.Equal(t, 3, cfg.Retry.KindLimit)
	assert.Equal(t, 2*time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, 10*time.Second, cfg.Retry.MaxDelay)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.NoError(t, cfg.Validate(), "defaults must validate without a cookie")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"negative post limit", func(c *Config) { c.Fetch.PostLimit = -1 }, true},
		{"zero timeout", func(c *Config) { c.Fetch.RequestTimeout = 0 }, true},
		{"zero rpm", func(c *Config) { c.RateLimit.RequestsPerMinute = 0 }, true},
		{"negative retries", func(c *Config) { c.Retry.MaxRetries = -1 }, true},
		{"zero kind limit", func(c *Config) { c.Retry.KindLimit = 0 }, true},
		{"max delay below base", func(c *Config) { c.Retry.MaxDelay = time.Second }, true},
		{"bad multiplier", func(c *Config) { c.Retry.Multiplier = 0.5 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"http proxy", func(c *Config) { c.Proxy.URL = "http://127.0.0.1:8080" }, false},
		{"socks proxy", func(c *Config) { c.Proxy.URL = "socks5://127.0.0.1:1080" }, false},
		{"bad proxy scheme", func(c *Config) { c.Proxy.URL = "ftp://127.0.0.1" }, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := DefaultConfig()
			test.mutate(cfg)
			err := cfg.Validate()
			if test.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
tiktok:
  cookies:
    - "msToken=abc123; tt_webid=42"
  user_agent: "TestAgent/1.0"
proxy:
  url: "socks5://127.0.0.1:9050"
fetch:
  post_limit: 25
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, []string{"msToken=abc123; tt_webid=42"}, cfg.TikTok.Cookies)
	assert.Equal(t, "TestAgent/1.0", cfg.TikTok.UserAgent)
	assert.Equal(t, "socks5://127.0.0.1:9050", cfg.Proxy.URL)
	assert.Equal(t, 25, cfg.Fetch.PostLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TTSCRAPER_COOKIE", "msToken=envtoken")
	t.Setenv("TTSCRAPER_PROXY", "http://proxy.local:3128")
	t.Setenv("TTSCRAPER_POST_LIMIT", "7")
	t.Setenv("TTSCRAPER_LOG_LEVEL", "warn")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, []string{"msToken=envtoken"}, cfg.TikTok.Cookies)
	assert.Equal(t, "http://proxy.local:3128", cfg.Proxy.URL)
	assert.Equal(t, 7, cfg.Fetch.PostLimit)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"cookies":   []string{"sessionid=1", "msToken=2"},
		"proxy":     "socks5://localhost:1080",
		"limit":     10,
		"log-level": "debug",
	})

	assert.Equal(t, []string{"sessionid=1", "msToken=2"}, cfg.TikTok.Cookies)
	assert.Equal(t, "socks5://localhost:1080", cfg.Proxy.URL)
	assert.Equal(t, 10, cfg.Fetch.PostLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fetch:\n  post_limit: 5\n"), 0600))

	t.Setenv("TTSCRAPER_POST_LIMIT", "15")

	// Flags win over env, env wins over file
	cfg, err := Load(path, map[string]interface{}{"limit": 20})
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Fetch.PostLimit)

	cfg, err = Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Fetch.PostLimit)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.TikTok.Cookies = []string{"msToken=persisted"}
	cfg.Fetch.PostLimit = 3
	require.NoError(t, cfg.Save(path))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, cfg.TikTok.Cookies, loaded.TikTok.Cookies)
	assert.Equal(t, 3, loaded.Fetch.PostLimit)
}
