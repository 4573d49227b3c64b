package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the TikTok post fetcher
type Config struct {
	// TikTok session settings
	TikTok TikTokConfig `yaml:"tiktok" json:"tiktok"`

	// Proxy settings
	Proxy ProxyConfig `yaml:"proxy" json:"proxy"`

	// Fetch settings
	Fetch FetchConfig `yaml:"fetch" json:"fetch"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Retry configuration
	Retry RetryConfig `yaml:"retry" json:"retry"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TikTokConfig holds TikTok-specific configuration
type TikTokConfig struct {
	// Cookies are browser cookie strings joined verbatim; when empty the
	// session bootstrapper probes the profile page for guest cookies.
	Cookies   []string `yaml:"cookies" json:"cookies"`
	UserAgent string   `yaml:"user_agent" json:"user_agent"`
}

// ProxyConfig holds outbound proxy configuration
type ProxyConfig struct {
	// URL selects the proxy: http(s):// for a CONNECT tunnel,
	// socks5:// for a SOCKS proxy, empty for a direct connection.
	URL string `yaml:"url" json:"url"`
}

// FetchConfig holds fetch-specific configuration
type FetchConfig struct {
	// PostLimit caps the number of returned posts; 0 means unbounded
	PostLimit      int           `yaml:"post_limit" json:"post_limit"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// RetryConfig holds retry configuration
type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries" json:"max_retries"`
	KindLimit  int           `yaml:"kind_limit" json:"kind_limit"`
	BaseDelay  time.Duration `yaml:"base_delay" json:"base_delay"`
	MaxDelay   time.Duration `yaml:"max_delay" json:"max_delay"`
	Multiplier float64       `yaml:"multiplier" json:"multiplier"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		TikTok: TikTokConfig{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
		},
		Fetch: FetchConfig{
			PostLimit:      0,
			RequestTimeout: 30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 60,
		},
		Retry: RetryConfig{
			MaxRetries: 5,
			KindLimit:  3,
			BaseDelay:  2 * time.Second,
			MaxDelay:   10 * time.Second,
			Multiplier: 2.0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if cookie := os.Getenv("TTSCRAPER_COOKIE"); cookie != "" {
		c.TikTok.Cookies = []string{cookie}
	}
	if userAgent := os.Getenv("TTSCRAPER_USER_AGENT"); userAgent != "" {
		c.TikTok.UserAgent = userAgent
	}
	if proxyURL := os.Getenv("TTSCRAPER_PROXY"); proxyURL != "" {
		c.Proxy.URL = proxyURL
	}

	if limit := os.Getenv("TTSCRAPER_POST_LIMIT"); limit != "" {
		var val int
		fmt.Sscanf(limit, "%d", &val)
		if val > 0 {
			c.Fetch.PostLimit = val
		}
	}

	if rpm := os.Getenv("TTSCRAPER_REQUESTS_PER_MINUTE"); rpm != "" {
		var val int
		fmt.Sscanf(rpm, "%d", &val)
		if val > 0 {
			c.RateLimit.RequestsPerMinute = val
		}
	}

	if logLevel := os.Getenv("TTSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".ttscraper.yaml",
		".ttscraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "ttscraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "ttscraper", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".ttscraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. A cookie is deliberately
// not required: fetches degrade to a bootstrapped guest session without one.
func (c *Config) Validate() error {
	var errs []error

	if c.Fetch.PostLimit < 0 {
		errs = append(errs, errors.New("post limit cannot be negative"))
	}
	if c.Fetch.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("requests per minute must be positive"))
	}

	if c.Retry.MaxRetries < 0 {
		errs = append(errs, errors.New("max retries cannot be negative"))
	}
	if c.Retry.KindLimit <= 0 {
		errs = append(errs, errors.New("kind limit must be positive"))
	}
	if c.Retry.BaseDelay <= 0 {
		errs = append(errs, errors.New("base delay must be positive"))
	}
	if c.Retry.MaxDelay < c.Retry.BaseDelay {
		errs = append(errs, errors.New("max delay must not be below base delay"))
	}
	if c.Retry.Multiplier < 1.0 {
		errs = append(errs, errors.New("multiplier must be at least 1.0"))
	}

	if c.Proxy.URL != "" {
		scheme := strings.ToLower(c.Proxy.URL)
		if !strings.HasPrefix(scheme, "http") && !strings.HasPrefix(scheme, "socks") {
			errs = append(errs, errors.New("proxy URL must use an http(s) or socks scheme"))
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if cookies, ok := flags["cookies"].([]string); ok && len(cookies) > 0 {
		c.TikTok.Cookies = cookies
	}
	if proxyURL, ok := flags["proxy"].(string); ok && proxyURL != "" {
		c.Proxy.URL = proxyURL
	}
	if limit, ok := flags["limit"].(int); ok && limit > 0 {
		c.Fetch.PostLimit = limit
	}
	if rpm, ok := flags["requests-per-minute"].(int); ok && rpm > 0 {
		c.RateLimit.RequestsPerMinute = rpm
	}
	if userAgent, ok := flags["user-agent"].(string); ok && userAgent != "" {
		c.TikTok.UserAgent = userAgent
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".ttscraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
