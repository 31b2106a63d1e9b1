package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds crawler configuration.
type Config struct {
	BaseURL          string
	SeedPath         string
	MinPages         int
	CollectLimit     int
	Timeout          time.Duration
	MinDelay         time.Duration
	MaxDelay         time.Duration
	MaxBodyBytes     int
	MinDocChars      int
	OutputDir        string
	URLsFile         string
	IndexFile        string
	UserAgent        string
	Verbose          bool
	RespectRobotsTxt bool
	MetricsAddr      string
}

// DefaultConfig returns conservative defaults for the archive target.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:          "https://ilibrary.ru",
		SeedPath:         "/author.html",
		MinPages:         100,
		CollectLimit:     1200,
		Timeout:          25 * time.Second,
		MinDelay:         600 * time.Millisecond,
		MaxDelay:         1600 * time.Millisecond,
		MaxBodyBytes:     5_000_000,
		MinDocChars:      1000,
		OutputDir:        "output/dump",
		URLsFile:         "output/urls.txt",
		IndexFile:        "output/index.txt",
		UserAgent:        "Mozilla/5.0 (compatible; StudyCrawler/1.0; +https://example.com/bot)",
		Verbose:          false,
		RespectRobotsTxt: false,
		MetricsAddr:      "",
	}
}

// SeedURL returns the absolute URL of the author-listing seed page.
func (c *Config) SeedURL() string {
	return strings.TrimSuffix(c.BaseURL, "/") + c.SeedPath
}

// Host returns the host component of the base URL.
func (c *Config) Host() (string, error) {
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("base URL must include a host")
	}
	return parsed.Host, nil
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.SeedPath == "" || !strings.HasPrefix(c.SeedPath, "/") {
		return fmt.Errorf("seed path must start with /")
	}
	if c.MinPages <= 0 {
		return fmt.Errorf("min pages must be positive")
	}
	if c.CollectLimit < c.MinPages {
		return fmt.Errorf("collect limit (%d) cannot be below min pages (%d)", c.CollectLimit, c.MinPages)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MinDelay < 0 {
		return fmt.Errorf("min delay cannot be negative")
	}
	if c.MaxDelay < c.MinDelay {
		return fmt.Errorf("max delay (%s) cannot be below min delay (%s)", c.MaxDelay, c.MinDelay)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive")
	}
	if c.MinDocChars < 0 {
		return fmt.Errorf("min doc chars cannot be negative")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output dir cannot be empty")
	}
	if c.URLsFile == "" {
		return fmt.Errorf("urls file cannot be empty")
	}
	if c.IndexFile == "" {
		return fmt.Errorf("index file cannot be empty")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}

// EnvInt reads an integer environment variable. The boolean reports whether
// the variable was set.
func EnvInt(name string) (int, bool, error) {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s=%q is not an integer", name, raw)
	}
	return value, true, nil
}

// EnvString reads a string environment variable. The boolean reports whether
// the variable was set to a non-empty value.
func EnvString(name string) (string, bool) {
	raw, ok := os.LookupEnv(name)
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}
