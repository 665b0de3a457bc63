// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Lister strategy names.
const (
	ListerBrowser   = "browser"
	ListerInnertube = "innertube"
)

// Config holds all application configuration for transcript extraction.
type Config struct {
	// Concurrency is how many videos are fetched at the same time.
	// 5 is a safe default; higher is faster but risks errors.
	Concurrency int `json:"concurrency"`

	// OutputDir is where transcript files and summaries are written.
	OutputDir string `json:"output_dir"`

	// Patience is the number of consecutive no-growth scrolls tolerated
	// before listing extraction stops.
	Patience int `json:"patience"`
	// MaxScrolls is the hard cap on scroll attempts for massive channels.
	MaxScrolls int `json:"max_scrolls"`
	// MaxVideos limits how many videos one batch processes (0 = all).
	MaxVideos int `json:"max_videos"`

	// Lister selects the listing strategy: "browser" or "innertube".
	Lister string `json:"lister"`

	// Headless runs Chrome without a visible window.
	Headless bool `json:"headless"`
	// NavTimeout bounds a single page navigation.
	NavTimeout time.Duration `json:"nav_timeout"`

	// Language is the caption language for the timedtext fallback.
	Language string `json:"language"`
	// TimedtextFallback enables the browserless caption fallback when the
	// transcript panel cannot be opened.
	TimedtextFallback bool `json:"timedtext_fallback"`

	// SkipDone skips videos already extracted successfully, as recorded
	// in the history file.
	SkipDone bool `json:"skip_done"`
	// HistoryPath is the history file location. Empty disables history.
	HistoryPath string `json:"history_path"`
}

// DefaultConfig returns configuration with safe defaults. The output
// directory defaults to ~/youtube_transcripts.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		Concurrency:       5,
		OutputDir:         filepath.Join(home, "youtube_transcripts"),
		Patience:          5,
		MaxScrolls:        200,
		Lister:            ListerBrowser,
		Headless:          true,
		NavTimeout:        60 * time.Second,
		Language:          "en",
		TimedtextFallback: true,
		SkipDone:          false,
		HistoryPath:       filepath.Join(home, "youtube_transcripts", "history.json"),
	}
}

// Load loads configuration from defaults, an optional config file, and
// environment variables, in increasing priority.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile attempts to load config from ytscrape.json in the current
// directory or ~/.config/ytscrape/.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytscrape.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytscrape", "ytscrape.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YTSCRAPE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Concurrency = n
		}
	}
	if v := os.Getenv("YTSCRAPE_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("YTSCRAPE_PATIENCE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Patience = n
		}
	}
	if v := os.Getenv("YTSCRAPE_MAX_SCROLLS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxScrolls = n
		}
	}
	if v := os.Getenv("YTSCRAPE_MAX_VIDEOS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxVideos = n
		}
	}
	if v := os.Getenv("YTSCRAPE_LISTER"); v != "" {
		c.Lister = v
	}
	if v := os.Getenv("YTSCRAPE_HEADLESS"); v != "" {
		c.Headless = v == "true" || v == "1"
	}
	if v := os.Getenv("YTSCRAPE_NAV_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.NavTimeout = d
		}
	}
	if v := os.Getenv("YTSCRAPE_LANGUAGE"); v != "" {
		c.Language = v
	}
	if v := os.Getenv("YTSCRAPE_TIMEDTEXT_FALLBACK"); v != "" {
		c.TimedtextFallback = v == "true" || v == "1"
	}
	if v := os.Getenv("YTSCRAPE_SKIP_DONE"); v != "" {
		c.SkipDone = v == "true" || v == "1"
	}
	if v := os.Getenv("YTSCRAPE_HISTORY_PATH"); v != "" {
		c.HistoryPath = v
	}
}

// Validate checks that configuration values are valid and consistent.
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must be set")
	}
	if c.Patience < 1 {
		return fmt.Errorf("patience must be at least 1")
	}
	if c.MaxScrolls < 1 {
		return fmt.Errorf("max_scrolls must be at least 1")
	}
	if c.MaxVideos < 0 {
		return fmt.Errorf("max_videos must be non-negative")
	}
	if c.Lister != ListerBrowser && c.Lister != ListerInnertube {
		return fmt.Errorf("lister must be %q or %q", ListerBrowser, ListerInnertube)
	}
	if c.NavTimeout <= 0 {
		return fmt.Errorf("nav_timeout must be positive")
	}
	return nil
}
