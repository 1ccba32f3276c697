package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Catalog providers.
const (
	ProviderITunes = "itunes"
	ProviderEOL    = "eol"
)

type Config struct {
	Provider string `koanf:"provider"` // "itunes" or "eol"

	Search  SearchConfig  `koanf:"search"`
	ITunes  ITunesConfig  `koanf:"itunes"`
	EOL     EOLConfig     `koanf:"eol"`
	History HistoryConfig `koanf:"history"`
	Log     LogConfig     `koanf:"log"`
}

// SearchConfig tunes the debounce controller and the HTTP client.
type SearchConfig struct {
	DebounceMS     int `koanf:"debounce_ms"`     // quiet period before a request (default: 300)
	TimeoutSeconds int `koanf:"timeout_seconds"` // per-request timeout (default: 15)
}

// ITunesConfig holds the iTunes Search API filters.
type ITunesConfig struct {
	BaseURL string `koanf:"base_url"`
	Country string `koanf:"country"` // default: "us"
	Media   string `koanf:"media"`   // default: "music"
	Entity  string `koanf:"entity"`  // default: "song"
	Limit   int    `koanf:"limit"`   // 1-200 (default: 25)
}

// EOLConfig holds the Encyclopedia of Life settings.
type EOLConfig struct {
	BaseURL string `koanf:"base_url"`
}

// HistoryConfig controls the local search history.
type HistoryConfig struct {
	Enabled *bool `koanf:"enabled"` // default: true
	Limit   int   `koanf:"limit"`   // entries shown (default: 20)
}

// LogConfig controls the log file.
type LogConfig struct {
	Level string `koanf:"level"` // debug, info, warn, error (default: info)
	File  string `koanf:"file"`  // empty means the XDG state dir
}

func Load() (*Config, error) {
	return loadFrom(getConfigPaths())
}

func loadFrom(paths []string) (*Config, error) {
	k := koanf.New(".")

	// Later files override earlier ones
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	cfg.ITunes.BaseURL = strings.TrimSuffix(cfg.ITunes.BaseURL, "/")
	cfg.EOL.BaseURL = strings.TrimSuffix(cfg.EOL.BaseURL, "/")
	if cfg.Log.File != "" {
		cfg.Log.File = expandPath(cfg.Log.File)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/tunesearch/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tunesearch", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetProvider returns the configured catalog, defaulting to iTunes.
func (c *Config) GetProvider() string {
	if c.Provider == ProviderEOL {
		return ProviderEOL
	}
	return ProviderITunes
}

// Debounce returns the quiet period as a duration.
func (s SearchConfig) Debounce() time.Duration {
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// Timeout returns the request timeout as a duration.
func (s SearchConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// GetSearchConfig returns the search configuration with defaults applied.
func (c *Config) GetSearchConfig() SearchConfig {
	cfg := c.Search
	if cfg.DebounceMS <= 0 {
		cfg.DebounceMS = 300
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 15
	}
	return cfg
}

// GetITunesConfig returns the iTunes configuration with defaults applied.
func (c *Config) GetITunesConfig() ITunesConfig {
	cfg := c.ITunes
	if cfg.Country == "" {
		cfg.Country = "us"
	}
	if cfg.Media == "" {
		cfg.Media = "music"
	}
	if cfg.Entity == "" {
		cfg.Entity = "song"
	}
	if cfg.Limit <= 0 || cfg.Limit > 200 {
		cfg.Limit = 25
	}
	return cfg
}

// GetEOLConfig returns the EOL configuration. An empty base URL selects
// the public API.
func (c *Config) GetEOLConfig() EOLConfig {
	return c.EOL
}

// GetHistoryConfig returns the history configuration with defaults applied.
func (c *Config) GetHistoryConfig() HistoryConfig {
	cfg := c.History
	if cfg.Enabled == nil {
		enabled := true
		cfg.Enabled = &enabled
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 20
	}
	return cfg
}

// HistoryEnabled reports whether searches are recorded.
func (c *Config) HistoryEnabled() bool {
	return *c.GetHistoryConfig().Enabled
}

// GetLogConfig returns the log configuration with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}
