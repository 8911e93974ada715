// Package config loads the TOML configuration controlling grouping
// thresholds, classifier settings, and cache persistence.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config represents the top-level application configuration.
type Config struct {
	Grouping   GroupingConfig   `toml:"grouping"`
	Classifier ClassifierConfig `toml:"classifier"`
	Cache      CacheConfig      `toml:"cache"`
}

// GroupingConfig holds the thresholds steering the grouping engine.
type GroupingConfig struct {
	StartGroupingAfterCount int `toml:"start_grouping_after_count"`
	MinToolsetSizeToGroup   int `toml:"min_toolset_size_to_group"`
	GroupWithinToolsetLimit int `toml:"group_within_toolset_limit"`
	HardToolLimit           int `toml:"hard_tool_limit"`
	ExpandUntilCount        int `toml:"expand_until_count"`
	SessionCapacity         int `toml:"session_capacity"`
}

// ClassifierConfig holds settings for the model-backed classifier.
type ClassifierConfig struct {
	Model             string `toml:"model"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
	Concurrency       int    `toml:"concurrency"`
}

// CacheConfig holds settings for the persisted group cache.
type CacheConfig struct {
	Capacity int    `toml:"capacity"`
	Path     string `toml:"path"` // SQLite database path; empty keeps the cache in memory only
}

// DefaultConfig returns a Config populated with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Grouping: GroupingConfig{
			StartGroupingAfterCount: 40,
			MinToolsetSizeToGroup:   4,
			GroupWithinToolsetLimit: 15,
			HardToolLimit:           100,
			ExpandUntilCount:        64,
			SessionCapacity:         3,
		},
		Classifier: ClassifierConfig{
			Model:             "claude-sonnet-4-5",
			RequestsPerMinute: 30,
			Concurrency:       4,
		},
		Cache: CacheConfig{
			Capacity: 32,
		},
	}
}

// Load reads a TOML config file, applying defaults for unset values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}
