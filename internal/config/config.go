// Package config loads and validates the lstash config file.
//
// The file lives at ~/.config/lstash/config.toml by default; when it is
// absent the embedded template supplies the defaults, so a fresh install
// works without any setup.
package config

import "time"

// DefaultSaveInterval paces tracker history writes when the config
// leaves tracking.save_interval unset.
const DefaultSaveInterval = 2 * time.Second

// Config models the lstash config file.
type Config struct {
	PackagesPath       string         `toml:"packages_path"`
	SearchPaths        []string       `toml:"search_paths"`
	DefaultRelocatable *bool          `toml:"default_relocatable"`
	Cache              CacheConfig    `toml:"cache"`
	Tracking           TrackingConfig `toml:"tracking"`
}

// CacheConfig controls package discovery caching.
type CacheConfig struct {
	TTL string `toml:"ttl"`
}

// TrackingConfig controls the usage tracker daemon.
type TrackingConfig struct {
	URL          string `toml:"url"`
	Queue        string `toml:"queue"`
	File         string `toml:"file"`
	SaveInterval string `toml:"save_interval"`
}

// RelocatableDefault reports how packages that leave relocatable unset are
// treated. An absent key means movable.
func (c *Config) RelocatableDefault() bool {
	if c.DefaultRelocatable == nil {
		return true
	}
	return *c.DefaultRelocatable
}

// CacheTTL returns the parsed discovery cache TTL. Zero disables caching.
// Validate rejects malformed values, so parse failures collapse to zero here.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTL == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// SaveInterval returns the parsed tracker flush interval.
func (c *Config) SaveInterval() time.Duration {
	if c.Tracking.SaveInterval == "" {
		return DefaultSaveInterval
	}
	d, err := time.ParseDuration(c.Tracking.SaveInterval)
	if err != nil || d <= 0 {
		return DefaultSaveInterval
	}
	return d
}
