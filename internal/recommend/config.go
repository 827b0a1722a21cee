// MovieGraph - Graph-Backed Movie Recommendations
// Copyright 2026 MovieGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moviegraph/moviegraph

package recommend

import (
	"fmt"
	"math"
	"time"
)

// weightTolerance is the allowed deviation when checking that the hybrid
// weights sum to 1.0.
const weightTolerance = 1e-9

// Config contains the policy constants of the recommendation engine. The
// values are tunable through configuration but are not per-request inputs.
type Config struct {
	// LikedThreshold is the minimum rating for a movie to count as liked.
	// Default: 4.0.
	LikedThreshold float64 `json:"liked_threshold" koanf:"liked_threshold"`

	// ContentWeight is the hybrid weight of the content signal.
	// Default: 0.6. ContentWeight + GraphWeight must sum to 1.0.
	ContentWeight float64 `json:"content_weight" koanf:"content_weight"`

	// GraphWeight is the hybrid weight of the graph signal.
	// Default: 0.4.
	GraphWeight float64 `json:"graph_weight" koanf:"graph_weight"`

	// DefaultLimit is the number of recommendations returned when the
	// caller does not specify one. Default: 10.
	DefaultLimit int `json:"default_limit" koanf:"default_limit"`

	// MaxLimit caps the requested result size. Default: 100.
	MaxLimit int `json:"max_limit" koanf:"max_limit"`

	// Cache contains the optional response cache parameters.
	Cache CacheConfig `json:"cache" koanf:"cache"`
}

// CacheConfig contains parameters for the per-user response cache. Entries
// are invalidated whenever the user submits a new rating.
type CacheConfig struct {
	// Enabled turns the cache on. Default: true.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// TTL is how long a cached response stays valid. Default: 5m.
	TTL time.Duration `json:"ttl" koanf:"ttl"`

	// MaxEntries bounds the cache size. Default: 1024.
	MaxEntries int `json:"max_entries" koanf:"max_entries"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		LikedThreshold: 4.0,
		ContentWeight:  0.6,
		GraphWeight:    0.4,
		DefaultLimit:   10,
		MaxLimit:       100,
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 1024,
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.LikedThreshold < 1 || c.LikedThreshold > 5 {
		return fmt.Errorf("liked_threshold %.2f outside rating scale [1, 5]", c.LikedThreshold)
	}

	if c.ContentWeight < 0 || c.GraphWeight < 0 {
		return fmt.Errorf("hybrid weights must be non-negative, got content=%.2f graph=%.2f",
			c.ContentWeight, c.GraphWeight)
	}
	if math.Abs(c.ContentWeight+c.GraphWeight-1.0) > weightTolerance {
		return fmt.Errorf("hybrid weights must sum to 1.0, got content=%.2f graph=%.2f",
			c.ContentWeight, c.GraphWeight)
	}

	if c.DefaultLimit <= 0 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit %d below default_limit %d", c.MaxLimit, c.DefaultLimit)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive when cache is enabled")
		}
		if c.Cache.MaxEntries <= 0 {
			return fmt.Errorf("cache.max_entries must be positive when cache is enabled")
		}
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
