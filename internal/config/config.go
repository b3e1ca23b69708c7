// Package config handles application configuration management.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Base directory for all Glotian data (~/.glotian)
	BaseDir string

	// Remote backend settings
	Remote RemoteConfig

	// Sync policy knobs
	Sync SyncConfig

	// Eviction policy knobs
	Eviction EvictionConfig
}

// RemoteConfig holds row API settings.
type RemoteConfig struct {
	// BaseURL of the Glotian backend (GLOTIAN_API_URL env var)
	BaseURL string
	// AccessToken is the bearer token for the current session
	// (GLOTIAN_ACCESS_TOKEN env var)
	AccessToken string
	// UserID identifies the current user; the sync core only consumes it
	// (GLOTIAN_USER_ID env var)
	UserID string
	// RequestTimeout bounds each remote call
	RequestTimeout time.Duration
	// RateLimit is the maximum remote requests per minute
	RateLimit int
}

// SyncConfig holds sync processor settings.
type SyncConfig struct {
	// MaxRetries bounds re-attempts for retryable failures
	MaxRetries int
	// Interval between periodic sync triggers
	Interval time.Duration
	// LeaseTTL after which a run-in-progress lease is considered stale
	LeaseTTL time.Duration
}

// EvictionConfig holds cache reclamation settings.
type EvictionConfig struct {
	// QuotaBytes is the storage budget for the cache store; 0 disables
	// eviction (the quota estimate is then "unavailable")
	QuotaBytes int64
	// HighWater is the usage ratio at which eviction triggers
	HighWater float64
	// EvictFraction of eligible rows removed per table per pass
	EvictFraction float64
	// StaleAfter is how long a row must go unaccessed to be eligible
	StaleAfter time.Duration
	// ActivityRetention is how many activity entries survive a prune
	ActivityRetention int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if url := os.Getenv("GLOTIAN_API_URL"); url != "" {
		cfg.Remote.BaseURL = url
	}
	if token := os.Getenv("GLOTIAN_ACCESS_TOKEN"); token != "" {
		cfg.Remote.AccessToken = token
	}
	if user := os.Getenv("GLOTIAN_USER_ID"); user != "" {
		cfg.Remote.UserID = user
	}
	if quota := os.Getenv("GLOTIAN_CACHE_QUOTA_BYTES"); quota != "" {
		if n, err := strconv.ParseInt(quota, 10, 64); err == nil {
			cfg.Eviction.QuotaBytes = n
		}
	}

	if err := os.MkdirAll(cfg.BaseDir, 0755); err != nil {
		return nil, err
	}

	return cfg, nil
}
