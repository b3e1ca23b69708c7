package config

import "time"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseDir: DefaultBaseDir(),

		Remote: RemoteConfig{
			BaseURL:        "https://api.glotian.app",
			RequestTimeout: 15 * time.Second,
			RateLimit:      120,
		},

		Sync: SyncConfig{
			MaxRetries: 5,
			Interval:   5 * time.Minute,
			LeaseTTL:   2 * time.Minute,
		},

		Eviction: EvictionConfig{
			QuotaBytes:        256 << 20, // 256 MiB
			HighWater:         0.90,
			EvictFraction:     0.20,
			StaleAfter:        30 * 24 * time.Hour,
			ActivityRetention: 1000,
		},
	}
}
