package config

import "time"

// CacheConfig defines settings for the Redis counts cache.  When Enabled is
// false or no Redis client is configured, counts are always read from the
// database.  Entries are dropped whenever a booking for their date changes,
// so TTL only bounds how long an entry survives a missed invalidation.
type CacheConfig struct {
    Enabled bool          `env:"CACHE_ENABLED" env-default:"true"`
    TTL     time.Duration `env:"COUNTS_CACHE_TTL" env-default:"30s"`
    Prefix  string        `env:"CACHE_PREFIX" env-default:"counts"`
}
