// Package cache keeps per-date hall counts in Redis so the booking page
// and the counts endpoint do not aggregate the bookings table on every
// poll.  A nil *CountsCache, or one without a client, always misses.
package cache

import (
    "context"
    "encoding/json"
    "errors"
    "time"

    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/dining-hall-reservation/internal/config"
    "github.com/iliyamo/dining-hall-reservation/internal/logging"
    "github.com/iliyamo/dining-hall-reservation/internal/model"
)

type CountsCache struct {
    rdb    *redis.Client
    ttl    time.Duration
    prefix string
}

// NewCountsCache returns nil when caching is disabled or rdb is nil.
func NewCountsCache(cfg config.CacheConfig, rdb *redis.Client) *CountsCache {
    if !cfg.Enabled || rdb == nil {
        return nil
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 30 * time.Second
    }
    prefix := cfg.Prefix
    if prefix == "" {
        prefix = "counts"
    }
    return &CountsCache{rdb: rdb, ttl: ttl, prefix: prefix}
}

// Key returns the Redis key for date.
func (c *CountsCache) Key(date string) string {
    return c.prefix + ":" + date
}

// Get returns the cached counts for date.  Redis errors are logged and
// reported as a miss.
func (c *CountsCache) Get(ctx context.Context, date string) (map[string]model.MealCounts, bool) {
    if c == nil {
        return nil, false
    }
    raw, err := c.rdb.Get(ctx, c.Key(date)).Bytes()
    if err != nil {
        if !errors.Is(err, redis.Nil) {
            logging.Ctx(ctx).Warn().Err(err).Str("date", date).Msg("counts cache read failed")
        }
        return nil, false
    }
    var counts map[string]model.MealCounts
    if err := json.Unmarshal(raw, &counts); err != nil {
        return nil, false
    }
    return counts, true
}

// Set stores counts for date.
func (c *CountsCache) Set(ctx context.Context, date string, counts map[string]model.MealCounts) {
    if c == nil {
        return
    }
    raw, err := json.Marshal(counts)
    if err != nil {
        return
    }
    if err := c.rdb.Set(ctx, c.Key(date), raw, c.ttl).Err(); err != nil {
        logging.Ctx(ctx).Warn().Err(err).Str("date", date).Msg("counts cache write failed")
    }
}

// Invalidate drops the entry for date.  Called after every reservation,
// cancellation and reset touching that date.
func (c *CountsCache) Invalidate(ctx context.Context, date string) {
    if c == nil || date == "" {
        return
    }
    if err := c.rdb.Del(ctx, c.Key(date)).Err(); err != nil {
        logging.Ctx(ctx).Warn().Err(err).Str("date", date).Msg("counts cache invalidate failed")
    }
}
