package cache

import (
    "context"
    "testing"
    "time"

    "github.com/alicebob/miniredis/v2"
    "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/dining-hall-reservation/internal/config"
    "github.com/iliyamo/dining-hall-reservation/internal/model"
)

func TestNewCountsCacheDisabled(t *testing.T) {
    assert.Nil(t, NewCountsCache(config.CacheConfig{Enabled: true}, nil))

    rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
    defer rdb.Close()
    assert.Nil(t, NewCountsCache(config.CacheConfig{Enabled: false}, rdb))
}

func TestNilCacheIsNoop(t *testing.T) {
    var c *CountsCache
    ctx := context.Background()

    _, ok := c.Get(ctx, "2025-03-10")
    assert.False(t, ok)
    c.Set(ctx, "2025-03-10", map[string]model.MealCounts{"Zia Hall": {Lunch: 1}})
    c.Invalidate(ctx, "2025-03-10")
}

func TestKeyAndDefaults(t *testing.T) {
    rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
    defer rdb.Close()

    c := NewCountsCache(config.CacheConfig{Enabled: true}, rdb)
    assert.Equal(t, "counts:2025-03-10", c.Key("2025-03-10"))
    assert.Equal(t, 30*time.Second, c.ttl)
}

func TestUnreachableRedisMisses(t *testing.T) {
    rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
    defer rdb.Close()

    c := NewCountsCache(config.CacheConfig{Enabled: true, Prefix: "t"}, rdb)
    _, ok := c.Get(context.Background(), "2025-03-10")
    assert.False(t, ok)
}

func newMiniCache(t *testing.T) (*CountsCache, *miniredis.Miniredis) {
    t.Helper()
    mr := miniredis.RunT(t)
    rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
    t.Cleanup(func() { _ = rdb.Close() })
    return NewCountsCache(config.CacheConfig{Enabled: true, TTL: time.Minute}, rdb), mr
}

func TestSetGetInvalidate(t *testing.T) {
    c, mr := newMiniCache(t)
    ctx := context.Background()
    want := map[string]model.MealCounts{"Zia Hall": {Lunch: 3, Dinner: 1}, "Selim Hall": {}}

    _, ok := c.Get(ctx, "2025-03-10")
    assert.False(t, ok)

    c.Set(ctx, "2025-03-10", want)
    require.True(t, mr.Exists("counts:2025-03-10"))
    assert.Equal(t, time.Minute, mr.TTL("counts:2025-03-10"))

    got, ok := c.Get(ctx, "2025-03-10")
    require.True(t, ok)
    assert.Equal(t, want, got)

    c.Invalidate(ctx, "2025-03-10")
    assert.False(t, mr.Exists("counts:2025-03-10"))
    _, ok = c.Get(ctx, "2025-03-10")
    assert.False(t, ok)
}

func TestEntryExpires(t *testing.T) {
    c, mr := newMiniCache(t)
    ctx := context.Background()

    c.Set(ctx, "2025-03-10", map[string]model.MealCounts{"Zia Hall": {Lunch: 1}})
    mr.FastForward(2 * time.Minute)
    _, ok := c.Get(ctx, "2025-03-10")
    assert.False(t, ok)
}

func TestCorruptEntryMisses(t *testing.T) {
    c, mr := newMiniCache(t)
    require.NoError(t, mr.Set("counts:2025-03-10", "not json"))
    _, ok := c.Get(context.Background(), "2025-03-10")
    assert.False(t, ok)
}
