package config

// Redis backs the distributed rate limiter and the per-date counts cache.
// When the server cannot be reached at startup the constructor returns nil
// and callers degrade gracefully by disabling both features.

import (
    "context"
    "crypto/tls"
    "time"

    "github.com/redis/go-redis/v9"
)

// RedisConfig holds the connection parameters.  Addr takes precedence over
// Host/Port only when Host or Port is empty.
type RedisConfig struct {
    Enabled  bool   `env:"REDIS_ENABLED" env-default:"true"`
    Host     string `env:"REDIS_HOST" env-default:""`
    Port     string `env:"REDIS_PORT" env-default:""`
    Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
    Password string `env:"REDIS_PASSWORD" env-default:""`
    DB       int    `env:"REDIS_DB" env-default:"0"`
    TLS      bool   `env:"REDIS_TLS" env-default:"false"`
}

// address returns the host:port to dial.
func (r RedisConfig) address() string {
    if r.Host != "" && r.Port != "" {
        return r.Host + ":" + r.Port
    }
    if r.Addr == "" {
        return "localhost:6379"
    }
    return r.Addr
}

// NewRedisClient instantiates a Redis client from cfg.  The returned client
// is nil if Redis is disabled or a connection cannot be established.
func NewRedisClient(cfg RedisConfig) *redis.Client {
    if !cfg.Enabled {
        return nil
    }
    var tlsConf *tls.Config
    if cfg.TLS {
        tlsConf = &tls.Config{InsecureSkipVerify: true}
    }
    client := redis.NewClient(&redis.Options{
        Addr:      cfg.address(),
        Password:  cfg.Password,
        DB:        cfg.DB,
        TLSConfig: tlsConf,
    })
    // Ping the server with a short timeout.  Return nil on failure.
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        _ = client.Close()
        return nil
    }
    return client
}
