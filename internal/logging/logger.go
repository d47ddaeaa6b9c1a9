// Package logging wraps zerolog for the reservation service.
//
// Call Init once from main; before that a JSON logger at info level on
// stderr is used.  Handlers log through Ctx(ctx) so the request id set by
// the request-logging middleware is attached to every line.
//
//    logging.Info().Str("email", email).Msg("user signed in")
//    logging.Ctx(ctx).Error().Err(err).Msg("reservation failed")
package logging

import (
    "context"
    "io"
    "os"
    "strings"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
    Level  string    // trace, debug, info, warn, error (default info)
    Format string    // json or console (default json)
    Output io.Writer // default os.Stderr
}

var (
    log zerolog.Logger
    mu  sync.RWMutex
)

func init() {
    initLogger(Config{})
}

// Init (re)configures the global logger.
func Init(cfg Config) {
    mu.Lock()
    defer mu.Unlock()
    initLogger(cfg)
}

func initLogger(cfg Config) {
    if cfg.Output == nil {
        cfg.Output = os.Stderr
    }
    zerolog.SetGlobalLevel(parseLevel(cfg.Level))
    zerolog.TimeFieldFormat = time.RFC3339

    out := cfg.Output
    if strings.EqualFold(cfg.Format, "console") {
        out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
    }
    log = zerolog.New(out).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
    switch strings.ToLower(level) {
    case "trace":
        return zerolog.TraceLevel
    case "debug":
        return zerolog.DebugLevel
    case "warn", "warning":
        return zerolog.WarnLevel
    case "error":
        return zerolog.ErrorLevel
    case "fatal":
        return zerolog.FatalLevel
    case "disabled":
        return zerolog.Disabled
    }
    return zerolog.InfoLevel
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger {
    mu.RLock()
    defer mu.RUnlock()
    return log
}

// WithComponent returns a child logger tagged with component.
func WithComponent(component string) zerolog.Logger {
    l := Logger()
    return l.With().Str("component", component).Logger()
}

func Debug() *zerolog.Event { l := Logger(); return l.Debug() }
func Info() *zerolog.Event  { l := Logger(); return l.Info() }
func Warn() *zerolog.Event  { l := Logger(); return l.Warn() }
func Error() *zerolog.Event { l := Logger(); return l.Error() }
func Fatal() *zerolog.Event { l := Logger(); return l.Fatal() }

type contextKey string

const requestIDKey contextKey = "request_id"

// NewRequestID returns a fresh request id.
func NewRequestID() string {
    return uuid.New().String()
}

// ContextWithRequestID stores id in ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
    return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request id stored in ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
    if id, ok := ctx.Value(requestIDKey).(string); ok {
        return id
    }
    return ""
}

// Ctx returns the global logger enriched with the request id of ctx.
func Ctx(ctx context.Context) *zerolog.Logger {
    l := Logger()
    if ctx != nil {
        if id := RequestIDFromContext(ctx); id != "" {
            l = l.With().Str("request_id", id).Logger()
        }
    }
    return &l
}
