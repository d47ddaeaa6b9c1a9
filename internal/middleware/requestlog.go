package middleware

import (
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/dining-hall-reservation/internal/logging"
    "github.com/iliyamo/dining-hall-reservation/internal/metrics"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = echo.HeaderXRequestID

// RequestLogger assigns a request id, stores it on the request context for
// logging.Ctx, logs one line per request and records its duration.
func RequestLogger() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            req := c.Request()
            id := req.Header.Get(RequestIDHeader)
            if id == "" {
                id = logging.NewRequestID()
            }
            c.Response().Header().Set(RequestIDHeader, id)
            c.SetRequest(req.WithContext(logging.ContextWithRequestID(req.Context(), id)))

            start := time.Now()
            err := next(c)
            if err != nil {
                c.Error(err) // let echo write the error response so the status is final
            }
            elapsed := time.Since(start)

            status := c.Response().Status
            path := c.Path()
            if path == "" {
                path = "unmatched"
            }
            metrics.HTTPRequestDuration.WithLabelValues(path, req.Method, strconv.Itoa(status)).Observe(elapsed.Seconds())

            ev := logging.Ctx(c.Request().Context()).Info()
            if status >= 500 {
                ev = logging.Ctx(c.Request().Context()).Error().Err(err)
            }
            ev.Str("method", req.Method).
                Str("uri", req.RequestURI).
                Int("status", status).
                Dur("latency", elapsed).
                Str("ip", c.RealIP()).
                Str("user", userKey(c)).
                Msg("request")
            return nil
        }
    }
}
