package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/jmoiron/sqlx"
    "github.com/labstack/echo/v4"
)

// HealthHandler reports liveness for load balancers and monitoring.
type HealthHandler struct {
    DB *sqlx.DB
}

func NewHealthHandler(db *sqlx.DB) *HealthHandler { return &HealthHandler{DB: db} }

// Health returns "ok" when the database answers a ping within two
// seconds and 503 otherwise.
func (h *HealthHandler) Health(c echo.Context) error {
    if h.DB != nil {
        ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
        defer cancel()
        if err := h.DB.PingContext(ctx); err != nil {
            return c.String(http.StatusServiceUnavailable, "database unavailable")
        }
    }
    return c.String(http.StatusOK, "ok")
}
