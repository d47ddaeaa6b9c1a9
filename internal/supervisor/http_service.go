package supervisor

import (
    "context"
    "errors"
    "fmt"
    "net/http"
    "time"
)

// HTTPServer is the part of *http.Server the service needs.
type HTTPServer interface {
    ListenAndServe() error
    Shutdown(ctx context.Context) error
}

// HTTPService runs an HTTPServer as a suture.Service.
type HTTPService struct {
    server          HTTPServer
    shutdownTimeout time.Duration
}

// NewHTTPService wraps server; shutdownTimeout bounds the graceful stop.
func NewHTTPService(server HTTPServer, shutdownTimeout time.Duration) *HTTPService {
    if shutdownTimeout <= 0 {
        shutdownTimeout = 10 * time.Second
    }
    return &HTTPService{server: server, shutdownTimeout: shutdownTimeout}
}

func (h *HTTPService) String() string { return "http-server" }

// Serve starts the listener and shuts it down when ctx is cancelled.
// http.ErrServerClosed is not treated as a failure.
func (h *HTTPService) Serve(ctx context.Context) error {
    errCh := make(chan error, 1)
    go func() {
        if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            errCh <- err
        }
        close(errCh)
    }()

    select {
    case err := <-errCh:
        if err != nil {
            return fmt.Errorf("http server: %w", err)
        }
        return nil
    case <-ctx.Done():
        shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
        defer cancel()
        if err := h.server.Shutdown(shutdownCtx); err != nil {
            return fmt.Errorf("http server shutdown: %w", err)
        }
        <-errCh
        return ctx.Err()
    }
}
