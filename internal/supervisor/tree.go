// Package supervisor runs the long-lived parts of the application (HTTP
// server, reset timer, event consumer) under a suture supervisor tree so a
// crashing component is restarted without taking the others down.
package supervisor

import (
    "context"
    "time"

    "github.com/thejerf/suture/v4"

    "github.com/iliyamo/dining-hall-reservation/internal/logging"
)

// TreeConfig holds the restart policy shared by every supervisor in the tree.
type TreeConfig struct {
    FailureThreshold float64       // failures before backing off, default 5
    FailureDecay     float64       // seconds for the failure count to decay, default 30
    FailureBackoff   time.Duration // pause once the threshold is hit, default 15s
    ShutdownTimeout  time.Duration // per-service stop timeout, default 10s
}

// DefaultTreeConfig returns suture's own defaults.
func DefaultTreeConfig() TreeConfig {
    return TreeConfig{
        FailureThreshold: 5,
        FailureDecay:     30,
        FailureBackoff:   15 * time.Second,
        ShutdownTimeout:  10 * time.Second,
    }
}

func (c TreeConfig) withDefaults() TreeConfig {
    d := DefaultTreeConfig()
    if c.FailureThreshold == 0 {
        c.FailureThreshold = d.FailureThreshold
    }
    if c.FailureDecay == 0 {
        c.FailureDecay = d.FailureDecay
    }
    if c.FailureBackoff == 0 {
        c.FailureBackoff = d.FailureBackoff
    }
    if c.ShutdownTimeout == 0 {
        c.ShutdownTimeout = d.ShutdownTimeout
    }
    return c
}

// Tree is a root supervisor with two layers:
//   - api: the HTTP server
//   - background: the daily reset timer and the booking event consumer
type Tree struct {
    root       *suture.Supervisor
    api        *suture.Supervisor
    background *suture.Supervisor
    config     TreeConfig
}

// NewTree builds the supervisor hierarchy. Zero fields of cfg take defaults.
func NewTree(cfg TreeConfig) *Tree {
    cfg = cfg.withDefaults()

    layer := func(hook suture.EventHook) suture.Spec {
        return suture.Spec{
            EventHook:        hook,
            FailureThreshold: cfg.FailureThreshold,
            FailureDecay:     cfg.FailureDecay,
            FailureBackoff:   cfg.FailureBackoff,
            Timeout:          cfg.ShutdownTimeout,
        }
    }

    root := suture.New("dining-hall", layer(EventHook))
    api := suture.New("api-layer", layer(nil))
    background := suture.New("background-layer", layer(nil))
    root.Add(api)
    root.Add(background)

    return &Tree{root: root, api: api, background: background, config: cfg}
}

// Config returns the effective configuration after defaults were applied.
func (t *Tree) Config() TreeConfig { return t.config }

// AddAPIService adds a service to the api layer.
func (t *Tree) AddAPIService(svc suture.Service) suture.ServiceToken {
    return t.api.Add(svc)
}

// AddBackgroundService adds a service to the background layer.
func (t *Tree) AddBackgroundService(svc suture.Service) suture.ServiceToken {
    return t.background.Add(svc)
}

// Serve blocks until ctx is cancelled and every service has stopped.
func (t *Tree) Serve(ctx context.Context) error {
    return t.root.Serve(ctx)
}

// ServeBackground runs the tree in its own goroutine.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
    return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that ignored the shutdown timeout.
func (t *Tree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
    return t.root.UnstoppedServiceReport()
}

// EventHook writes suture events to the structured log.
func EventHook(e suture.Event) {
    log := logging.WithComponent("supervisor")
    ev := log.Info()
    switch e.Type() {
    case suture.EventTypeServicePanic, suture.EventTypeServiceTerminate:
        ev = log.Error()
    case suture.EventTypeBackoff, suture.EventTypeStopTimeout:
        ev = log.Warn()
    }
    ev.Fields(e.Map()).Msg(e.String())
}
