package scheduler

import (
    "context"
    "errors"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
)

var dhaka = time.FixedZone("BDT", 6*60*60)

func TestNextRun(t *testing.T) {
    tests := []struct {
        now  time.Time
        want time.Time
    }{
        {time.Date(2025, 3, 9, 19, 59, 0, 0, dhaka), time.Date(2025, 3, 9, 20, 0, 0, 0, dhaka)},
        {time.Date(2025, 3, 9, 20, 0, 0, 0, dhaka), time.Date(2025, 3, 10, 20, 0, 0, 0, dhaka)},
        {time.Date(2025, 3, 9, 23, 0, 0, 0, dhaka), time.Date(2025, 3, 10, 20, 0, 0, 0, dhaka)},
        {time.Date(2025, 12, 31, 21, 0, 0, 0, dhaka), time.Date(2026, 1, 1, 20, 0, 0, 0, dhaka)},
    }
    for _, tt := range tests {
        assert.Equal(t, tt.want, NextRun(tt.now, 20, 0), tt.now.String())
    }
}

type fakeResetter struct {
    mu    sync.Mutex
    calls int
    fail  bool
    done  chan struct{}
    limit int
}

func (f *fakeResetter) ResetTomorrow(context.Context) (string, int64, error) {
    f.mu.Lock()
    defer f.mu.Unlock()
    f.calls++
    if f.calls == f.limit {
        close(f.done)
    }
    if f.fail {
        return "2025-03-10", 0, errors.New("db down")
    }
    return "2025-03-10", 3, nil
}

func TestServeRunsAndStops(t *testing.T) {
    for _, fail := range []bool{false, true} {
        r := &fakeResetter{done: make(chan struct{}), limit: 3, fail: fail}
        s := NewDailyReset(r, 20, 0, dhaka)
        s.now = func() time.Time { return time.Date(2025, 3, 9, 19, 0, 0, 0, dhaka) }

        var waits []time.Duration
        var mu sync.Mutex
        s.after = func(d time.Duration) <-chan time.Time {
            mu.Lock()
            waits = append(waits, d)
            mu.Unlock()
            ch := make(chan time.Time, 1)
            ch <- time.Time{}
            return ch
        }

        ctx, cancel := context.WithCancel(context.Background())
        errCh := make(chan error, 1)
        go func() { errCh <- s.Serve(ctx) }()

        select {
        case <-r.done:
        case <-time.After(5 * time.Second):
            t.Fatal("resetter was not called")
        }
        cancel()
        assert.ErrorIs(t, <-errCh, context.Canceled)

        mu.Lock()
        assert.Equal(t, time.Hour, waits[0])
        mu.Unlock()
    }
}

func TestServeWaitsForContext(t *testing.T) {
    r := &fakeResetter{done: make(chan struct{}), limit: 1}
    s := NewDailyReset(r, 20, 0, dhaka)
    ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
    defer cancel()

    assert.ErrorIs(t, s.Serve(ctx), context.DeadlineExceeded)
    assert.Zero(t, r.calls)
}
