// Package scheduler runs the daily reset of the next day's bookings.
package scheduler

import (
    "context"
    "time"

    "github.com/iliyamo/dining-hall-reservation/internal/logging"
)

// Resetter clears the bookings of the day after now.
type Resetter interface {
    ResetTomorrow(ctx context.Context) (date string, deleted int64, err error)
}

// DailyReset calls Resetter.ResetTomorrow every day at Hour:Minute in Loc.
// It implements suture.Service.
type DailyReset struct {
    resetter Resetter
    hour     int
    minute   int
    loc      *time.Location

    now   func() time.Time
    after func(time.Duration) <-chan time.Time
}

// NewDailyReset returns a scheduler firing at hour:minute in loc.
func NewDailyReset(r Resetter, hour, minute int, loc *time.Location) *DailyReset {
    if loc == nil {
        loc = time.Local
    }
    return &DailyReset{resetter: r, hour: hour, minute: minute, loc: loc, now: time.Now, after: time.After}
}

func (s *DailyReset) String() string { return "daily-reset" }

// NextRun returns the first hour:minute strictly after now, in now's location.
func NextRun(now time.Time, hour, minute int) time.Time {
    next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
    if !next.After(now) {
        next = time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, now.Location())
    }
    return next
}

// Serve sleeps until the next run, resets, and repeats until ctx ends.
// A failed reset is logged and retried at the next daily run.
func (s *DailyReset) Serve(ctx context.Context) error {
    log := logging.WithComponent("daily-reset")
    for {
        now := s.now().In(s.loc)
        next := NextRun(now, s.hour, s.minute)
        log.Info().Time("next_run", next).Msg("reset scheduled")

        select {
        case <-ctx.Done():
            return ctx.Err()
        case <-s.after(next.Sub(now)):
        }

        date, n, err := s.resetter.ResetTomorrow(ctx)
        if err != nil {
            log.Error().Err(err).Str("date", date).Msg("scheduled reset failed")
            continue
        }
        log.Info().Str("date", date).Int64("deleted", n).Msg("scheduled reset done")
    }
}
