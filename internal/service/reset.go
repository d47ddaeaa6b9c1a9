package service

import (
    "context"
    "time"

    "github.com/iliyamo/dining-hall-reservation/internal/apperror"
    "github.com/iliyamo/dining-hall-reservation/internal/cache"
    "github.com/iliyamo/dining-hall-reservation/internal/logging"
    "github.com/iliyamo/dining-hall-reservation/internal/metrics"
    "github.com/iliyamo/dining-hall-reservation/internal/model"
    "github.com/iliyamo/dining-hall-reservation/internal/repository"
    "github.com/iliyamo/dining-hall-reservation/internal/validation"
)

// ResetService clears all bookings of a date.
type ResetService struct {
    bookings *repository.BookingRepo
    cache    *cache.CountsCache
    loc      *time.Location
    now      func() time.Time
}

func NewResetService(bookings *repository.BookingRepo, counts *cache.CountsCache, loc *time.Location) *ResetService {
    if loc == nil {
        loc = time.Local
    }
    return &ResetService{bookings: bookings, cache: counts, loc: loc, now: time.Now}
}

// SetClock replaces the clock used by ResetTomorrow.
func (s *ResetService) SetClock(now func() time.Time) { s.now = now }

// Reset deletes every booking for date and returns the number removed.
// trigger labels the metric ("manual" or "scheduled").
func (s *ResetService) Reset(ctx context.Context, date, trigger string) (int64, error) {
    date, ok := validation.NormalizeDate(date)
    if !ok {
        return 0, apperror.ValidationFailed("date", "Invalid date format. Use YYYY-MM-DD.")
    }
    n, err := s.bookings.DeleteByDate(ctx, date)
    if err != nil {
        return 0, apperror.Database(err)
    }
    s.cache.Invalidate(ctx, date)
    metrics.BookingsResetTotal.WithLabelValues(trigger).Add(float64(n))
    logging.Ctx(ctx).Info().Str("date", date).Int64("deleted", n).Str("trigger", trigger).Msg("bookings reset")
    return n, nil
}

// ResetTomorrow resets the day after now.  It returns the date it reset.
func (s *ResetService) ResetTomorrow(ctx context.Context) (string, int64, error) {
    date := s.now().In(s.loc).AddDate(0, 0, 1).Format(model.DateLayout)
    n, err := s.Reset(ctx, date, "scheduled")
    return date, n, err
}
