package service

import (
    "context"

    "github.com/iliyamo/dining-hall-reservation/internal/cache"
    "github.com/iliyamo/dining-hall-reservation/internal/metrics"
    "github.com/iliyamo/dining-hall-reservation/internal/model"
    "github.com/iliyamo/dining-hall-reservation/internal/repository"
)

// HallSummary is one hall's entry in the counts endpoint.
type HallSummary struct {
    Lunch           int `json:"Lunch"`
    Dinner          int `json:"Dinner"`
    LunchRemaining  int `json:"LunchRemaining"`
    DinnerRemaining int `json:"DinnerRemaining"`
}

// CountsSummary is the body of GET /get_counts.
type CountsSummary struct {
    Counts       map[string]HallSummary `json:"counts"`
    UserBookings int                    `json:"userBookings"`
}

// CountsService reports per-hall availability.  It never writes.
type CountsService struct {
    bookings *repository.BookingRepo
    cache    *cache.CountsCache
}

func NewCountsService(bookings *repository.BookingRepo, counts *cache.CountsCache) *CountsService {
    return &CountsService{bookings: bookings, cache: counts}
}

// HallCounts returns lunch and dinner counts for every hall on date.
func (s *CountsService) HallCounts(ctx context.Context, date string) (map[string]model.MealCounts, error) {
    if counts, ok := s.cache.Get(ctx, date); ok {
        metrics.CountsCacheTotal.WithLabelValues("hit").Inc()
        return counts, nil
    }
    metrics.CountsCacheTotal.WithLabelValues("miss").Inc()
    counts, err := s.bookings.CountsByDate(ctx, date)
    if err != nil {
        return nil, err
    }
    s.cache.Set(ctx, date, counts)
    return counts, nil
}

// UserBookings lists the bookings email holds on date.
func (s *CountsService) UserBookings(ctx context.Context, email, date string) ([]model.Booking, error) {
    return s.bookings.ListByUserDate(ctx, email, date)
}

// Summary combines HallCounts with remaining capacity and the number of
// tickets the user holds on date.
func (s *CountsService) Summary(ctx context.Context, email, date string) (CountsSummary, error) {
    counts, err := s.HallCounts(ctx, date)
    if err != nil {
        return CountsSummary{}, err
    }
    mine, err := s.UserBookings(ctx, email, date)
    if err != nil {
        return CountsSummary{}, err
    }
    out := CountsSummary{Counts: make(map[string]HallSummary, len(counts)), UserBookings: len(mine)}
    for hall, c := range counts {
        out.Counts[hall] = HallSummary{
            Lunch:           c.Lunch,
            Dinner:          c.Dinner,
            LunchRemaining:  model.HallCapacity - c.Lunch,
            DinnerRemaining: model.HallCapacity - c.Dinner,
        }
    }
    return out, nil
}
