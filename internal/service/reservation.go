// Package service implements the reservation rules on top of the
// repositories: registration and sign-in, ticket reservation, payment and
// cancellation of a pending reservation, hall counts and date resets.
package service

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/iliyamo/dining-hall-reservation/internal/apperror"
    "github.com/iliyamo/dining-hall-reservation/internal/cache"
    "github.com/iliyamo/dining-hall-reservation/internal/logging"
    "github.com/iliyamo/dining-hall-reservation/internal/metrics"
    "github.com/iliyamo/dining-hall-reservation/internal/model"
    "github.com/iliyamo/dining-hall-reservation/internal/repository"
    "github.com/iliyamo/dining-hall-reservation/internal/validation"
)

// ReservationRequest is the booking form of a signed-in user.  Date is
// kept as submitted so malformed input can be reported.
type ReservationRequest struct {
    UserEmail   string
    Hall        string
    MealType    string
    Date        string
    TicketCount int
}

// Reservation is the result of a successful Reserve: TicketCount rows
// with the ids listed in insertion order.
type Reservation struct {
    IDs         []int64
    Hall        string
    MealType    string
    BookingDate string
    TicketCount int
}

// ReservationService validates and records ticket reservations.
type ReservationService struct {
    bookings *repository.BookingRepo
    cache    *cache.CountsCache
    loc      *time.Location
    now      func() time.Time
}

// NewReservationService returns a service evaluating booking windows in loc.
func NewReservationService(bookings *repository.BookingRepo, counts *cache.CountsCache, loc *time.Location) *ReservationService {
    if loc == nil {
        loc = time.Local
    }
    return &ReservationService{bookings: bookings, cache: counts, loc: loc, now: time.Now}
}

// SetClock replaces the clock.  Intended for tests.
func (s *ReservationService) SetClock(now func() time.Time) { s.now = now }

// Now returns the current time in the service's location.
func (s *ReservationService) Now() time.Time { return s.now().In(s.loc) }

// Location returns the zone booking windows are evaluated in.
func (s *ReservationService) Location() *time.Location { return s.loc }

// validate runs the form checks in the order their messages are reported.
// It returns the parsed date on success.
func (s *ReservationService) validate(req ReservationRequest) (time.Time, error) {
    if req.Hall == "" || req.MealType == "" || req.Date == "" || req.TicketCount == 0 {
        return time.Time{}, apperror.ValidationFailed("", "Please fill in all fields")
    }
    if validation.Var(req.MealType, "mealtype") != nil {
        return time.Time{}, apperror.ValidationFailed("meal_type", "Invalid meal type selected")
    }
    if req.TicketCount < model.MinTicketsPerRequest || req.TicketCount > model.MaxTicketsPerRequest {
        return time.Time{}, apperror.ValidationFailed("ticket_count",
            fmt.Sprintf("Number of tickets must be between %d and %d", model.MinTicketsPerRequest, model.MaxTicketsPerRequest))
    }
    date, err := validation.ParseDate(req.Date, s.loc)
    if err != nil {
        return time.Time{}, apperror.ValidationFailed("booking_date", "Invalid date format. Use YYYY-MM-DD.")
    }
    if validation.Var(req.Hall, "hall") != nil {
        return time.Time{}, apperror.ValidationFailed("hall", "Invalid hall selected")
    }
    if !InBookingWindow(s.Now(), date) {
        return time.Time{}, apperror.BookingWindow(
            fmt.Sprintf("Bookings for %s are only allowed from 8 PM the previous day to 8 AM.", req.Date))
    }
    return date, nil
}

// Reserve checks req against the form rules, the booking window and both
// caps, then inserts one row per ticket.  The cap checks and the insert
// share one transaction, so concurrent requests cannot both pass a cap
// they jointly exceed.
func (s *ReservationService) Reserve(ctx context.Context, req ReservationRequest) (Reservation, error) {
    log := logging.Ctx(ctx)
    log.Info().Str("email", req.UserEmail).Str("hall", req.Hall).Str("meal_type", req.MealType).
        Str("date", req.Date).Int("tickets", req.TicketCount).Msg("booking attempt")

    res, err := s.reserve(ctx, req)
    if err != nil {
        metrics.ReservationsTotal.WithLabelValues(req.MealType, outcome(err)).Inc()
        log.Info().Err(err).Str("email", req.UserEmail).Msg("booking rejected")
        return Reservation{}, err
    }
    metrics.ReservationsTotal.WithLabelValues(req.MealType, "success").Inc()
    metrics.TicketsBookedTotal.WithLabelValues(res.Hall, res.MealType).Add(float64(len(res.IDs)))
    log.Info().Str("email", req.UserEmail).Ints64("booking_ids", res.IDs).Msg("booking recorded")
    return res, nil
}

func (s *ReservationService) reserve(ctx context.Context, req ReservationRequest) (Reservation, error) {
    date, err := s.validate(req)
    if err != nil {
        return Reservation{}, err
    }
    day := date.Format(model.DateLayout)

    tx, err := s.bookings.BeginTx(ctx)
    if err != nil {
        return Reservation{}, apperror.Database(err)
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    mine, err := s.bookings.CountByUserMealTx(ctx, tx, req.UserEmail, req.MealType, day)
    if err != nil {
        return Reservation{}, apperror.Database(err)
    }
    if mine+req.TicketCount > model.MaxTicketsPerUserMeal {
        return Reservation{}, apperror.Capacity(
            fmt.Sprintf("Maximum %d %s bookings per day reached (currently %d)", model.MaxTicketsPerUserMeal, req.MealType, mine))
    }

    booked, err := s.bookings.CountByHallMealTx(ctx, tx, req.Hall, req.MealType, day)
    if err != nil {
        return Reservation{}, apperror.Database(err)
    }
    if booked+req.TicketCount > model.HallCapacity {
        return Reservation{}, apperror.Capacity(
            fmt.Sprintf("Not enough %s tickets available for %s on %s (available: %d)", req.MealType, req.Hall, day, model.HallCapacity-booked))
    }

    ids, err := s.bookings.CreateManyTx(ctx, tx, model.Booking{
        UserEmail:   req.UserEmail,
        Hall:        req.Hall,
        MealType:    req.MealType,
        BookingDate: day,
    }, req.TicketCount)
    if err != nil {
        return Reservation{}, apperror.Database(err)
    }
    if err := tx.Commit(); err != nil {
        return Reservation{}, apperror.Database(err)
    }
    committed = true
    s.cache.Invalidate(ctx, day)

    return Reservation{
        IDs:         ids,
        Hall:        req.Hall,
        MealType:    req.MealType,
        BookingDate: day,
        TicketCount: req.TicketCount,
    }, nil
}

// outcome maps a Reserve error onto the metrics label.
func outcome(err error) string {
    switch {
    case errors.Is(err, apperror.ErrValidation):
        return "validation"
    case errors.Is(err, apperror.ErrBookingWindow):
        return "window"
    case errors.Is(err, apperror.ErrCapacity):
        return "capacity"
    }
    return "database"
}
