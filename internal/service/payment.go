package service

import (
    "context"
    "fmt"
    "strings"
    "time"

    "github.com/iliyamo/dining-hall-reservation/internal/apperror"
    "github.com/iliyamo/dining-hall-reservation/internal/cache"
    "github.com/iliyamo/dining-hall-reservation/internal/logging"
    "github.com/iliyamo/dining-hall-reservation/internal/metrics"
    "github.com/iliyamo/dining-hall-reservation/internal/model"
    "github.com/iliyamo/dining-hall-reservation/internal/queue"
    "github.com/iliyamo/dining-hall-reservation/internal/repository"
)

// PaymentService settles a pending reservation: it is either paid, which
// leaves the rows in place, or cancelled, which deletes them.  No payment
// gateway is involved.
type PaymentService struct {
    bookings    *repository.BookingRepo
    cache       *cache.CountsCache
    events      EventPublisher
    ticketPrice int
    now         func() time.Time
}

func NewPaymentService(bookings *repository.BookingRepo, counts *cache.CountsCache, events EventPublisher, ticketPrice int) *PaymentService {
    if events == nil {
        events = NopPublisher{}
    }
    return &PaymentService{bookings: bookings, cache: counts, events: events, ticketPrice: ticketPrice, now: time.Now}
}

// SetClock replaces the clock used for event timestamps.
func (s *PaymentService) SetClock(now func() time.Time) { s.now = now }

// TotalCost is the price of ticketCount tickets.
func (s *PaymentService) TotalCost(ticketCount int) int { return ticketCount * s.ticketPrice }

// Verify checks that p is complete and that its rows still exist.
func (s *PaymentService) Verify(ctx context.Context, p model.PendingBooking) ([]model.Booking, error) {
    if !p.Complete() {
        return nil, apperror.ValidationFailed("", "Invalid booking data. Please book again.")
    }
    rows, err := s.bookings.GetByIDs(ctx, p.BookingIDs)
    if err != nil {
        return nil, apperror.Database(err)
    }
    if len(rows) == 0 {
        return nil, &apperror.AppError{
            Err:     apperror.ErrNotFound,
            Message: fmt.Sprintf("No bookings found for IDs %s. Please book again.", formatIDs(p.BookingIDs)),
        }
    }
    return rows, nil
}

// Pay records payment of p with method, one of the pay methods.
func (s *PaymentService) Pay(ctx context.Context, user model.Identity, p model.PendingBooking, method string) error {
    if !model.IsPaymentMethod(method) {
        return apperror.ValidationFailed("payment_method", "Invalid payment method selected")
    }
    metrics.PaymentsTotal.WithLabelValues(method).Inc()
    logging.Ctx(ctx).Info().Str("email", user.Email).Str("method", method).Ints64("booking_ids", p.BookingIDs).Msg("payment processed")
    publish(ctx, s.events, s.event(queue.StatusPaid, user, p, method))
    return nil
}

// Cancel deletes the rows of p owned by user and returns how many went.
// Rows already gone or owned by someone else are skipped silently.
func (s *PaymentService) Cancel(ctx context.Context, user model.Identity, p model.PendingBooking) (int64, error) {
    n, err := s.bookings.DeleteByIDsForUser(ctx, user.Email, p.BookingIDs)
    if err != nil {
        return 0, apperror.Database(err)
    }
    s.cache.Invalidate(ctx, p.BookingDate)
    metrics.PaymentsTotal.WithLabelValues(model.PaymentCancel).Inc()
    logging.Ctx(ctx).Info().Str("email", user.Email).Int64("deleted", n).Ints64("booking_ids", p.BookingIDs).Msg("booking cancelled")
    publish(ctx, s.events, s.event(queue.StatusCancelled, user, p, ""))
    return n, nil
}

func (s *PaymentService) event(status string, user model.Identity, p model.PendingBooking, method string) queue.MealBookingEvent {
    return queue.MealBookingEvent{
        Status:        status,
        UserEmail:     user.Email,
        Username:      user.Username,
        Roll:          user.Roll,
        Hall:          p.Hall,
        MealType:      p.MealType,
        BookingDate:   p.BookingDate,
        BookingIDs:    p.BookingIDs,
        TicketCount:   p.TicketCount,
        TotalAmount:   s.TotalCost(p.TicketCount),
        PaymentMethod: method,
        SlipNumber:    p.SlipNumber,
        OccurredAt:    s.now().Format(time.RFC3339),
    }
}

// formatIDs renders ids as "[1, 2, 3]".
func formatIDs(ids []int64) string {
    parts := make([]string, len(ids))
    for i, id := range ids {
        parts[i] = fmt.Sprint(id)
    }
    return "[" + strings.Join(parts, ", ") + "]"
}
