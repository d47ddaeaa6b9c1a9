// Package queue defines the meal booking events exchanged over RabbitMQ and
// the background consumer that records them in logs/booking.log.
package queue

import (
    "fmt"
    "strings"
)

// QueueName is the durable queue carrying MealBookingEvent messages.
const QueueName = "meal.booking"

// Event statuses.
const (
    StatusPaid      = "PAID"
    StatusCancelled = "CANCELLED"
)

// MealBookingEvent is published when a pending reservation is paid or
// cancelled.  It carries enough detail for the consumer to log the
// outcome without reading the bookings table.
type MealBookingEvent struct {
    Status        string  `json:"status"`
    UserEmail     string  `json:"user_email"`
    Username      string  `json:"username"`
    Roll          string  `json:"roll"`
    Hall          string  `json:"hall"`
    MealType      string  `json:"meal_type"`
    BookingDate   string  `json:"booking_date"`
    BookingIDs    []int64 `json:"booking_ids"`
    TicketCount   int     `json:"ticket_count"`
    TotalAmount   int     `json:"total_amount"`
    PaymentMethod string  `json:"payment_method,omitempty"`
    SlipNumber    int     `json:"slip_number"`
    OccurredAt    string  `json:"occurred_at"`
}

// LogLine renders ev as the single line appended to the booking log.
func (ev MealBookingEvent) LogLine() string {
    ids := make([]string, len(ev.BookingIDs))
    for i, id := range ev.BookingIDs {
        ids[i] = fmt.Sprint(id)
    }
    line := fmt.Sprintf("[%s] Meal booking %s | slip=%d | user=%q | roll=%s | hall=%q | meal=%s | date=%s | tickets=%d | total=%d | ids=[%s]",
        ev.OccurredAt, strings.ToLower(ev.Status), ev.SlipNumber, ev.UserEmail, ev.Roll,
        ev.Hall, ev.MealType, ev.BookingDate, ev.TicketCount, ev.TotalAmount, strings.Join(ids, ","))
    if ev.PaymentMethod != "" {
        line += fmt.Sprintf(" | method=%q", ev.PaymentMethod)
    }
    return line + "\n"
}
