package handler

import (
    "context"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/dining-hall-reservation/internal/model"
    "github.com/iliyamo/dining-hall-reservation/internal/service"
    "github.com/iliyamo/dining-hall-reservation/internal/session"
)

// requestTimeout bounds the database work of a single request.
const requestTimeout = 5 * time.Second

// noStore is sent on the booking and payment pages so the back button
// never shows stale availability or an already settled slip.
const noStore = "no-store, no-cache, must-revalidate, max-age=0"

type authPage struct {
    Flashes []string
}

type hallRow struct {
    Name string
    service.HallSummary
}

type bookingPage struct {
    Flashes      []string
    Username     string
    BookingDate  string
    Halls        []hallRow
    MealTypes    []string
    UserBookings int
    TicketPrice  int
}

type paymentPage struct {
    Flashes     []string
    Username    string
    Roll        string
    IssuedAt    string
    BookingDate string
    Hall        string
    MealType    string
    TicketCount int
    TotalCost   int
    SlipNumber  int
    Methods     []string
}

// paymentMethods are the buttons on the payment page, in display order.
var paymentMethods = []string{model.PaymentBkash, model.PaymentRocket, model.PaymentCancel}

// withTimeout derives the per-request database context.
func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// flashes drains the session's queued messages and appends extra, which
// are shown on this render only.
func flashes(c echo.Context, extra ...string) []string {
    return append(session.Get(c).PopFlashes(), extra...)
}

// redirectWithFlash queues msg and redirects to path.
func redirectWithFlash(c echo.Context, path, msg string) error {
    session.Get(c).Flash(msg)
    return c.Redirect(http.StatusFound, path)
}

// hallRows orders summary by model.Halls for display.
func hallRows(sum service.CountsSummary) []hallRow {
    rows := make([]hallRow, 0, len(model.Halls))
    for _, name := range model.Halls {
        hs, ok := sum.Counts[name]
        if !ok {
            hs = service.HallSummary{LunchRemaining: model.HallCapacity, DinnerRemaining: model.HallCapacity}
        }
        rows = append(rows, hallRow{Name: name, HallSummary: hs})
    }
    return rows
}
