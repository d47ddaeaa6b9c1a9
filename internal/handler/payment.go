package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/dining-hall-reservation/internal/apperror"
    "github.com/iliyamo/dining-hall-reservation/internal/logging"
    "github.com/iliyamo/dining-hall-reservation/internal/model"
    "github.com/iliyamo/dining-hall-reservation/internal/service"
    "github.com/iliyamo/dining-hall-reservation/internal/session"
    "github.com/iliyamo/dining-hall-reservation/web"
)

// PaymentHandler shows the meal slip of the pending booking and settles it.
type PaymentHandler struct {
    Payments     *service.PaymentService
    Reservations *service.ReservationService // clock and zone for the slip timestamp
}

func NewPaymentHandler(p *service.PaymentService, r *service.ReservationService) *PaymentHandler {
    return &PaymentHandler{Payments: p, Reservations: r}
}

// pending loads and verifies the session's pending booking.  When it
// returns ok=false the response has already been written.
func (h *PaymentHandler) pending(c echo.Context) (model.PendingBooking, bool, error) {
    sess := session.Get(c)
    if sess.Pending == nil {
        return model.PendingBooking{}, false, redirectWithFlash(c, "/booking", "No booking found. Please book a meal first.")
    }
    p := *sess.Pending

    ctx, cancel := withTimeout(c)
    defer cancel()
    if _, err := h.Payments.Verify(ctx, p); err != nil {
        if errors.Is(err, apperror.ErrDatabase) {
            logging.Ctx(ctx).Error().Err(err).Msg("verify pending booking failed")
        } else {
            sess.ClearPending()
        }
        return model.PendingBooking{}, false, redirectWithFlash(c, "/booking", apperror.Message(err, "Invalid booking data. Please book again."))
    }
    return p, true, nil
}

// PaymentPage renders the meal slip.
func (h *PaymentHandler) PaymentPage(c echo.Context) error {
    p, ok, err := h.pending(c)
    if !ok {
        return err
    }
    return h.render(c, p, flashes(c))
}

// Pay settles the pending booking with the chosen payment_method.
func (h *PaymentHandler) Pay(c echo.Context) error {
    p, ok, err := h.pending(c)
    if !ok {
        return err
    }
    sess := session.Get(c)
    method := c.FormValue("payment_method")

    ctx, cancel := withTimeout(c)
    defer cancel()
    switch {
    case method == model.PaymentCancel:
        if _, err := h.Payments.Cancel(ctx, *sess.User, p); err != nil {
            logging.Ctx(ctx).Error().Err(err).Msg("cancel booking failed")
            sess.Flash("Error cancelling bookings: " + err.Error())
        } else {
            sess.Flash("Booking cancelled successfully")
        }
        sess.ClearPending()
        return c.Redirect(http.StatusFound, "/booking")

    case model.IsPaymentMethod(method):
        if err := h.Payments.Pay(ctx, *sess.User, p, method); err != nil {
            return h.render(c, p, flashes(c, "Error processing payment: "+err.Error()))
        }
        sess.ClearPending()
        sess.Flash("Payment processed successfully with " + method + ". Ready for new booking.")
        c.Response().Header().Set(echo.HeaderCacheControl, noStore)
        return c.Redirect(http.StatusFound, "/booking")
    }
    return h.render(c, p, flashes(c, "Invalid payment method selected"))
}

func (h *PaymentHandler) render(c echo.Context, p model.PendingBooking, msgs []string) error {
    user := session.Get(c).User
    c.Response().Header().Set(echo.HeaderCacheControl, noStore)
    return c.Render(http.StatusOK, web.PagePayment, paymentPage{
        Flashes:     msgs,
        Username:    user.Username,
        Roll:        user.Roll,
        IssuedAt:    h.Reservations.Now().Format("2006-01-02 15:04:05"),
        BookingDate: p.BookingDate,
        Hall:        p.Hall,
        MealType:    p.MealType,
        TicketCount: p.TicketCount,
        TotalCost:   h.Payments.TotalCost(p.TicketCount),
        SlipNumber:  p.SlipNumber,
        Methods:     paymentMethods,
    })
}
