package handler

import (
    "errors"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/dining-hall-reservation/internal/apperror"
    "github.com/iliyamo/dining-hall-reservation/internal/logging"
    "github.com/iliyamo/dining-hall-reservation/internal/model"
    "github.com/iliyamo/dining-hall-reservation/internal/service"
    "github.com/iliyamo/dining-hall-reservation/internal/session"
    "github.com/iliyamo/dining-hall-reservation/internal/utils"
    "github.com/iliyamo/dining-hall-reservation/internal/validation"
    "github.com/iliyamo/dining-hall-reservation/web"
)

// BookingHandler serves the booking page and the counts/reset JSON endpoints.
type BookingHandler struct {
    Reservations *service.ReservationService
    Counts       *service.CountsService
    Resets       *service.ResetService
    TicketPrice  int
}

func NewBookingHandler(r *service.ReservationService, cs *service.CountsService, rs *service.ResetService, ticketPrice int) *BookingHandler {
    return &BookingHandler{Reservations: r, Counts: cs, Resets: rs, TicketPrice: ticketPrice}
}

type bookingForm struct {
    Hall        string `form:"hall"`
    MealType    string `form:"meal_type"`
    BookingDate string `form:"booking_date"`
    TicketCount string `form:"ticket_count"`
}

// BookingPage shows availability for the default booking date.
func (h *BookingHandler) BookingPage(c echo.Context) error {
    return h.render(c, flashes(c))
}

// Book reserves tickets and, on success, parks them in the session as the
// pending booking before redirecting to the payment page.
func (h *BookingHandler) Book(c echo.Context) error {
    sess := session.Get(c)
    var f bookingForm
    if err := c.Bind(&f); err != nil {
        return h.render(c, flashes(c, "Please fill in all fields"))
    }
    // unparseable counts are treated as missing
    count, err := strconv.Atoi(strings.TrimSpace(f.TicketCount))
    if err != nil {
        count = 0
    }

    ctx, cancel := withTimeout(c)
    defer cancel()
    res, err := h.Reservations.Reserve(ctx, service.ReservationRequest{
        UserEmail:   sess.User.Email,
        Hall:        f.Hall,
        MealType:    f.MealType,
        Date:        strings.TrimSpace(f.BookingDate),
        TicketCount: count,
    })
    if err != nil {
        if !apperror.IsUserFacing(err) {
            logging.Ctx(ctx).Error().Err(err).Msg("reservation failed")
        }
        return h.render(c, flashes(c, apperror.Message(err, "Failed to book "+f.TicketCount+" "+f.MealType+" ticket(s) for "+f.Hall+" on "+f.BookingDate)))
    }

    sess.SetPending(model.PendingBooking{
        Hall:        res.Hall,
        MealType:    res.MealType,
        BookingIDs:  res.IDs,
        BookingDate: res.BookingDate,
        TicketCount: res.TicketCount,
        SlipNumber:  utils.NewSlipNumber(),
    })
    return c.Redirect(http.StatusFound, "/payment")
}

func (h *BookingHandler) render(c echo.Context, msgs []string) error {
    sess := session.Get(c)
    date := service.DefaultBookingDate(h.Reservations.Now())

    ctx, cancel := withTimeout(c)
    defer cancel()
    sum, err := h.Counts.Summary(ctx, sess.User.Email, date)
    if err != nil {
        logging.Ctx(ctx).Error().Err(err).Str("date", date).Msg("load counts failed")
        msgs = append(msgs, apperror.Database(err).Message)
    }

    c.Response().Header().Set(echo.HeaderCacheControl, noStore)
    return c.Render(http.StatusOK, web.PageBooking, bookingPage{
        Flashes:      msgs,
        Username:     sess.User.Username,
        BookingDate:  date,
        Halls:        hallRows(sum),
        MealTypes:    model.MealTypes,
        UserBookings: sum.UserBookings,
        TicketPrice:  h.TicketPrice,
    })
}

// GetCounts returns per-hall counts and remaining capacity for ?date=,
// defaulting to today.
func (h *BookingHandler) GetCounts(c echo.Context) error {
    date := c.QueryParam("date")
    if date == "" {
        date = h.Reservations.Now().Format(model.DateLayout)
    }
    date, ok := validation.NormalizeDate(date)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date format. Use YYYY-MM-DD."})
    }

    ctx, cancel := withTimeout(c)
    defer cancel()
    sum, err := h.Counts.Summary(ctx, session.Get(c).User.Email, date)
    if err != nil {
        logging.Ctx(ctx).Error().Err(err).Str("date", date).Msg("get counts failed")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": apperror.Database(err).Message})
    }
    return c.JSON(http.StatusOK, sum)
}

// ResetBookings deletes every booking of ?date=.
func (h *BookingHandler) ResetBookings(c echo.Context) error {
    ctx, cancel := withTimeout(c)
    defer cancel()
    n, err := h.Resets.Reset(ctx, c.QueryParam("date"), "manual")
    if err != nil {
        status := http.StatusInternalServerError
        if errors.Is(err, apperror.ErrValidation) {
            status = http.StatusBadRequest
        } else {
            logging.Ctx(ctx).Error().Err(err).Msg("reset failed")
        }
        return c.JSON(status, echo.Map{"status": "error", "message": err.Error()})
    }
    return c.JSON(http.StatusOK, echo.Map{"status": "success", "deleted": n})
}
