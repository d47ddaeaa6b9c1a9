package service

import (
    "context"
    "sync"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/dining-hall-reservation/internal/apperror"
    "github.com/iliyamo/dining-hall-reservation/internal/model"
)

const user = "student@campus.edu"

func TestReserve_ValidationOrder(t *testing.T) {
    f := newFixture(t, at("2025-03-09", 21, 0))
    f.addUser(t, user, "1234567")

    valid := ReservationRequest{UserEmail: user, Hall: "Zia Hall", MealType: "Lunch", Date: "2025-03-10", TicketCount: 2}
    tests := []struct {
        name   string
        mutate func(r *ReservationRequest)
        want   string
        is     error
    }{
        {"missing hall", func(r *ReservationRequest) { r.Hall = "" }, "Please fill in all fields", apperror.ErrValidation},
        {"zero tickets", func(r *ReservationRequest) { r.TicketCount = 0 }, "Please fill in all fields", apperror.ErrValidation},
        {"missing fields win over bad meal", func(r *ReservationRequest) { r.Date = ""; r.MealType = "Breakfast" }, "Please fill in all fields", apperror.ErrValidation},
        {"bad meal", func(r *ReservationRequest) { r.MealType = "Breakfast" }, "Invalid meal type selected", apperror.ErrValidation},
        {"bad meal before bad count", func(r *ReservationRequest) { r.MealType = "Breakfast"; r.TicketCount = 9 }, "Invalid meal type selected", apperror.ErrValidation},
        {"too many tickets", func(r *ReservationRequest) { r.TicketCount = 6 }, "Number of tickets must be between 1 and 5", apperror.ErrValidation},
        {"negative tickets", func(r *ReservationRequest) { r.TicketCount = -1 }, "Number of tickets must be between 1 and 5", apperror.ErrValidation},
        {"bad date", func(r *ReservationRequest) { r.Date = "10/03/2025" }, "Invalid date format. Use YYYY-MM-DD.", apperror.ErrValidation},
        {"bad date before bad hall", func(r *ReservationRequest) { r.Date = "x"; r.Hall = "Nowhere" }, "Invalid date format. Use YYYY-MM-DD.", apperror.ErrValidation},
        {"bad hall", func(r *ReservationRequest) { r.Hall = "Nowhere Hall" }, "Invalid hall selected", apperror.ErrValidation},
        {"outside window", func(r *ReservationRequest) { r.Date = "2025-03-12" }, "Bookings for 2025-03-12 are only allowed from 8 PM the previous day to 8 AM.", apperror.ErrBookingWindow},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            req := valid
            tt.mutate(&req)
            res, err := f.reserve.Reserve(context.Background(), req)
            require.Error(t, err)
            assert.ErrorIs(t, err, tt.is)
            assert.Equal(t, tt.want, err.Error())
            assert.Empty(t, res.IDs)
        })
    }

    list, err := f.counts.UserBookings(context.Background(), user, "2025-03-10")
    require.NoError(t, err)
    assert.Empty(t, list)
}

func TestReserve_Success(t *testing.T) {
    f := newFixture(t, at("2025-03-10", 7, 30))
    f.addUser(t, user, "1234567")

    res, err := f.reserve.Reserve(context.Background(), ReservationRequest{
        UserEmail: user, Hall: "Selim Hall", MealType: "Dinner", Date: "2025-03-10", TicketCount: 3,
    })
    require.NoError(t, err)
    require.Len(t, res.IDs, 3)
    assert.Equal(t, "2025-03-10", res.BookingDate)
    assert.Equal(t, 3, res.TicketCount)

    rows, err := f.bookings.GetByIDs(context.Background(), res.IDs)
    require.NoError(t, err)
    require.Len(t, rows, 3)
    for _, r := range rows {
        assert.Equal(t, "Selim Hall", r.Hall)
        assert.Equal(t, "Dinner", r.MealType)
        assert.Equal(t, user, r.UserEmail)
    }
}

func TestReserve_UnpaddedDateIsStoredPadded(t *testing.T) {
    f := newFixture(t, at("2025-03-09", 21, 0))
    f.addUser(t, user, "1234567")

    res, err := f.reserve.Reserve(context.Background(), ReservationRequest{
        UserEmail: user, Hall: "Zia Hall", MealType: "Lunch", Date: "2025-3-10", TicketCount: 2,
    })
    require.NoError(t, err)
    assert.Equal(t, "2025-03-10", res.BookingDate)

    list, err := f.counts.UserBookings(context.Background(), user, "2025-03-10")
    require.NoError(t, err)
    assert.Len(t, list, 2)
}

func TestReserve_HallCapacity(t *testing.T) {
    f := newFixture(t, at("2025-03-09", 21, 0))
    f.addUser(t, user, "1234567")
    f.addUser(t, "filler@campus.edu", "7654321")
    f.seed(t, "filler@campus.edu", "Zia Hall", "Lunch", "2025-03-10", 248)

    req := ReservationRequest{UserEmail: user, Hall: "Zia Hall", MealType: "Lunch", Date: "2025-03-10", TicketCount: 3}
    _, err := f.reserve.Reserve(context.Background(), req)
    require.ErrorIs(t, err, apperror.ErrCapacity)
    assert.Equal(t, "Not enough Lunch tickets available for Zia Hall on 2025-03-10 (available: 2)", err.Error())

    req.TicketCount = 2
    res, err := f.reserve.Reserve(context.Background(), req)
    require.NoError(t, err)
    assert.Len(t, res.IDs, 2)

    counts, err := f.counts.HallCounts(context.Background(), "2025-03-10")
    require.NoError(t, err)
    assert.Equal(t, model.HallCapacity, counts["Zia Hall"].Lunch)
}

func TestReserve_UserCap(t *testing.T) {
    f := newFixture(t, at("2025-03-09", 21, 0))
    f.addUser(t, user, "1234567")
    f.seed(t, user, "Zia Hall", "Dinner", "2025-03-10", 4)

    req := ReservationRequest{UserEmail: user, Hall: "Shahidul Hall", MealType: "Dinner", Date: "2025-03-10", TicketCount: 2}
    _, err := f.reserve.Reserve(context.Background(), req)
    require.ErrorIs(t, err, apperror.ErrCapacity)
    assert.Equal(t, "Maximum 5 Dinner bookings per day reached (currently 4)", err.Error())

    req.TicketCount = 1
    res, err := f.reserve.Reserve(context.Background(), req)
    require.NoError(t, err)
    assert.Len(t, res.IDs, 1)

    // Lunch has its own cap.
    req.MealType, req.TicketCount = "Lunch", 5
    _, err = f.reserve.Reserve(context.Background(), req)
    require.NoError(t, err)
}

func TestReserve_ConcurrentRequestsRespectCapacity(t *testing.T) {
    f := newFixture(t, at("2025-03-09", 22, 0))
    f.addUser(t, "filler@campus.edu", "0000000")
    f.seed(t, "filler@campus.edu", "Bangabandhu Hall", "Lunch", "2025-03-10", 240)

    emails := make([]string, 8)
    for i := range emails {
        emails[i] = "u" + string(rune('a'+i)) + "@campus.edu"
        f.addUser(t, emails[i], "100000"+string(rune('0'+i)))
    }

    var wg sync.WaitGroup
    var mu sync.Mutex
    succeeded := 0
    for _, email := range emails {
        wg.Add(1)
        go func(email string) {
            defer wg.Done()
            _, err := f.reserve.Reserve(context.Background(), ReservationRequest{
                UserEmail: email, Hall: "Bangabandhu Hall", MealType: "Lunch", Date: "2025-03-10", TicketCount: 5,
            })
            if err == nil {
                mu.Lock()
                succeeded++
                mu.Unlock()
                return
            }
            assert.ErrorIs(t, err, apperror.ErrCapacity)
        }(email)
    }
    wg.Wait()

    assert.Equal(t, 2, succeeded)
    counts, err := f.counts.HallCounts(context.Background(), "2025-03-10")
    require.NoError(t, err)
    assert.Equal(t, model.HallCapacity, counts["Bangabandhu Hall"].Lunch)
}
