package service

import (
    "context"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"

    "github.com/iliyamo/dining-hall-reservation/internal/cache"
    "github.com/iliyamo/dining-hall-reservation/internal/database"
    "github.com/iliyamo/dining-hall-reservation/internal/model"
    "github.com/iliyamo/dining-hall-reservation/internal/queue"
    "github.com/iliyamo/dining-hall-reservation/internal/repository"
)

// dhaka is a fixed +06:00 zone so tests do not depend on tzdata.
var dhaka = time.FixedZone("BDT", 6*60*60)

func at(date string, hour, min int) time.Time {
    d, err := time.ParseInLocation(model.DateLayout, date, dhaka)
    if err != nil {
        panic(err)
    }
    return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, dhaka)
}

type fixture struct {
    users    *repository.UserRepo
    bookings *repository.BookingRepo
    auth     *AuthService
    reserve  *ReservationService
    payment  *PaymentService
    counts   *CountsService
    reset    *ResetService
    events   *recordingPublisher
}

func newFixture(t *testing.T, now time.Time) *fixture {
    t.Helper()
    return newCachedFixture(t, now, nil)
}

// newCachedFixture wires counts into every service that reads or
// invalidates the counts cache.
func newCachedFixture(t *testing.T, now time.Time, counts *cache.CountsCache) *fixture {
    t.Helper()
    db, err := database.OpenMemory(context.Background())
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })

    f := &fixture{
        users:    repository.NewUserRepo(db),
        bookings: repository.NewBookingRepo(db, database.SQLite),
        events:   &recordingPublisher{},
    }
    clock := func() time.Time { return now }
    f.auth = NewAuthService(f.users, bcrypt.MinCost)
    f.reserve = NewReservationService(f.bookings, counts, dhaka)
    f.reserve.SetClock(clock)
    f.payment = NewPaymentService(f.bookings, counts, f.events, 50)
    f.payment.SetClock(clock)
    f.counts = NewCountsService(f.bookings, counts)
    f.reset = NewResetService(f.bookings, counts, dhaka)
    f.reset.SetClock(clock)
    return f
}

func (f *fixture) addUser(t *testing.T, email, roll string) {
    t.Helper()
    require.NoError(t, f.users.Create(context.Background(), model.User{
        Email: email, Username: "u-" + roll, Roll: roll, PasswordHash: "x",
    }))
}

// seed inserts n rows directly, bypassing the caps.
func (f *fixture) seed(t *testing.T, email, hall, meal, date string, n int) []int64 {
    t.Helper()
    ctx := context.Background()
    tx, err := f.bookings.BeginTx(ctx)
    require.NoError(t, err)
    ids, err := f.bookings.CreateManyTx(ctx, tx, model.Booking{UserEmail: email, Hall: hall, MealType: meal, BookingDate: date}, n)
    require.NoError(t, err)
    require.NoError(t, tx.Commit())
    return ids
}

type recordingPublisher struct {
    mu     sync.Mutex
    events []queue.MealBookingEvent
    err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev queue.MealBookingEvent) error {
    p.mu.Lock()
    defer p.mu.Unlock()
    p.events = append(p.events, ev)
    return p.err
}

func (p *recordingPublisher) all() []queue.MealBookingEvent {
    p.mu.Lock()
    defer p.mu.Unlock()
    return append([]queue.MealBookingEvent(nil), p.events...)
}
