package repository

import (
    "context"
    "fmt"

    "github.com/jmoiron/sqlx"

    "github.com/iliyamo/dining-hall-reservation/internal/database"
    "github.com/iliyamo/dining-hall-reservation/internal/model"
)

// BookingRepo stores one row per meal ticket.  Methods with a Tx suffix
// run inside a transaction owned by the caller, who must commit or roll
// back.  Inside such a transaction every statement goes through the tx:
// SQLite runs on a single connection and a query on r.db would block.
type BookingRepo struct {
    db      *sqlx.DB
    dialect database.Dialect
}

// NewBookingRepo returns a BookingRepo for db speaking dialect d.
func NewBookingRepo(db *sqlx.DB, d database.Dialect) *BookingRepo {
    return &BookingRepo{db: db, dialect: d}
}

// BeginTx starts a transaction with the isolation the dialect needs for
// a count-then-insert reservation.
func (r *BookingRepo) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
    return r.db.BeginTxx(ctx, r.dialect.TxOptions())
}

// CountByUserMealTx counts the tickets email already holds for mealType on date.
func (r *BookingRepo) CountByUserMealTx(ctx context.Context, tx *sqlx.Tx, email, mealType, date string) (int, error) {
    var n int
    err := tx.GetContext(ctx, &n,
        tx.Rebind("SELECT COUNT(*) FROM bookings WHERE user_email=? AND meal_type=? AND booking_date=?"),
        NormalizeEmail(email), mealType, date)
    return n, err
}

// CountByHallMealTx counts the tickets booked at hall for mealType on date.
func (r *BookingRepo) CountByHallMealTx(ctx context.Context, tx *sqlx.Tx, hall, mealType, date string) (int, error) {
    var n int
    err := tx.GetContext(ctx, &n,
        tx.Rebind("SELECT COUNT(*) FROM bookings WHERE hall=? AND meal_type=? AND booking_date=?"),
        hall, mealType, date)
    return n, err
}

// CreateManyTx inserts n identical rows for b and returns their ids in
// insertion order.
func (r *BookingRepo) CreateManyTx(ctx context.Context, tx *sqlx.Tx, b model.Booking, n int) ([]int64, error) {
    if n <= 0 {
        return nil, nil
    }
    email := NormalizeEmail(b.UserEmail)
    ids := make([]int64, 0, n)

    if !r.dialect.SupportsLastInsertID() {
        q := tx.Rebind("INSERT INTO bookings (user_email, hall, meal_type, booking_date) VALUES (?,?,?,?) RETURNING id")
        for i := 0; i < n; i++ {
            var id int64
            if err := tx.QueryRowxContext(ctx, q, email, b.Hall, b.MealType, b.BookingDate).Scan(&id); err != nil {
                return nil, err
            }
            ids = append(ids, id)
        }
        return ids, nil
    }

    stmt, err := tx.PreparexContext(ctx, tx.Rebind("INSERT INTO bookings (user_email, hall, meal_type, booking_date) VALUES (?,?,?,?)"))
    if err != nil {
        return nil, err
    }
    defer stmt.Close()
    for i := 0; i < n; i++ {
        res, err := stmt.ExecContext(ctx, email, b.Hall, b.MealType, b.BookingDate)
        if err != nil {
            return nil, err
        }
        id, err := res.LastInsertId()
        if err != nil {
            return nil, err
        }
        ids = append(ids, id)
    }
    return ids, nil
}

// CountsByDate returns the ticket counts per hall and meal type for date.
// Every known hall is present in the result, zero-filled.
func (r *BookingRepo) CountsByDate(ctx context.Context, date string) (map[string]model.MealCounts, error) {
    var rows []struct {
        Hall     string `db:"hall"`
        MealType string `db:"meal_type"`
        N        int    `db:"n"`
    }
    err := r.db.SelectContext(ctx, &rows,
        r.db.Rebind("SELECT hall, meal_type, COUNT(*) AS n FROM bookings WHERE booking_date=? GROUP BY hall, meal_type"),
        date)
    if err != nil {
        return nil, err
    }
    counts := make(map[string]model.MealCounts, len(model.Halls))
    for _, h := range model.Halls {
        counts[h] = model.MealCounts{}
    }
    for _, row := range rows {
        c := counts[row.Hall]
        c.Add(row.MealType, row.N)
        counts[row.Hall] = c
    }
    return counts, nil
}

// ListByUserDate returns every booking email holds for date ordered by id.
func (r *BookingRepo) ListByUserDate(ctx context.Context, email, date string) ([]model.Booking, error) {
    var out []model.Booking
    err := r.db.SelectContext(ctx, &out,
        r.db.Rebind("SELECT id, user_email, hall, meal_type, booking_date FROM bookings WHERE user_email=? AND booking_date=? ORDER BY id"),
        NormalizeEmail(email), date)
    return out, err
}

// GetByIDs returns the rows among ids that still exist, ordered by id.
func (r *BookingRepo) GetByIDs(ctx context.Context, ids []int64) ([]model.Booking, error) {
    if len(ids) == 0 {
        return nil, nil
    }
    q, args, err := sqlx.In("SELECT id, user_email, hall, meal_type, booking_date FROM bookings WHERE id IN (?) ORDER BY id", ids)
    if err != nil {
        return nil, fmt.Errorf("expand ids: %w", err)
    }
    var out []model.Booking
    if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), args...); err != nil {
        return nil, err
    }
    return out, nil
}

// DeleteByID removes one booking.  Unknown ids are a no-op.
func (r *BookingRepo) DeleteByID(ctx context.Context, id int64) error {
    _, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM bookings WHERE id=?"), id)
    return err
}

// DeleteByIDsForUser removes the rows among ids owned by email and
// returns how many were deleted.
func (r *BookingRepo) DeleteByIDsForUser(ctx context.Context, email string, ids []int64) (int64, error) {
    if len(ids) == 0 {
        return 0, nil
    }
    q, args, err := sqlx.In("DELETE FROM bookings WHERE user_email=? AND id IN (?)", NormalizeEmail(email), ids)
    if err != nil {
        return 0, fmt.Errorf("expand ids: %w", err)
    }
    res, err := r.db.ExecContext(ctx, r.db.Rebind(q), args...)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

// DeleteByDate removes every booking for date and returns the row count.
func (r *BookingRepo) DeleteByDate(ctx context.Context, date string) (int64, error) {
    res, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM bookings WHERE booking_date=?"), date)
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}
