package repository

import (
    "context"
    "database/sql"
    "testing"

    "github.com/jmoiron/sqlx"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/dining-hall-reservation/internal/database"
    "github.com/iliyamo/dining-hall-reservation/internal/model"
)

func openTestDB(t *testing.T) *sqlx.DB {
    t.Helper()
    db, err := database.OpenMemory(context.Background())
    require.NoError(t, err)
    t.Cleanup(func() { _ = db.Close() })
    return db
}

func seedUser(t *testing.T, users *UserRepo, email, roll string) {
    t.Helper()
    require.NoError(t, users.Create(context.Background(), model.User{
        Email: email, Username: "user", Roll: roll, PasswordHash: "x",
    }))
}

func insert(t *testing.T, repo *BookingRepo, b model.Booking, n int) []int64 {
    t.Helper()
    ctx := context.Background()
    tx, err := repo.BeginTx(ctx)
    require.NoError(t, err)
    ids, err := repo.CreateManyTx(ctx, tx, b, n)
    require.NoError(t, err)
    require.NoError(t, tx.Commit())
    return ids
}

func TestUserRepo_CreateAndGet(t *testing.T) {
    ctx := context.Background()
    users := NewUserRepo(openTestDB(t))

    require.NoError(t, users.Create(ctx, model.User{
        Email: " Alice@Campus.edu ", Username: "alice", Roll: "1234567", PasswordHash: "hash",
    }))

    u, err := users.GetByEmail(ctx, "alice@campus.edu")
    require.NoError(t, err)
    assert.Equal(t, "alice@campus.edu", u.Email)
    assert.Equal(t, "alice", u.Username)
    assert.Equal(t, "1234567", u.Roll)
    assert.Equal(t, "hash", u.PasswordHash)

    _, err = users.GetByEmail(ctx, "nobody@campus.edu")
    assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepo_Duplicates(t *testing.T) {
    ctx := context.Background()
    users := NewUserRepo(openTestDB(t))
    seedUser(t, users, "a@campus.edu", "1111111")

    err := users.Create(ctx, model.User{Email: "a@campus.edu", Username: "b", Roll: "2222222", PasswordHash: "x"})
    assert.ErrorIs(t, err, ErrUserExists)

    err = users.Create(ctx, model.User{Email: "c@campus.edu", Username: "c", Roll: "1111111", PasswordHash: "x"})
    assert.ErrorIs(t, err, ErrUserExists)
}

func TestBookingRepo_CreateAndCount(t *testing.T) {
    ctx := context.Background()
    db := openTestDB(t)
    users := NewUserRepo(db)
    repo := NewBookingRepo(db, database.SQLite)
    seedUser(t, users, "a@campus.edu", "1111111")
    seedUser(t, users, "b@campus.edu", "2222222")

    ids := insert(t, repo, model.Booking{UserEmail: "a@campus.edu", Hall: "Zia Hall", MealType: model.MealLunch, BookingDate: "2025-03-10"}, 3)
    require.Len(t, ids, 3)
    assert.Less(t, ids[0], ids[1])
    assert.Less(t, ids[1], ids[2])
    insert(t, repo, model.Booking{UserEmail: "b@campus.edu", Hall: "Zia Hall", MealType: model.MealLunch, BookingDate: "2025-03-10"}, 2)
    insert(t, repo, model.Booking{UserEmail: "b@campus.edu", Hall: "Selim Hall", MealType: model.MealDinner, BookingDate: "2025-03-10"}, 1)
    insert(t, repo, model.Booking{UserEmail: "a@campus.edu", Hall: "Zia Hall", MealType: model.MealLunch, BookingDate: "2025-03-11"}, 4)

    tx, err := repo.BeginTx(ctx)
    require.NoError(t, err)
    defer func() { _ = tx.Rollback() }()

    n, err := repo.CountByUserMealTx(ctx, tx, "a@campus.edu", model.MealLunch, "2025-03-10")
    require.NoError(t, err)
    assert.Equal(t, 3, n)

    n, err = repo.CountByHallMealTx(ctx, tx, "Zia Hall", model.MealLunch, "2025-03-10")
    require.NoError(t, err)
    assert.Equal(t, 5, n)

    n, err = repo.CountByHallMealTx(ctx, tx, "Zia Hall", model.MealDinner, "2025-03-10")
    require.NoError(t, err)
    assert.Equal(t, 0, n)
    require.NoError(t, tx.Rollback())

    counts, err := repo.CountsByDate(ctx, "2025-03-10")
    require.NoError(t, err)
    assert.Len(t, counts, len(model.Halls))
    assert.Equal(t, model.MealCounts{Lunch: 5}, counts["Zia Hall"])
    assert.Equal(t, model.MealCounts{Dinner: 1}, counts["Selim Hall"])
    assert.Equal(t, model.MealCounts{}, counts["Shahidul Hall"])
}

func TestBookingRepo_RollbackDiscardsRows(t *testing.T) {
    ctx := context.Background()
    db := openTestDB(t)
    repo := NewBookingRepo(db, database.SQLite)
    seedUser(t, NewUserRepo(db), "a@campus.edu", "1111111")

    tx, err := repo.BeginTx(ctx)
    require.NoError(t, err)
    _, err = repo.CreateManyTx(ctx, tx, model.Booking{UserEmail: "a@campus.edu", Hall: "Zia Hall", MealType: model.MealLunch, BookingDate: "2025-03-10"}, 2)
    require.NoError(t, err)
    require.NoError(t, tx.Rollback())

    list, err := repo.ListByUserDate(ctx, "a@campus.edu", "2025-03-10")
    require.NoError(t, err)
    assert.Empty(t, list)
}

func TestBookingRepo_GetByIDsAndDelete(t *testing.T) {
    ctx := context.Background()
    db := openTestDB(t)
    users := NewUserRepo(db)
    repo := NewBookingRepo(db, database.SQLite)
    seedUser(t, users, "a@campus.edu", "1111111")
    seedUser(t, users, "b@campus.edu", "2222222")

    mine := insert(t, repo, model.Booking{UserEmail: "a@campus.edu", Hall: "Zia Hall", MealType: model.MealDinner, BookingDate: "2025-03-10"}, 2)
    theirs := insert(t, repo, model.Booking{UserEmail: "b@campus.edu", Hall: "Zia Hall", MealType: model.MealDinner, BookingDate: "2025-03-10"}, 1)

    got, err := repo.GetByIDs(ctx, append(mine, 9999))
    require.NoError(t, err)
    require.Len(t, got, 2)
    assert.Equal(t, mine[0], got[0].ID)
    assert.Equal(t, "Zia Hall", got[0].Hall)

    // a cannot delete b's row
    n, err := repo.DeleteByIDsForUser(ctx, "a@campus.edu", append(mine, theirs...))
    require.NoError(t, err)
    assert.EqualValues(t, 2, n)

    got, err = repo.GetByIDs(ctx, theirs)
    require.NoError(t, err)
    assert.Len(t, got, 1)

    n, err = repo.DeleteByIDsForUser(ctx, "a@campus.edu", mine)
    require.NoError(t, err)
    assert.EqualValues(t, 0, n)

    require.NoError(t, repo.DeleteByID(ctx, theirs[0]))
    require.NoError(t, repo.DeleteByID(ctx, theirs[0]))
    got, err = repo.GetByIDs(ctx, theirs)
    require.NoError(t, err)
    assert.Empty(t, got)
}

func TestBookingRepo_DeleteByDate(t *testing.T) {
    ctx := context.Background()
    db := openTestDB(t)
    repo := NewBookingRepo(db, database.SQLite)
    seedUser(t, NewUserRepo(db), "a@campus.edu", "1111111")

    insert(t, repo, model.Booking{UserEmail: "a@campus.edu", Hall: "Zia Hall", MealType: model.MealLunch, BookingDate: "2025-03-10"}, 3)
    insert(t, repo, model.Booking{UserEmail: "a@campus.edu", Hall: "Zia Hall", MealType: model.MealLunch, BookingDate: "2025-03-11"}, 2)

    n, err := repo.DeleteByDate(ctx, "2025-03-10")
    require.NoError(t, err)
    assert.EqualValues(t, 3, n)

    left, err := repo.ListByUserDate(ctx, "a@campus.edu", "2025-03-11")
    require.NoError(t, err)
    assert.Len(t, left, 2)

    n, err = repo.DeleteByDate(ctx, "2025-03-10")
    require.NoError(t, err)
    assert.EqualValues(t, 0, n)
}
