package repository

import (
    "context"
    "strings"

    "github.com/jmoiron/sqlx"

    "github.com/iliyamo/dining-hall-reservation/internal/model"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

// NormalizeEmail trims and lower-cases an address before it is stored or
// looked up.
func NormalizeEmail(email string) string {
    return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts u.  The password must already be hashed.  A duplicate
// email or roll yields ErrUserExists.
func (r *UserRepo) Create(ctx context.Context, u model.User) error {
    u.Email = NormalizeEmail(u.Email)
    _, err := r.db.ExecContext(ctx,
        r.db.Rebind("INSERT INTO users (email, username, roll, password) VALUES (?,?,?,?)"),
        u.Email, u.Username, u.Roll, u.PasswordHash)
    if err != nil {
        if isUniqueViolation(err) {
            return ErrUserExists
        }
        return err
    }
    return nil
}

// GetByEmail fetches a user by normalized email; sql.ErrNoRows when absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
    var u model.User
    err := r.db.GetContext(ctx, &u,
        r.db.Rebind("SELECT email, username, roll, password FROM users WHERE email=? LIMIT 1"),
        NormalizeEmail(email))
    return u, err
}
