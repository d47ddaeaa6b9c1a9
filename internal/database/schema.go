package database

import (
    "context"
    "fmt"

    "github.com/jmoiron/sqlx"
)

// schema lists the bootstrap statements per dialect.  Statements are run
// one at a time because the MySQL driver rejects multi-statement strings
// unless multiStatements is enabled.
var schema = map[Dialect][]string{
    MySQL: {
        `CREATE TABLE IF NOT EXISTS users (
            email    VARCHAR(255) NOT NULL PRIMARY KEY,
            username VARCHAR(255) NOT NULL,
            roll     CHAR(7)      NOT NULL,
            password VARCHAR(255) NOT NULL,
            UNIQUE KEY uq_users_roll (roll)
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
        `CREATE TABLE IF NOT EXISTS bookings (
            id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
            user_email   VARCHAR(255) NOT NULL,
            hall         VARCHAR(64)  NOT NULL,
            meal_type    VARCHAR(16)  NOT NULL,
            booking_date CHAR(10)     NOT NULL,
            KEY idx_bookings_hall_meal_date (hall, meal_type, booking_date),
            KEY idx_bookings_user_meal_date (user_email, meal_type, booking_date),
            KEY idx_bookings_date (booking_date),
            CONSTRAINT fk_bookings_user FOREIGN KEY (user_email) REFERENCES users (email)
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
    },
    SQLite: {
        `CREATE TABLE IF NOT EXISTS users (
            email    TEXT PRIMARY KEY,
            username TEXT NOT NULL,
            roll     TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL
        )`,
        `CREATE TABLE IF NOT EXISTS bookings (
            id           INTEGER PRIMARY KEY AUTOINCREMENT,
            user_email   TEXT NOT NULL REFERENCES users (email),
            hall         TEXT NOT NULL,
            meal_type    TEXT NOT NULL,
            booking_date TEXT NOT NULL
        )`,
        `CREATE INDEX IF NOT EXISTS idx_bookings_hall_meal_date ON bookings (hall, meal_type, booking_date)`,
        `CREATE INDEX IF NOT EXISTS idx_bookings_user_meal_date ON bookings (user_email, meal_type, booking_date)`,
        `CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings (booking_date)`,
    },
    Postgres: {
        `CREATE TABLE IF NOT EXISTS users (
            email    TEXT PRIMARY KEY,
            username TEXT NOT NULL,
            roll     CHAR(7) NOT NULL UNIQUE,
            password TEXT NOT NULL
        )`,
        `CREATE TABLE IF NOT EXISTS bookings (
            id           BIGSERIAL PRIMARY KEY,
            user_email   TEXT NOT NULL REFERENCES users (email),
            hall         TEXT NOT NULL,
            meal_type    TEXT NOT NULL,
            booking_date CHAR(10) NOT NULL
        )`,
        `CREATE INDEX IF NOT EXISTS idx_bookings_hall_meal_date ON bookings (hall, meal_type, booking_date)`,
        `CREATE INDEX IF NOT EXISTS idx_bookings_user_meal_date ON bookings (user_email, meal_type, booking_date)`,
        `CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings (booking_date)`,
    },
}

// Migrate creates the users and bookings tables when they do not exist.
// It is safe to run on every start.
func Migrate(ctx context.Context, db *sqlx.DB, d Dialect) error {
    stmts, ok := schema[d]
    if !ok {
        return fmt.Errorf("no schema for dialect %q", d)
    }
    for i, stmt := range stmts {
        if _, err := db.ExecContext(ctx, stmt); err != nil {
            return fmt.Errorf("migrate step %d: %w", i+1, err)
        }
    }
    return nil
}
