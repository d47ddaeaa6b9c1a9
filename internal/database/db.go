package database

import (
    "context"
    "database/sql"
    "fmt"
    "strings"
    "time"

    _ "github.com/go-sql-driver/mysql"
    "github.com/jmoiron/sqlx"
    _ "github.com/lib/pq"
    _ "modernc.org/sqlite"

    "github.com/iliyamo/dining-hall-reservation/internal/config"
)

// Dialect names one of the supported SQL backends.  Queries are written
// with '?' placeholders and rebound by sqlx for Postgres.
type Dialect string

const (
    MySQL    Dialect = "mysql"
    SQLite   Dialect = "sqlite"
    Postgres Dialect = "postgres"
)

func init() {
    // modernc registers itself as "sqlite", which sqlx does not know by default.
    sqlx.BindDriver(string(SQLite), sqlx.QUESTION)
}

// ParseDialect maps a DB_DRIVER value onto a Dialect.
func ParseDialect(s string) (Dialect, error) {
    switch Dialect(strings.ToLower(strings.TrimSpace(s))) {
    case MySQL:
        return MySQL, nil
    case SQLite:
        return SQLite, nil
    case Postgres:
        return Postgres, nil
    }
    return "", fmt.Errorf("unsupported database driver %q", s)
}

// SupportsLastInsertID reports whether sql.Result.LastInsertId works.
// Postgres needs INSERT ... RETURNING instead.
func (d Dialect) SupportsLastInsertID() bool { return d != Postgres }

// TxOptions returns the options used for the read-count-then-insert
// transaction of a reservation.  SQLite runs on a single connection so
// its transactions are already serialized; the server databases need the
// serializable level so two concurrent reservations cannot both pass the
// capacity checks.
func (d Dialect) TxOptions() *sql.TxOptions {
    if d == SQLite {
        return nil
    }
    return &sql.TxOptions{Isolation: sql.LevelSerializable}
}

// DSN builds the data source name for cfg.
func DSN(d Dialect, cfg config.DatabaseConfig) string {
    if cfg.DSN != "" {
        return cfg.DSN
    }
    switch d {
    case SQLite:
        return "file:bookings.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
    case Postgres:
        return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
            cfg.User, cfg.Pass, cfg.Host, cfg.Port, cfg.Name)
    }
    auth := cfg.User
    if cfg.Pass != "" {
        auth = fmt.Sprintf("%s:%s", cfg.User, cfg.Pass)
    }
    // parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
    return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
        auth, cfg.Host, cfg.Port, cfg.Name)
}

// Open connects to the configured database and verifies the connection.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, Dialect, error) {
    d, err := ParseDialect(cfg.Driver)
    if err != nil {
        return nil, "", err
    }
    db, err := OpenDSN(d, DSN(d, cfg))
    if err != nil {
        return nil, "", err
    }
    return db, d, nil
}

// OpenDSN opens a pool for dialect d and pings it.
func OpenDSN(d Dialect, dsn string) (*sqlx.DB, error) {
    db, err := sqlx.Open(string(d), dsn)
    if err != nil {
        return nil, fmt.Errorf("open %s: %w", d, err)
    }

    // Pool settings
    if d == SQLite {
        // one writer at a time; also keeps ":memory:" databases shared
        db.SetMaxOpenConns(1)
    } else {
        db.SetMaxOpenConns(25)
        db.SetMaxIdleConns(25)
        db.SetConnMaxLifetime(30 * time.Minute)
    }

    // Ping with timeout
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        _ = db.Close()
        return nil, fmt.Errorf("ping %s: %w", d, err)
    }
    return db, nil
}
