// Package repository holds the sqlx-backed data access for users and
// bookings.  Sentinel errors defined here let the service layer tell a
// duplicate registration apart from other storage failures.
package repository

import (
    "errors"
    "strings"

    "github.com/go-sql-driver/mysql"
    "github.com/lib/pq"
    "modernc.org/sqlite"
    sqlite3 "modernc.org/sqlite/lib"
)

// ErrUserExists is returned when a registration collides with an existing
// email or roll number.
var ErrUserExists = errors.New("user already exists")

// isUniqueViolation reports whether err is a unique/primary key violation
// for any of the supported drivers.
func isUniqueViolation(err error) bool {
    var myErr *mysql.MySQLError
    if errors.As(err, &myErr) {
        return myErr.Number == 1062 // ER_DUP_ENTRY
    }
    var pqErr *pq.Error
    if errors.As(err, &pqErr) {
        return pqErr.Code == "23505" // unique_violation
    }
    var liteErr *sqlite.Error
    if errors.As(err, &liteErr) {
        switch liteErr.Code() {
        case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
            return true
        }
    }
    // drivers without extended result codes
    return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}
