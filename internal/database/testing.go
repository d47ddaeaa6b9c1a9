package database

import (
    "context"
    "fmt"
    "sync/atomic"

    "github.com/jmoiron/sqlx"
)

var memSeq atomic.Int64

// OpenMemory returns a migrated, private in-memory SQLite database.  Each
// call gets its own database so tests do not share rows.
func OpenMemory(ctx context.Context) (*sqlx.DB, error) {
    dsn := fmt.Sprintf("file:memdb%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", memSeq.Add(1))
    db, err := OpenDSN(SQLite, dsn)
    if err != nil {
        return nil, err
    }
    if err := Migrate(ctx, db, SQLite); err != nil {
        _ = db.Close()
        return nil, err
    }
    return db, nil
}
