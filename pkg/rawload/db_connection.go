package rawload

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
)

// DBConnection abstracts the database operations the loader needs.
// This interface decouples the public API from pgx-specific types while
// providing the essential operations for schema assurance and row upserts.
//
// Thread-Safety: Implementations should follow their underlying connection's
// thread-safety guarantees. Connection pool implementations are typically
// safe for concurrent use, though the loader itself is strictly sequential.
type DBConnection interface {
	// Exec executes a query without returning any rows.
	// Returns CommandTag containing information about the query execution.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// QueryRow executes a query that is expected to return at most one row.
	// Always returns a non-nil Row. Errors are deferred until Row's Scan
	// method is called.
	QueryRow(ctx context.Context, sql string, args ...any) Row

	// Begin starts a transaction. Each table load runs inside one
	// transaction so a malformed row or constraint violation rolls the
	// whole table back.
	Begin(ctx context.Context) (Tx, error)
}

// Row represents a single row returned by QueryRow.
// This interface decouples from pgx.Row.
type Row interface {
	// Scan reads the values from the row into dest values.
	// Returns an error if no row was found or if the scan fails.
	Scan(dest ...any) error
}

// Tx represents an in-progress database transaction.
// The caller must call Commit or Rollback; Rollback after Commit is a no-op.
type Tx interface {
	// Exec executes a query within the transaction.
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	// Commit commits the transaction.
	Commit(ctx context.Context) error

	// Rollback aborts the transaction. Safe to call after Commit.
	Rollback(ctx context.Context) error
}
