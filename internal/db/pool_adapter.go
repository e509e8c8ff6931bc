package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/rawload/pkg/rawload"
)

// PoolAdapter adapts *pgxpool.Pool to implement the rawload.DBConnection
// interface. This decouples the internal implementation from the public API,
// preventing direct exposure of pgx-specific types.
//
// Thread-Safety: Safe for concurrent use (pgxpool.Pool is thread-safe).
type PoolAdapter struct {
	pool *pgxpool.Pool
}

// NewPoolAdapter creates a new PoolAdapter wrapping the given pool.
func NewPoolAdapter(pool *pgxpool.Pool) rawload.DBConnection {
	return &PoolAdapter{pool: pool}
}

// Exec executes a query without returning any rows.
func (p *PoolAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.pool.Exec(ctx, sql, args...)
}

// QueryRow executes a query that is expected to return at most one row.
func (p *PoolAdapter) QueryRow(ctx context.Context, sql string, args ...any) rawload.Row {
	return &rowAdapter{row: p.pool.QueryRow(ctx, sql, args...)}
}

// Begin starts a transaction on a connection from the pool.
func (p *PoolAdapter) Begin(ctx context.Context) (rawload.Tx, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &txAdapter{tx: tx}, nil
}

// rowAdapter adapts pgx.Row to implement rawload.Row.
type rowAdapter struct {
	row interface{ Scan(...any) error }
}

// Scan reads the values from the row into dest values.
func (r *rowAdapter) Scan(dest ...any) error {
	return r.row.Scan(dest...)
}

// txAdapter adapts pgx.Tx to implement rawload.Tx.
type txAdapter struct {
	tx pgx.Tx
}

// Exec executes a query within the transaction.
func (t *txAdapter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.tx.Exec(ctx, sql, args...)
}

// Commit commits the transaction.
func (t *txAdapter) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback aborts the transaction. Safe to call after Commit.
func (t *txAdapter) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err == pgx.ErrTxClosed {
		return nil
	}
	return err
}

// Verify PoolAdapter implements DBConnection at compile time
var _ rawload.DBConnection = (*PoolAdapter)(nil)
