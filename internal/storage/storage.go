package storage

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx shared by a pool and an open transaction.
// Store implementations issue all SQL through it so the same code path runs
// inside and outside an atomic unit.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Runner executes a function inside one atomic unit. The unit commits when
// fn returns nil and rolls back otherwise; row locks taken inside the unit
// are released either way.
type Runner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// PgxRunner runs atomic units against a PostgreSQL pool.
type PgxRunner struct {
	pool *pgxpool.Pool
}

// NewPgxRunner builds a Runner on top of the shared connection pool.
func NewPgxRunner(pool *pgxpool.Pool) *PgxRunner {
	return &PgxRunner{pool: pool}
}

// WithinTx begins a transaction, exposes it to store calls through the
// context and commits or rolls back based on fn's outcome. Context
// cancellation aborts the unit and releases its locks.
func (r *PgxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// QuerierFrom returns the transaction bound to ctx when an atomic unit is
// active, or the pool for plain committed reads.
func QuerierFrom(ctx context.Context, pool *pgxpool.Pool) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}
