package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mbongo-pay/mbongo_pay/internal/storage"
)

const uniqueViolation = "23505"

// PostgresLedger persists entries in PostgreSQL. The transactions table
// carries a unique index on reference; there is deliberately no UPDATE or
// DELETE statement in this file. Wallet identifiers are stored as opaque
// text: a failed attempt may legitimately reference a wallet that does not
// exist.
type PostgresLedger struct {
	db *pgxpool.Pool
}

// NewPostgresLedger constructs a Postgres-backed ledger implementation.
func NewPostgresLedger(db *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{db: db}
}

const entryColumns = `id, from_wallet_id, to_wallet_id, amount::text, reference, kind, status, reason, created_at`

// Record appends one immutable entry and returns its generated identifier.
// Inside an atomic unit the append commits or aborts with the unit.
func (l *PostgresLedger) Record(ctx context.Context, e Entry) (string, error) {
	id := uuid.New()

	var from any
	if e.FromWalletID != "" {
		from = e.FromWalletID
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	q := storage.QuerierFrom(ctx, l.db)
	_, err := q.Exec(ctx, `INSERT INTO transactions (id, from_wallet_id, to_wallet_id, amount, reference, kind, status, reason, created_at)
        VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9)`,
		id, from, e.ToWalletID, e.Amount.String(), e.Reference, string(e.Type), string(e.Status), string(e.Reason), createdAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return "", ErrDuplicateReference
	}
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// FindByReference returns the entry recorded under the caller's reference.
func (l *PostgresLedger) FindByReference(ctx context.Context, reference string) (Entry, error) {
	row := storage.QuerierFrom(ctx, l.db).QueryRow(ctx,
		`SELECT `+entryColumns+` FROM transactions WHERE reference = $1`, reference)
	return scanEntry(row)
}

// ListByWallet returns the most recent entries touching the wallet.
func (l *PostgresLedger) ListByWallet(ctx context.Context, walletID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := storage.QuerierFrom(ctx, l.db).Query(ctx,
		`SELECT `+entryColumns+` FROM transactions
         WHERE from_wallet_id = $1 OR to_wallet_id = $1
         ORDER BY created_at DESC LIMIT $2`, walletID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (Entry, error) {
	var (
		e       Entry
		id      uuid.UUID
		from    *string
		amount  string
		kind    string
		status  string
		reason  string
		created time.Time
	)
	if err := row.Scan(&id, &from, &e.ToWalletID, &amount, &e.Reference, &kind, &status, &reason, &created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return Entry{}, fmt.Errorf("parse amount: %w", err)
	}
	e.ID = id.String()
	if from != nil {
		e.FromWalletID = *from
	}
	e.Amount = parsed
	e.Type = Type(kind)
	e.Status = Status(status)
	e.Reason = Reason(reason)
	e.CreatedAt = created.UTC()
	return e, nil
}
