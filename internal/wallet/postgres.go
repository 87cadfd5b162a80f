package wallet

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

// PostgresStore keeps wallets in PostgreSQL. Methods route through the
// atomic unit bound to the context when one is active.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a wallet store backed by PostgreSQL.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const walletColumns = `id, owner_id, balance::text, currency, created_at, updated_at`

// Create inserts a wallet row. A second wallet for the same owner surfaces ErrExists.
func (s *PostgresStore) Create(ctx context.Context, w Wallet) error {
	walletID, err := uuid.Parse(w.ID)
	if err != nil {
		return fmt.Errorf("parse wallet id: %w", err)
	}
	ownerID, err := uuid.Parse(w.OwnerID)
	if err != nil {
		return fmt.Errorf("parse owner id: %w", err)
	}

	q := storage.QuerierFrom(ctx, s.db)
	_, err = q.Exec(ctx, `INSERT INTO wallets (id, owner_id, balance, currency, created_at, updated_at)
        VALUES ($1, $2, $3::numeric, $4, $5, $5)`,
		walletID, ownerID, w.Balance.String(), w.Currency, w.CreatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrExists
	}
	return err
}

// Get fetches a wallet by identifier without locking it.
func (s *PostgresStore) Get(ctx context.Context, walletID string) (Wallet, error) {
	id, err := uuid.Parse(walletID)
	if err != nil {
		return Wallet{}, ErrNotFound
	}
	row := storage.QuerierFrom(ctx, s.db).QueryRow(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE id = $1`, id)
	return scanWallet(row)
}

// GetByOwner fetches the owner's wallet without locking it.
func (s *PostgresStore) GetByOwner(ctx context.Context, ownerID string) (Wallet, error) {
	id, err := uuid.Parse(ownerID)
	if err != nil {
		return Wallet{}, ErrNotFound
	}
	row := storage.QuerierFrom(ctx, s.db).QueryRow(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE owner_id = $1`, id)
	return scanWallet(row)
}

// Lock acquires an exclusive row lock on the wallet for the duration of the
// enclosing atomic unit and returns the locked state.
func (s *PostgresStore) Lock(ctx context.Context, walletID string) (Wallet, error) {
	id, err := uuid.Parse(walletID)
	if err != nil {
		return Wallet{}, ErrNotFound
	}
	row := storage.QuerierFrom(ctx, s.db).QueryRow(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE id = $1 FOR UPDATE`, id)
	return scanWallet(row)
}

// LockByOwner locks the owner's wallet row for the enclosing atomic unit.
func (s *PostgresStore) LockByOwner(ctx context.Context, ownerID string) (Wallet, error) {
	id, err := uuid.Parse(ownerID)
	if err != nil {
		return Wallet{}, ErrNotFound
	}
	row := storage.QuerierFrom(ctx, s.db).QueryRow(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE owner_id = $1 FOR UPDATE`, id)
	return scanWallet(row)
}

// Credit adds amount to the wallet balance and bumps updated_at.
func (s *PostgresStore) Credit(ctx context.Context, walletID string, amount decimal.Decimal) error {
	return s.adjust(ctx, walletID, amount)
}

// Debit subtracts amount from the wallet balance and bumps updated_at. The
// balance CHECK constraint backs the non-negativity invariant should the
// orchestrator's funds check ever be bypassed.
func (s *PostgresStore) Debit(ctx context.Context, walletID string, amount decimal.Decimal) error {
	return s.adjust(ctx, walletID, amount.Neg())
}

func (s *PostgresStore) adjust(ctx context.Context, walletID string, delta decimal.Decimal) error {
	id, err := uuid.Parse(walletID)
	if err != nil {
		return ErrNotFound
	}
	tag, err := storage.QuerierFrom(ctx, s.db).Exec(ctx,
		`UPDATE wallets SET balance = balance + $1::numeric, updated_at = now() WHERE id = $2`,
		delta.String(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanWallet(row pgx.Row) (Wallet, error) {
	var (
		w         Wallet
		id, owner uuid.UUID
		balance   string
		created   time.Time
		updated   time.Time
	)
	if err := row.Scan(&id, &owner, &balance, &w.Currency, &created, &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrNotFound
		}
		return Wallet{}, err
	}
	amount, err := decimal.NewFromString(balance)
	if err != nil {
		return Wallet{}, fmt.Errorf("parse balance: %w", err)
	}
	w.ID = id.String()
	w.OwnerID = owner.String()
	w.Balance = amount
	w.CreatedAt = created.UTC()
	w.UpdatedAt = updated.UTC()
	return w, nil
}
