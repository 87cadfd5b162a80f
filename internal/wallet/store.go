package wallet

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates no wallet exists for the given identifier.
	ErrNotFound = errors.New("wallet not found")

	// ErrExists indicates the owner already has a wallet.
	ErrExists = errors.New("wallet already exists")
)

// Store persists wallets. Get and GetByOwner are plain committed reads.
// Lock and LockByOwner acquire an exclusive row lock and are only meaningful
// inside an active atomic unit; Credit and Debit must run inside the same
// unit as the lock covering the row they mutate.
type Store interface {
	Create(ctx context.Context, w Wallet) error
	Get(ctx context.Context, walletID string) (Wallet, error)
	GetByOwner(ctx context.Context, ownerID string) (Wallet, error)
	Lock(ctx context.Context, walletID string) (Wallet, error)
	LockByOwner(ctx context.Context, ownerID string) (Wallet, error)
	Credit(ctx context.Context, walletID string, amount decimal.Decimal) error
	Debit(ctx context.Context, walletID string, amount decimal.Decimal) error
}
