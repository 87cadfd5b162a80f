package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is an account holder's stored monetary balance. Balance is a
// fixed-point decimal and is never represented as a binary float; the store
// keeps it in a NUMERIC column and every committed read observes it >= 0.
type Wallet struct {
	ID        string
	OwnerID   string
	Balance   decimal.Decimal
	Currency  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Balance is the answer to the balance query boundary.
type Balance struct {
	WalletID string
	OwnerID  string
	Amount   decimal.Decimal
	Currency string
	AsOf     time.Time
}
