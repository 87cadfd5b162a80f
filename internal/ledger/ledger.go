package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates no ledger entry matches the lookup.
	ErrNotFound = errors.New("ledger entry not found")

	// ErrDuplicateReference indicates the caller-supplied reference was
	// already recorded; the prior outcome should be replayed instead of
	// re-executing the transfer.
	ErrDuplicateReference = errors.New("duplicate reference")
)

// Type enumerates ledger entry kinds. The transfer engine writes TRANSFER only.
type Type string

// TypeTransfer is a wallet-to-wallet transfer attempt.
const TypeTransfer Type = "TRANSFER"

// Status enumerates terminal outcomes of a recorded attempt.
type Status string

const (
	// StatusSuccess marks an attempt whose balance mutations committed.
	StatusSuccess Status = "SUCCESS"
	// StatusFailed marks an attempt that moved no money.
	StatusFailed Status = "FAILED"
)

// Reason is a machine-readable failure code; empty on success.
type Reason string

const (
	ReasonMissingParameters         Reason = "MISSING_PARAMETERS"
	ReasonWalletNotFound            Reason = "WALLET_NOT_FOUND"
	ReasonDestinationWalletNotFound Reason = "DESTINATION_WALLET_NOT_FOUND"
	ReasonInsufficientBalance       Reason = "INSUFFICIENT_BALANCE"
	ReasonInternalError             Reason = "INTERNAL_ERROR"
)

// Entry is one immutable record of a transfer attempt. Entries are
// write-once: no update or delete path exists anywhere in the engine.
type Entry struct {
	ID           string
	FromWalletID string // empty when the source wallet could not be resolved
	ToWalletID   string
	Amount       decimal.Decimal
	Reference    string
	Type         Type
	Status       Status
	Reason       Reason
	CreatedAt    time.Time
}

// Ledger appends and reads transfer attempt records. Record participates in
// the caller's atomic unit when one is active; reference uniqueness is
// enforced at write time.
type Ledger interface {
	Record(ctx context.Context, e Entry) (string, error)
	FindByReference(ctx context.Context, reference string) (Entry, error)
	ListByWallet(ctx context.Context, walletID string, limit int) ([]Entry, error)
}
