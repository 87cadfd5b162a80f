package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service exposes wallet onboarding and read operations. Balance mutation is
// owned exclusively by the transfer orchestrator.
type Service struct {
	store           Store
	defaultCurrency string
}

// NewService builds a wallet service instance.
func NewService(store Store, defaultCurrency string) *Service {
	if defaultCurrency == "" {
		defaultCurrency = "XAF"
	}
	return &Service{store: store, defaultCurrency: defaultCurrency}
}

// OpenInput captures data required to open a wallet.
type OpenInput struct {
	OwnerID        string
	Currency       string
	OpeningBalance decimal.Decimal
}

// Open provisions a wallet with an explicit opening balance. This is the
// only path that creates wallets; transfers never provision accounts.
func (s *Service) Open(ctx context.Context, input OpenInput) (Wallet, error) {
	if _, err := uuid.Parse(input.OwnerID); err != nil {
		return Wallet{}, fmt.Errorf("invalid owner id: %w", err)
	}
	if input.OpeningBalance.IsNegative() {
		return Wallet{}, fmt.Errorf("opening balance must not be negative")
	}

	currency := input.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	now := time.Now().UTC()
	w := Wallet{
		ID:        uuid.NewString(),
		OwnerID:   input.OwnerID,
		Balance:   input.OpeningBalance,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, w); err != nil {
		return Wallet{}, err
	}

	return w, nil
}

// Get retrieves wallet metadata by wallet identifier.
func (s *Service) Get(ctx context.Context, walletID string) (Wallet, error) {
	return s.store.Get(ctx, walletID)
}

// BalanceByOwner answers the balance query boundary: a plain committed read
// with no lock held beyond the read itself.
func (s *Service) BalanceByOwner(ctx context.Context, ownerID string) (Balance, error) {
	w, err := s.store.GetByOwner(ctx, ownerID)
	if err != nil {
		return Balance{}, err
	}
	return Balance{
		WalletID: w.ID,
		OwnerID:  w.OwnerID,
		Amount:   w.Balance,
		Currency: w.Currency,
		AsOf:     time.Now().UTC(),
	}, nil
}
