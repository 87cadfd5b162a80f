package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type memoryStore struct {
	mu      sync.RWMutex
	byID    map[string]Wallet
	byOwner map[string]string
}

// NewMemoryStore constructs an in-memory wallet store for tests and DB-less
// development. Atomicity comes from the serializing MemoryRunner, so Lock
// degenerates to a read.
func NewMemoryStore() Store {
	return &memoryStore{
		byID:    make(map[string]Wallet),
		byOwner: make(map[string]string),
	}
}

func (s *memoryStore) Create(_ context.Context, w Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byOwner[w.OwnerID]; exists {
		return ErrExists
	}
	if _, exists := s.byID[w.ID]; exists {
		return ErrExists
	}
	s.byID[w.ID] = w
	s.byOwner[w.OwnerID] = w.ID
	return nil
}

func (s *memoryStore) Get(_ context.Context, walletID string) (Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.byID[walletID]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return w, nil
}

func (s *memoryStore) GetByOwner(_ context.Context, ownerID string) (Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byOwner[ownerID]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return s.byID[id], nil
}

func (s *memoryStore) Lock(ctx context.Context, walletID string) (Wallet, error) {
	return s.Get(ctx, walletID)
}

func (s *memoryStore) LockByOwner(ctx context.Context, ownerID string) (Wallet, error) {
	return s.GetByOwner(ctx, ownerID)
}

func (s *memoryStore) Credit(ctx context.Context, walletID string, amount decimal.Decimal) error {
	return s.adjust(walletID, amount)
}

func (s *memoryStore) Debit(ctx context.Context, walletID string, amount decimal.Decimal) error {
	return s.adjust(walletID, amount.Neg())
}

func (s *memoryStore) adjust(walletID string, delta decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.byID[walletID]
	if !ok {
		return ErrNotFound
	}
	w.Balance = w.Balance.Add(delta)
	w.UpdatedAt = time.Now().UTC()
	s.byID[walletID] = w
	return nil
}
