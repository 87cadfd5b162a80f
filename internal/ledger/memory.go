package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryLedger struct {
	mu          sync.RWMutex
	entries     map[string]Entry
	byReference map[string]string
}

// NewMemory creates a concurrency-safe in-memory ledger useful for unit
// tests and DB-less development. It enforces the same reference uniqueness
// the Postgres index does.
func NewMemory() Ledger {
	return &memoryLedger{
		entries:     make(map[string]Entry),
		byReference: make(map[string]string),
	}
}

func (l *memoryLedger) Record(_ context.Context, e Entry) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.byReference[e.Reference]; exists {
		return "", ErrDuplicateReference
	}

	e.ID = uuid.NewString()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	l.entries[e.ID] = e
	l.byReference[e.Reference] = e.ID
	return e.ID, nil
}

func (l *memoryLedger) FindByReference(_ context.Context, reference string) (Entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	id, ok := l.byReference[reference]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return l.entries[id], nil
}

func (l *memoryLedger) ListByWallet(_ context.Context, walletID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	var entries []Entry
	for _, e := range l.entries {
		if e.FromWalletID == walletID || e.ToWalletID == walletID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
