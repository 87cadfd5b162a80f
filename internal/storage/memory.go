package storage

import (
	"context"
	"sync"
)

// MemoryRunner serializes atomic units behind a single mutex. It backs the
// in-memory stores used by tests and DB-less development runs: with every
// unit fully serialized, the in-memory stores need no undo log because the
// transfer protocol mutates nothing before its last failure point.
type MemoryRunner struct {
	mu sync.Mutex
}

// NewMemoryRunner builds a Runner that serializes units in-process.
func NewMemoryRunner() *MemoryRunner {
	return &MemoryRunner{}
}

// WithinTx runs fn while holding the global unit lock.
func (r *MemoryRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(ctx)
}
