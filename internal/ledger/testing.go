package ledger

// Size is a test helper reporting how many entries the in-memory ledger
// holds. It returns -1 for other backends.
func Size(l Ledger) int {
	mem, ok := l.(*memoryLedger)
	if !ok {
		return -1
	}
	mem.mu.RLock()
	defer mem.mu.RUnlock()
	return len(mem.entries)
}
