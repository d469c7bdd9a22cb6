package ledger

// SeedBalance is a test helper that sets a wallet balance directly when using
// the in-memory ledger.
func SeedBalance(l Ledger, walletID string, amount int64) {
	if mem, ok := l.(*inMemoryLedger); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		w := mem.wallets[walletID]
		w.Balance = amount
		mem.wallets[walletID] = w
	}
}

// FailBeforeFinalize installs a hook on the in-memory ledger that runs after
// balances are staged but before the operation commits. Returning an error
// from the hook aborts the whole unit, which tests use to assert that no
// partial effect is ever visible.
func FailBeforeFinalize(l Ledger, hook func() error) {
	if mem, ok := l.(*inMemoryLedger); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.beforeFinalize = hook
	}
}
