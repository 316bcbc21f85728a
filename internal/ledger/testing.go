package ledger

// SeedWallet provisions a wallet on the in-memory store, standing in for
// the out-of-band provisioning a real deployment does via migrations. No-op
// on other store implementations.
func SeedWallet(s Store, id, balance, creditLimit int64) {
	if mem, ok := s.(*memoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.wallets[id] = &walletState{balance: balance, creditLimit: creditLimit}
	}
}
