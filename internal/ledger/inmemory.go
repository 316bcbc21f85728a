package ledger

import (
	"context"
	"sync"
	"time"
)

// walletState holds one wallet's mutable state behind its own lock so that
// applies against different wallets never block each other.
type walletState struct {
	mu          sync.Mutex
	balance     int64
	creditLimit int64
	movements   []Movement
	lastStamp   time.Time
}

type memoryStore struct {
	mu      sync.RWMutex
	wallets map[int64]*walletState

	idMu   sync.Mutex
	nextID int64

	now func() time.Time
}

// NewInMemory creates a concurrency-safe in-memory ledger store useful for
// unit tests and local development without Postgres. Movement ids are
// assigned monotonically and recorded_at is non-decreasing per wallet.
func NewInMemory() Store {
	return &memoryStore{
		wallets: make(map[int64]*walletState),
		now:     time.Now,
	}
}

func (s *memoryStore) wallet(id int64) (*walletState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wallets[id]
	return w, ok
}

func (s *memoryStore) assignID() int64 {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	s.nextID++
	return s.nextID
}

func (s *memoryStore) Apply(_ context.Context, walletID int64, m Movement) (ApplyResult, error) {
	w, ok := s.wallet(walletID)
	if !ok {
		return ApplyResult{}, ErrWalletNotFound
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	candidate := w.balance + m.Kind.Delta(m.Amount)
	if candidate < -w.creditLimit {
		return ApplyResult{}, ErrInsufficientLimit
	}

	stamp := s.now().UTC()
	if stamp.Before(w.lastStamp) {
		stamp = w.lastStamp
	}

	m.ID = s.assignID()
	m.WalletID = walletID
	m.RecordedAt = stamp

	w.balance = candidate
	w.movements = append(w.movements, m)
	w.lastStamp = stamp

	return ApplyResult{Balance: candidate, CreditLimit: w.creditLimit}, nil
}

func (s *memoryStore) Statement(_ context.Context, walletID int64) (Statement, error) {
	w, ok := s.wallet(walletID)
	if !ok {
		return Statement{}, ErrWalletNotFound
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	st := Statement{
		Balance:     w.balance,
		CreditLimit: w.creditLimit,
		GeneratedAt: s.now().UTC(),
	}

	// Movements are appended in commit order, so walking backwards yields
	// most-recent-first with id ties already resolved descending.
	n := len(w.movements)
	limit := StatementLimit
	if n < limit {
		limit = n
	}
	for i := 0; i < limit; i++ {
		st.Movements = append(st.Movements, w.movements[n-1-i])
	}

	return st, nil
}
