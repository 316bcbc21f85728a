package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrWalletNotFound occurs when the referenced wallet id was never provisioned.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrInsufficientLimit indicates a movement that would push the wallet
	// balance below its negative credit limit. It is a business rejection,
	// never a transient fault, and must not be retried.
	ErrInsufficientLimit = errors.New("insufficient credit limit")

	// ErrConflict indicates transient store contention (serialization
	// failure, deadlock victim, lock timeout). Callers may retry a bounded
	// number of times.
	ErrConflict = errors.New("store conflict")

	// ErrUnavailable indicates the store is unreachable or failed in a way
	// that cannot be recovered within the current request. No partial effect
	// was committed, so the caller may resubmit the whole request.
	ErrUnavailable = errors.New("store unavailable")
)

// StatementLimit is the number of movements a statement returns. It is a
// wire contract with downstream clients, not a tunable.
const StatementLimit = 10

// Kind is the direction of a movement on the wire: "c" credits the wallet,
// "d" debits it. Amounts are always positive; direction lives here.
type Kind string

const (
	KindCredit Kind = "c"
	KindDebit  Kind = "d"
)

// ParseKind decodes a wire kind value.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindCredit, KindDebit:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("invalid movement kind %q", s)
	}
}

// Delta returns the signed balance change for a positive amount.
func (k Kind) Delta(amount int64) int64 {
	if k == KindDebit {
		return -amount
	}
	return amount
}

// Wallet is a provisioned account. Balance is in the smallest currency unit
// and may go negative down to -CreditLimit. CreditLimit is fixed at
// provisioning time.
type Wallet struct {
	ID          int64
	Balance     int64
	CreditLimit int64
}

// Movement is a single committed credit or debit. ID and RecordedAt are
// assigned by the store at insertion; the movement log is append-only.
type Movement struct {
	ID          int64
	WalletID    int64
	Amount      int64
	Kind        Kind
	Description string
	RecordedAt  time.Time
}

// ApplyResult carries the wallet state as of the just-committed movement.
type ApplyResult struct {
	Balance     int64
	CreditLimit int64
}

// Statement is a consistent snapshot of a wallet: balance, limit and the
// most recent movements all observed at a single point in time.
type Statement struct {
	Balance     int64
	CreditLimit int64
	GeneratedAt time.Time
	Movements   []Movement
}

// Store is the contract implemented by ledger backends.
//
// Apply atomically checks the credit limit and commits the balance update
// together with the movement row; concurrent applies against the same
// wallet serialize on the store's own locking. Statement reads balance,
// limit and the latest StatementLimit movements (most recent first, ties
// broken by id descending) from one snapshot.
type Store interface {
	Apply(ctx context.Context, walletID int64, m Movement) (ApplyResult, error)
	Statement(ctx context.Context, walletID int64) (Statement, error)
}
