package statement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/saldo-pay/saldo_pay/internal/ledger"
)

const (
	defaultMaxRetries = 3
	defaultRetryBase  = 10 * time.Millisecond
)

// Reader serves consistent balance-plus-history snapshots. It never mutates
// state, so transient snapshot failures are safe to retry.
type Reader struct {
	store  ledger.Store
	logger *slog.Logger
}

// NewReader builds a statement reader.
func NewReader(store ledger.Store, logger *slog.Logger) *Reader {
	return &Reader{store: store, logger: logger}
}

// Statement returns the wallet's balance, credit limit and most recent
// movements as of a single snapshot.
func (r *Reader) Statement(ctx context.Context, walletID int64) (ledger.Statement, error) {
	op := func() (ledger.Statement, error) {
		st, err := r.store.Statement(ctx, walletID)
		if err != nil && !errors.Is(err, ledger.ErrConflict) {
			return st, backoff.Permanent(err)
		}
		return st, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = defaultRetryBase
	st, err := backoff.RetryWithData(op, backoff.WithContext(backoff.WithMaxRetries(bo, defaultMaxRetries), ctx))
	if err != nil {
		if errors.Is(err, ledger.ErrConflict) {
			r.logger.Warn("statement retries exhausted", slog.Int64("wallet_id", walletID), slog.Any("error", err))
			return ledger.Statement{}, fmt.Errorf("statement wallet %d: %w: %w", walletID, ledger.ErrUnavailable, err)
		}
		return ledger.Statement{}, err
	}
	return st, nil
}
