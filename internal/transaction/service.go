package transaction

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
	defaultRetryBase  = 20 * time.Millisecond
)

// RetryPolicy bounds the engine's transparent retries of transient store
// conflicts. Zero values fall back to defaults.
type RetryPolicy struct {
	MaxRetries uint64
	BaseDelay  time.Duration
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	if p.MaxRetries == 0 {
		p.MaxRetries = defaultMaxRetries
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = defaultRetryBase
	}
	return p
}

// Engine applies validated movements against the ledger store. Atomicity of
// the check-and-update is the store's job; the engine's job is classifying
// outcomes and retrying only what is genuinely transient.
type Engine struct {
	store  ledger.Store
	logger *slog.Logger
	retry  RetryPolicy
}

// NewEngine builds a transaction engine.
func NewEngine(store ledger.Store, logger *slog.Logger, retry RetryPolicy) *Engine {
	return &Engine{store: store, logger: logger, retry: retry.withDefaults()}
}

// Apply commits a validator-clean movement to the wallet, returning the
// post-commit balance and credit limit.
//
// ErrInsufficientLimit and ErrWalletNotFound are business outcomes and are
// never retried. ErrConflict is retried with exponential backoff and jitter
// up to the policy bound; on exhaustion it surfaces as ErrUnavailable, at
// which point no partial effect was committed and the caller may resubmit.
func (e *Engine) Apply(ctx context.Context, walletID int64, m ledger.Movement) (ledger.ApplyResult, error) {
	attempts := 0
	op := func() (ledger.ApplyResult, error) {
		attempts++
		res, err := e.store.Apply(ctx, walletID, m)
		if err != nil && !errors.Is(err, ledger.ErrConflict) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}

	res, err := backoff.RetryWithData(op, e.newBackOff(ctx))
	if err != nil {
		if errors.Is(err, ledger.ErrConflict) {
			e.logger.Warn("apply retries exhausted",
				slog.Int64("wallet_id", walletID),
				slog.Int("attempts", attempts),
				slog.Any("error", err))
			return ledger.ApplyResult{}, fmt.Errorf("apply wallet %d: %w: %w", walletID, ledger.ErrUnavailable, err)
		}
		return ledger.ApplyResult{}, err
	}
	return res, nil
}

func (e *Engine) newBackOff(ctx context.Context) backoff.BackOffContext {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = e.retry.BaseDelay
	bo.MaxInterval = e.retry.BaseDelay * 8
	return backoff.WithContext(backoff.WithMaxRetries(bo, e.retry.MaxRetries), ctx)
}
