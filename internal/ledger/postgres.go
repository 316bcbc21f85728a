package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists wallets and movements in PostgreSQL. All per-wallet
// mutual exclusion lives here: the wallet row lock is held across the
// check-then-write so that applies from any number of replicas serialize.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed ledger store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Apply commits the balance update and the movement row as one transaction,
// or nothing at all. The connection is held only for this single unit.
func (s *PostgresStore) Apply(ctx context.Context, walletID int64, m Movement) (ApplyResult, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return ApplyResult{}, storeErr("begin apply tx", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var balance, creditLimit int64
	row := tx.QueryRow(ctx, `SELECT balance, credit_limit FROM wallets WHERE id = $1 FOR UPDATE`, walletID)
	if err := row.Scan(&balance, &creditLimit); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ApplyResult{}, ErrWalletNotFound
		}
		return ApplyResult{}, storeErr("lock wallet", err)
	}

	candidate := balance + m.Kind.Delta(m.Amount)
	if candidate < -creditLimit {
		return ApplyResult{}, ErrInsufficientLimit
	}

	if _, err := tx.Exec(ctx, `UPDATE wallets SET balance = $1 WHERE id = $2`, candidate, walletID); err != nil {
		return ApplyResult{}, storeErr("update balance", err)
	}

	if _, err := tx.Exec(ctx, `INSERT INTO movements (wallet_id, amount, kind, description)
        VALUES ($1, $2, $3, $4)`, walletID, m.Amount, string(m.Kind), m.Description); err != nil {
		return ApplyResult{}, storeErr("insert movement", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return ApplyResult{}, storeErr("commit apply tx", err)
	}

	return ApplyResult{Balance: candidate, CreditLimit: creditLimit}, nil
}

// Statement reads the wallet and its latest movements from a single
// repeatable-read snapshot so balance and history never disagree.
func (s *PostgresStore) Statement(ctx context.Context, walletID int64) (Statement, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return Statement{}, storeErr("begin statement tx", err)
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	var st Statement
	row := tx.QueryRow(ctx, `SELECT balance, credit_limit, now() FROM wallets WHERE id = $1`, walletID)
	if err := row.Scan(&st.Balance, &st.CreditLimit, &st.GeneratedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Statement{}, ErrWalletNotFound
		}
		return Statement{}, storeErr("read wallet", err)
	}

	rows, err := tx.Query(ctx, `SELECT id, wallet_id, amount, kind, description, recorded_at
        FROM movements
        WHERE wallet_id = $1
        ORDER BY recorded_at DESC, id DESC
        LIMIT $2`, walletID, StatementLimit)
	if err != nil {
		return Statement{}, storeErr("read movements", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m Movement
		var kind string
		if err := rows.Scan(&m.ID, &m.WalletID, &m.Amount, &kind, &m.Description, &m.RecordedAt); err != nil {
			return Statement{}, storeErr("scan movement", err)
		}
		m.Kind = Kind(kind)
		st.Movements = append(st.Movements, m)
	}
	if err := rows.Err(); err != nil {
		return Statement{}, storeErr("iterate movements", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Statement{}, storeErr("commit statement tx", err)
	}

	return st, nil
}

// storeErr classifies a Postgres failure: contention surfaces as
// ErrConflict so callers may retry; everything else is ErrUnavailable.
func storeErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
			return fmt.Errorf("%s: %w: %w", op, ErrConflict, err)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
