package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTxTimeout bounds how long a reservation transaction may wait on lock
// or commit resolution before it fails as retryable instead of hanging.
const DefaultTxTimeout = 5 * time.Second

// ErrTxConflict reports a serialization failure or deadlock: the transaction
// lost a race with a concurrent writer and may safely be retried.
var ErrTxConflict = errors.New("transaction conflict")

// ErrTxTimeout reports that the transaction exceeded its deadline.
var ErrTxTimeout = errors.New("transaction timed out")

// TxRunner executes a function inside a single serializable transaction.
// The function receives a context carrying the transaction querier, so every
// repository call made with it joins the same atomic unit.
type TxRunner interface {
	RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// PgTxRunner runs serializable transactions against a pgx pool.
type PgTxRunner struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewPgTxRunner(pool *pgxpool.Pool) *PgTxRunner {
	return &PgTxRunner{pool: pool, timeout: DefaultTxTimeout}
}

// RunSerializable begins a SERIALIZABLE transaction with a bounded deadline,
// invokes fn with the transaction in context, and commits on success. A
// serialization failure, deadlock or deadline maps to ErrTxConflict or
// ErrTxTimeout so callers can surface "busy, retry" distinctly from a
// deterministic failure. Any error from fn rolls the transaction back.
func (r *PgTxRunner) RunSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	txCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.pool.BeginTx(txCtx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return classifyTxError(fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback(txCtx)

	if err := fn(WithQuerier(txCtx, tx)); err != nil {
		return classifyTxError(err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return classifyTxError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// Serialization and lock failure SQLSTATEs reported by Postgres.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
)

// classifyTxError maps driver-reported retryable failures onto the sentinel
// errors; everything else passes through unchanged.
func classifyTxError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
			return fmt.Errorf("%w: %s", ErrTxConflict, pgErr.Message)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTxTimeout, err)
	}
	return err
}
