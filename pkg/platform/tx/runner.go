package tx

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	dErrors "trs/pkg/domain-errors"
)

const defaultTxTimeout = 5 * time.Second

// Runner is the commit boundary for a domain action. Everything fn writes
// through a store that honours From(ctx) commits or rolls back together.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SQLRunner runs fn inside a database/sql transaction.
type SQLRunner struct {
	db      *sql.DB
	timeout time.Duration
}

type SQLRunnerOption func(*SQLRunner)

// WithTimeout bounds transactions started without a caller deadline.
func WithTimeout(d time.Duration) SQLRunnerOption {
	return func(r *SQLRunner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func NewSQLRunner(db *sql.DB, opts ...SQLRunnerOption) *SQLRunner {
	r := &SQLRunner{db: db, timeout: defaultTxTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunInTx begins a transaction, places it on ctx and commits if fn returns
// nil. A transaction already on ctx is reused so nested actions share one
// commit.
func (r *SQLRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, ok := From(ctx); ok {
		return fn(ctx)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(WithTx(ctx, sqlTx)); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
