package tx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// WithSavepoint runs fn under a savepoint when ctx carries a SQL transaction.
// A failed statement inside fn then rolls back to the savepoint instead of
// aborting the whole transaction, so the caller may retry. name must be a
// plain SQL identifier. Without a SQL transaction fn runs as is.
func WithSavepoint(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	sqlTx, ok := From(ctx)
	if !ok {
		return fn(ctx)
	}
	if _, err := sqlTx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("create savepoint %s: %w", name, err)
	}
	if err := fn(ctx); err != nil {
		if _, rbErr := sqlTx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback to savepoint %s: %w", name, rbErr))
		}
		return err
	}
	if _, err := sqlTx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("release savepoint %s: %w", name, err)
	}
	return nil
}
