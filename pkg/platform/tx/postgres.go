package tx

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresRunner opens a SQL transaction and exposes it to stores through the context.
type PostgresRunner struct {
	db *sql.DB
}

// NewPostgresRunner builds a runner over db.
func NewPostgresRunner(db *sql.DB) *PostgresRunner {
	return &PostgresRunner{db: db}
}

func (r *PostgresRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel, err := bound(ctx, 0)
	if err != nil {
		return err
	}
	defer cancel()

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
