package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/satishbabariya/psyker-go/internal/debug"
	"github.com/satishbabariya/psyker-go/query/executor"
)

// TxFunc runs statements inside a transaction.
type TxFunc func(exec *executor.Executor) error

// Transaction runs fn in a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise, including when fn panics.
func (c *Client) Transaction(ctx context.Context, fn TxFunc) error {
	return c.TransactionWithOptions(ctx, nil, fn)
}

// TransactionWithOptions is Transaction with explicit isolation options.
func (c *Client) TransactionWithOptions(ctx context.Context, opts *sql.TxOptions, fn TxFunc) error {
	tx, err := c.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	exec := executor.New(&instrumented{db: tx, hooks: c.storage.hooks})
	if err := fn(exec); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			debug.Warn("rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
