package questdb

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type contextKey string

const txKey contextKey = "questdb_transaction"

// Begin starts a transaction and returns a context carrying it. Client
// operations invoked with the returned context run inside the transaction.
func (c *client) Begin(ctx context.Context) (context.Context, error) {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return context.WithValue(ctx, txKey, tx), nil
}

// Commit commits the transaction carried by ctx.
func (c *client) Commit(ctx context.Context) error {
	tx, ok := txFromContext(ctx)
	if !ok {
		return fmt.Errorf("no transaction found in context")
	}
	return tx.Commit(ctx)
}

// Rollback rolls back the transaction carried by ctx. Rolling back an
// already committed transaction is a no-op error pgx reports as closed.
func (c *client) Rollback(ctx context.Context) error {
	tx, ok := txFromContext(ctx)
	if !ok {
		return fmt.Errorf("no transaction found in context")
	}
	return tx.Rollback(ctx)
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	return tx, ok
}
