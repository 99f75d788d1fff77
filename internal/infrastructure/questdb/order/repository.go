package order

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gnosis/gp-v1-ui-sub001/pkg/questdb"
)

const orderColumns = `order_id, owner, buy_token_id, sell_token_id, valid_from, valid_until,
		  price_numerator, price_denominator, remaining_amount, sell_token_balance,
		  is_unlimited, pending, tx_hash, snapshot_at`

// Repository represents the repository for order snapshots.
type Repository struct {
	client questdb.Client
}

// NewRepository creates a new order repository.
func NewRepository(client questdb.Client) *Repository {
	return &Repository{
		client: client,
	}
}

// StoreSnapshot stores a full owner snapshot inside one transaction so a
// reader never observes a half-written snapshot.
func (r *Repository) StoreSnapshot(ctx context.Context, rows []*Row) error {
	if len(rows) == 0 {
		return nil
	}

	txCtx, err := r.client.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}

	_, err = r.client.CopyFrom(
		txCtx,
		pgx.Identifier{"orders"},
		[]string{
			"order_id", "owner", "buy_token_id", "sell_token_id", "valid_from", "valid_until",
			"price_numerator", "price_denominator", "remaining_amount", "sell_token_balance",
			"is_unlimited", "pending", "tx_hash", "snapshot_at",
		},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			row := rows[i]
			return []any{
				row.OrderID, row.Owner, row.BuyTokenID, row.SellTokenID, row.ValidFrom, row.ValidUntil,
				row.PriceNumerator, row.PriceDenominator, row.RemainingAmount, row.SellTokenBalance,
				row.IsUnlimited, row.Pending, row.TxHash, row.SnapshotAt,
			}, nil
		}),
	)
	if err != nil {
		if rollbackErr := r.client.Rollback(txCtx); rollbackErr != nil {
			return fmt.Errorf("failed to rollback snapshot: %w", rollbackErr)
		}
		return fmt.Errorf("failed to copy orders: %w", err)
	}

	if err := r.client.Commit(txCtx); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return nil
}

// GetByOwner retrieves the most recent snapshot stored for an owner.
func (r *Repository) GetByOwner(ctx context.Context, owner string) ([]*Row, error) {
	query := "SELECT " + orderColumns + ` FROM orders
		  WHERE owner = $1
		  AND snapshot_at = (SELECT MAX(snapshot_at) FROM orders WHERE owner = $2)
		  ORDER BY order_id`

	rows, err := r.client.Query(ctx, query, owner, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []*Row
	for rows.Next() {
		row := &Row{}
		err := rows.Scan(
			&row.OrderID, &row.Owner, &row.BuyTokenID, &row.SellTokenID, &row.ValidFrom, &row.ValidUntil,
			&row.PriceNumerator, &row.PriceDenominator, &row.RemainingAmount, &row.SellTokenBalance,
			&row.IsUnlimited, &row.Pending, &row.TxHash, &row.SnapshotAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}
