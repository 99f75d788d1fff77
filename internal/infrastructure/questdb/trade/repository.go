package trade

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gnosis/gp-v1-ui-sub001/pkg/questdb"
)

const tradeColumns = `id, timestamp, settling_timestamp, batch_id, owner, order_id,
		  sell_token_id, buy_token_id, sell_amount, buy_amount,
		  fill_price, limit_price, revert_id, revert_timestamp,
		  block_number, tx_hash, event_index`

// Repository represents the repository for trade data.
type Repository struct {
	client questdb.Client
}

// NewRepository creates a new trade repository.
func NewRepository(client questdb.Client) *Repository {
	return &Repository{
		client: client,
	}
}

// Store stores a single trade.
func (r *Repository) Store(ctx context.Context, row *Row) error {
	query := `INSERT INTO trades (` + tradeColumns + `)
		  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	err := r.client.Exec(ctx, query,
		row.ID, row.Timestamp, row.SettlingTimestamp, row.BatchID, row.Owner, row.OrderID,
		row.SellTokenID, row.BuyTokenID, row.SellAmount, row.BuyAmount,
		row.FillPrice, row.LimitPrice, row.RevertID, row.RevertTimestamp,
		row.BlockNumber, row.TxHash, row.EventIndex)

	if err != nil {
		return fmt.Errorf("failed to store trade: %w", err)
	}

	return nil
}

// StoreBatch stores a batch of trades in one copy operation.
func (r *Repository) StoreBatch(ctx context.Context, rows []*Row) error {
	if len(rows) == 0 {
		return nil
	}

	_, err := r.client.CopyFrom(
		ctx,
		pgx.Identifier{"trades"},
		[]string{
			"id", "timestamp", "settling_timestamp", "batch_id", "owner", "order_id",
			"sell_token_id", "buy_token_id", "sell_amount", "buy_amount",
			"fill_price", "limit_price", "revert_id", "revert_timestamp",
			"block_number", "tx_hash", "event_index",
		},
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			row := rows[i]
			return []any{
				row.ID, row.Timestamp, row.SettlingTimestamp, row.BatchID, row.Owner, row.OrderID,
				row.SellTokenID, row.BuyTokenID, row.SellAmount, row.BuyAmount,
				row.FillPrice, row.LimitPrice, row.RevertID, row.RevertTimestamp,
				row.BlockNumber, row.TxHash, row.EventIndex,
			}, nil
		}),
	)

	if err != nil {
		return fmt.Errorf("failed to copy trades: %w", err)
	}

	return nil
}

// Update rewrites the revert annotation of an already stored trade.
func (r *Repository) Update(ctx context.Context, row *Row) error {
	query := `UPDATE trades SET revert_id = $1, revert_timestamp = $2 WHERE id = $3`

	err := r.client.Exec(ctx, query, row.RevertID, row.RevertTimestamp, row.ID)
	if err != nil {
		return fmt.Errorf("failed to update trade: %w", err)
	}

	return nil
}

// GetByFilter retrieves trades by filter, newest first.
func (r *Repository) GetByFilter(ctx context.Context, filter Filter) ([]*Row, error) {
	query := "SELECT " + tradeColumns + " FROM trades WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.Owner != "" {
		query += fmt.Sprintf(" AND owner = $%d", argIndex)
		args = append(args, filter.Owner)
		argIndex++
	}

	if filter.OrderID != "" {
		query += fmt.Sprintf(" AND order_id = $%d", argIndex)
		args = append(args, filter.OrderID)
		argIndex++
	}

	if filter.BatchFrom != nil {
		query += fmt.Sprintf(" AND batch_id >= $%d", argIndex)
		args = append(args, int64(*filter.BatchFrom))
		argIndex++
	}

	if filter.BatchTo != nil {
		query += fmt.Sprintf(" AND batch_id <= $%d", argIndex)
		args = append(args, int64(*filter.BatchTo))
		argIndex++
	}

	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
	}

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
	}

	rows, err := r.client.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var result []*Row
	for rows.Next() {
		row := &Row{}
		err := rows.Scan(
			&row.ID, &row.Timestamp, &row.SettlingTimestamp, &row.BatchID, &row.Owner, &row.OrderID,
			&row.SellTokenID, &row.BuyTokenID, &row.SellAmount, &row.BuyAmount,
			&row.FillPrice, &row.LimitPrice, &row.RevertID, &row.RevertTimestamp,
			&row.BlockNumber, &row.TxHash, &row.EventIndex)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// GetLatestBlock retrieves the highest block number any stored trade was
// observed in, 0 when the table is empty.
func (r *Repository) GetLatestBlock(ctx context.Context) (uint64, error) {
	query := `SELECT block_number FROM trades ORDER BY block_number DESC LIMIT 1`

	var blockNumber int64
	err := r.client.QueryRow(ctx, query).Scan(&blockNumber)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get latest block: %w", err)
	}

	return uint64(blockNumber), nil
}
