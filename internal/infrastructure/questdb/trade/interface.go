package trade

import "context"

// TradeRepository is the interface for the trade repository.
//
//go:generate mockgen -source=repository.go -destination=mock/repository_mock.go -package=mock
type TradeRepository interface {
	GetByFilter(ctx context.Context, filter Filter) ([]*Row, error)
	GetLatestBlock(ctx context.Context) (uint64, error)
	Store(ctx context.Context, row *Row) error
	StoreBatch(ctx context.Context, rows []*Row) error
	Update(ctx context.Context, row *Row) error
}
