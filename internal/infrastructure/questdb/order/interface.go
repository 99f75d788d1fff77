package order

import "context"

// OrderRepository is the interface for the order snapshot repository.
//
//go:generate mockgen -source=repository.go -destination=mock/repository_mock.go -package=mock
type OrderRepository interface {
	GetByOwner(ctx context.Context, owner string) ([]*Row, error)
	StoreSnapshot(ctx context.Context, rows []*Row) error
}
