package redis

import (
	"context"
	"time"
)

//go:generate mockgen -source=interface.go -destination=mock/client_mock.go -package=mock

// Client is the subset of Redis operations this service uses.
type Client interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error

	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error

	HSet(ctx context.Context, key string, values map[string]string) error
	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) error
}
