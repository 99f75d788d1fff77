// Package cache is the redis persistence boundary for state that must
// survive restarts but does not belong in QuestDB: pending-order
// markers, user-added token lists, and order book snapshots. Everything
// is stored as JSON, keyed by network id so switching chains never mixes
// state.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	orderv1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/order/v1"
	orderbookv1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/orderbook/v1"
	tokenv1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/token/v1"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/redis"
)

// OrderBookTTL bounds how long a stored order book snapshot may be
// served; the poller refreshes well inside it.
const OrderBookTTL = time.Minute

// Store represents the redis-backed cache store.
type Store struct {
	client    redis.Client
	networkID uint64
}

// NewStore creates a new Store scoped to one network.
func NewStore(client redis.Client, networkID uint64) *Store {
	return &Store{
		client:    client,
		networkID: networkID,
	}
}

func (s *Store) pendingOrdersKey(user common.Address) string {
	return fmt.Sprintf("net:%d:pending_orders:%s", s.networkID, user.Hex())
}

func (s *Store) userTokensKey() string {
	return fmt.Sprintf("net:%d:user_tokens", s.networkID)
}

func (s *Store) orderBookKey(baseTokenID, quoteTokenID uint16) string {
	return fmt.Sprintf("net:%d:orderbook:%d-%d", s.networkID, baseTokenID, quoteTokenID)
}

// PutPendingOrders replaces the pending-order markers for a user.
func (s *Store) PutPendingOrders(ctx context.Context, user common.Address, orders []*orderv1.AuctionElement) error {
	if len(orders) == 0 {
		return s.client.Del(ctx, s.pendingOrdersKey(user))
	}

	payload, err := json.Marshal(orders)
	if err != nil {
		return fmt.Errorf("failed to marshal pending orders: %w", err)
	}
	return s.client.Set(ctx, s.pendingOrdersKey(user), string(payload), 0)
}

// GetPendingOrders retrieves the pending-order markers for a user. An
// absent key yields an empty slice.
func (s *Store) GetPendingOrders(ctx context.Context, user common.Address) ([]*orderv1.AuctionElement, error) {
	payload, err := s.client.Get(ctx, s.pendingOrdersKey(user))
	if err != nil {
		return nil, err
	}
	if payload == "" {
		return nil, nil
	}

	var orders []*orderv1.AuctionElement
	if err := json.Unmarshal([]byte(payload), &orders); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending orders: %w", err)
	}
	return orders, nil
}

// PutUserToken stores one user-added token in the per-network hash.
func (s *Store) PutUserToken(ctx context.Context, token *tokenv1.TokenDetails) error {
	payload, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}
	return s.client.HSet(ctx, s.userTokensKey(), map[string]string{
		token.Address.Hex(): string(payload),
	})
}

// DeleteUserToken removes a user-added token.
func (s *Store) DeleteUserToken(ctx context.Context, address common.Address) error {
	return s.client.HDel(ctx, s.userTokensKey(), address.Hex())
}

// GetUserTokens retrieves every user-added token for the network.
func (s *Store) GetUserTokens(ctx context.Context) ([]*tokenv1.TokenDetails, error) {
	entries, err := s.client.HGetAll(ctx, s.userTokensKey())
	if err != nil {
		return nil, err
	}

	tokens := make([]*tokenv1.TokenDetails, 0, len(entries))
	for _, payload := range entries {
		token := &tokenv1.TokenDetails{}
		if err := json.Unmarshal([]byte(payload), token); err != nil {
			return nil, fmt.Errorf("failed to unmarshal token: %w", err)
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// PutOrderBook stores a market's aggregated order book snapshot.
func (s *Store) PutOrderBook(ctx context.Context, book *orderbookv1.OrderBook) error {
	payload, err := json.Marshal(book)
	if err != nil {
		return fmt.Errorf("failed to marshal order book: %w", err)
	}
	return s.client.Set(ctx, s.orderBookKey(book.BaseTokenID, book.QuoteTokenID), string(payload), OrderBookTTL)
}

// GetOrderBook retrieves a market's snapshot, nil when none is stored.
func (s *Store) GetOrderBook(ctx context.Context, baseTokenID, quoteTokenID uint16) (*orderbookv1.OrderBook, error) {
	payload, err := s.client.Get(ctx, s.orderBookKey(baseTokenID, quoteTokenID))
	if err != nil {
		return nil, err
	}
	if payload == "" {
		return nil, nil
	}

	book := &orderbookv1.OrderBook{}
	if err := json.Unmarshal([]byte(payload), book); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order book: %w", err)
	}
	return book, nil
}
