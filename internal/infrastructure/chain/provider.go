package chain

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

//go:generate mockgen -source=provider.go -destination=mock/provider_mock.go -package=mock

// RawPricePoint is one atom-denominated price/volume pair from the
// order book endpoint.
type RawPricePoint struct {
	Price  *big.Int `json:"price"`
	Volume *big.Int `json:"volume"`
}

// RawOrderBook is the unaggregated order book for one market.
type RawOrderBook struct {
	Asks []RawPricePoint `json:"asks"`
	Bids []RawPricePoint `json:"bids"`
}

// Provider is the thin wrapper around the chain data provider (node RPC
// plus exchange contract reads). The wire format behind it is out of
// scope; implementations surface provider failures through pkg/errors
// codes, notably ChainQueryLimitError for range-too-large log queries
// and TokenNotRegisteredError for unknown token addresses.
type Provider interface {
	// LatestBlock returns the current head block number.
	LatestBlock(ctx context.Context) (uint64, error)

	// FilterEvents returns the logs with the given event name in the
	// inclusive block range.
	FilterEvents(ctx context.Context, name string, fromBlock, toBlock uint64) ([]Event, error)

	// BlockTimestamp returns the timestamp of the given block.
	BlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error)

	// PackedAuctionOrders returns the hex blob of the user's orders for
	// the given page. The blob decodes with internal/domain/order.
	PackedAuctionOrders(ctx context.Context, user common.Address, offset, pageSize uint16) (string, error)

	// TokenIDByAddress resolves an exchange token id; unregistered
	// addresses yield a TokenNotRegisteredError.
	TokenIDByAddress(ctx context.Context, address common.Address) (uint16, error)

	// TokenAddressByID resolves the address listed for an exchange
	// token id.
	TokenAddressByID(ctx context.Context, id uint16) (common.Address, error)

	// RawOrderBook returns the unaggregated ask/bid price points for a
	// market.
	RawOrderBook(ctx context.Context, baseTokenID, quoteTokenID uint16) (*RawOrderBook, error)
}
