package orderbook

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	orderbookv1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/orderbook/v1"
	tokenv1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/token/v1"
	"github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/cache"
	"github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/chain"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/errors"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/logger"
)

// defaultTokenDecimals is assumed for tokens the list cache does not
// know yet; 18 is the overwhelmingly common ERC20 choice.
const defaultTokenDecimals int32 = 18

// Market identifies one base/quote pair to poll.
type Market struct {
	BaseTokenID  uint16
	QuoteTokenID uint16
	// ReferencePrice drives the dust filter; zero falls back to the
	// fixed default threshold.
	ReferencePrice decimal.Decimal
}

// Usecase polls raw order books on a fixed interval, aggregates both
// sides and stores the snapshot. Per market, a poll that resolves after
// a newer one has started is discarded.
type Usecase struct {
	provider chain.Provider
	tokens   *tokenv1.ListCache
	store    *cache.Store
	logger   logger.Interface
	interval time.Duration

	mu         sync.Mutex
	generation map[marketKey]uint64
}

// marketKey identifies a market regardless of its reference price.
type marketKey struct {
	base  uint16
	quote uint16
}

// ParseMarkets converts configured "base-quote" token id pairs into
// markets.
func ParseMarkets(pairs []string) ([]Market, error) {
	markets := make([]Market, 0, len(pairs))
	for _, pair := range pairs {
		base, quote, found := strings.Cut(strings.TrimSpace(pair), "-")
		if !found {
			return nil, errors.NewErrorDetails(
				fmt.Sprintf("market %q is not a base-quote pair", pair),
				string(errors.GeneralBadRequestError),
				"markets",
			)
		}
		baseID, err := strconv.ParseUint(base, 10, 16)
		if err != nil {
			return nil, errors.NewErrorDetails(
				fmt.Sprintf("market %q has an invalid base token id", pair),
				string(errors.GeneralBadRequestError),
				"markets",
			)
		}
		quoteID, err := strconv.ParseUint(quote, 10, 16)
		if err != nil {
			return nil, errors.NewErrorDetails(
				fmt.Sprintf("market %q has an invalid quote token id", pair),
				string(errors.GeneralBadRequestError),
				"markets",
			)
		}
		markets = append(markets, Market{BaseTokenID: uint16(baseID), QuoteTokenID: uint16(quoteID)})
	}
	return markets, nil
}

// NewUsecase creates a new orderbook usecase.
func NewUsecase(
	provider chain.Provider,
	tokens *tokenv1.ListCache,
	store *cache.Store,
	logger logger.Interface,
	interval time.Duration,
) *Usecase {
	return &Usecase{
		provider:   provider,
		tokens:     tokens,
		store:      store,
		logger:     logger,
		interval:   interval,
		generation: map[marketKey]uint64{},
	}
}

// Refresh fetches and aggregates one market's order book and stores the
// snapshot.
func (u *Usecase) Refresh(ctx context.Context, market Market) (*orderbookv1.OrderBook, error) {
	key := marketKey{base: market.BaseTokenID, quote: market.QuoteTokenID}

	u.mu.Lock()
	u.generation[key]++
	generation := u.generation[key]
	u.mu.Unlock()

	raw, err := u.provider.RawOrderBook(ctx, market.BaseTokenID, market.QuoteTokenID)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u.mu.Lock()
	stale := generation != u.generation[key]
	u.mu.Unlock()
	if stale {
		u.logger.DebugContext(ctx, "discarding stale order book poll",
			logger.Field{Key: "base", Value: market.BaseTokenID},
			logger.Field{Key: "quote", Value: market.QuoteTokenID},
		)
		return nil, nil
	}

	baseDecimals := u.decimalsOf(market.BaseTokenID)
	quoteDecimals := u.decimalsOf(market.QuoteTokenID)
	minVolume := orderbookv1.MinVolumeForPrice(market.ReferencePrice)

	book := &orderbookv1.OrderBook{
		BaseTokenID:  market.BaseTokenID,
		QuoteTokenID: market.QuoteTokenID,
		Asks:         orderbookv1.Aggregate(raw.Asks, baseDecimals, quoteDecimals, orderbookv1.SideAsk, minVolume),
		Bids:         orderbookv1.Aggregate(raw.Bids, baseDecimals, quoteDecimals, orderbookv1.SideBid, minVolume),
	}

	if err := u.store.PutOrderBook(ctx, book); err != nil {
		return nil, errors.TracerFromError(err)
	}
	return book, nil
}

// Get returns the stored snapshot for a market, nil when none exists.
func (u *Usecase) Get(ctx context.Context, baseTokenID, quoteTokenID uint16) (*orderbookv1.OrderBook, error) {
	book, err := u.store.GetOrderBook(ctx, baseTokenID, quoteTokenID)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	return book, nil
}

// Poll refreshes the given markets on the configured interval until the
// context is cancelled.
func (u *Usecase) Poll(ctx context.Context, markets []Market) {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	refresh := func() {
		for _, market := range markets {
			if _, err := u.Refresh(ctx, market); err != nil {
				u.logger.ErrorContext(ctx, err,
					logger.Field{Key: "base", Value: market.BaseTokenID},
					logger.Field{Key: "quote", Value: market.QuoteTokenID},
				)
			}
		}
	}

	refresh()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}

func (u *Usecase) decimalsOf(tokenID uint16) int32 {
	if token := u.tokens.GetByID(tokenID); token != nil {
		return token.Decimals
	}
	return defaultTokenDecimals
}
