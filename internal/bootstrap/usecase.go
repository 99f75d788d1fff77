package bootstrap

import (
	"github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/chain"
	orderbookUc "github.com/gnosis/gp-v1-ui-sub001/internal/usecase/orderbook"
	ordersUc "github.com/gnosis/gp-v1-ui-sub001/internal/usecase/orders"
	tokensUc "github.com/gnosis/gp-v1-ui-sub001/internal/usecase/tokens"
	tradesUc "github.com/gnosis/gp-v1-ui-sub001/internal/usecase/trades"
)

// Usecase is the usecase for the dex data service.
type Usecase struct {
	Trades    *tradesUc.Usecase
	Orders    *ordersUc.Usecase
	OrderBook *orderbookUc.Usecase
	Tokens    *tokensUc.Usecase
}

// registerUsecase registers the usecase.
func (b *Bootstrap) registerUsecase() {
	fetcher := chain.NewLogFetcher(b.Provider, b.Logger)

	b.Usecase.Trades = tradesUc.NewUsecase(
		fetcher,
		b.Provider,
		b.Tokens,
		b.Repository.TradeRepository,
		b.Repository.OrderRepository,
		b.Publisher,
		b.Logger,
	)
	b.Usecase.Orders = ordersUc.NewUsecase(
		b.Provider,
		b.Repository.OrderRepository,
		b.Store,
		b.Logger,
		uint16(b.Chain.OrderPageSize),
	)
	b.Usecase.OrderBook = orderbookUc.NewUsecase(
		b.Provider,
		b.Tokens,
		b.Store,
		b.Logger,
		b.Chain.BookInterval,
	)
	b.Usecase.Tokens = tokensUc.NewUsecase(
		b.Provider,
		b.Tokens,
		b.Store,
		b.Logger,
	)
}
