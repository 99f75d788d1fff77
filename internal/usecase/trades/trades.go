package trades

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	orderv1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/order/v1"
	tokenv1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/token/v1"
	tradev1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/trade/v1"
	"github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/chain"
	orderdb "github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/questdb/order"
	tradedb "github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/questdb/trade"
	"github.com/gnosis/gp-v1-ui-sub001/internal/publisher"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/batchnum"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/errors"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/logger"
)

// Usecase reconciles on-chain trade and reversion logs into annotated,
// persisted trades. One reconciliation may be in flight at a time; a
// sync that resolves after a newer one has started is discarded without
// touching state.
type Usecase struct {
	fetcher    *chain.LogFetcher
	provider   chain.Provider
	tokens     *tokenv1.ListCache
	repository tradedb.TradeRepository
	orders     orderdb.OrderRepository
	publisher  publisher.TradePublisher
	logger     logger.Interface

	mu         sync.Mutex
	generation uint64
	pending    map[string][]*tradev1.Trade
}

// NewUsecase creates a new trades usecase.
func NewUsecase(
	fetcher *chain.LogFetcher,
	provider chain.Provider,
	tokens *tokenv1.ListCache,
	repository tradedb.TradeRepository,
	orders orderdb.OrderRepository,
	pub publisher.TradePublisher,
	logger logger.Interface,
) *Usecase {
	return &Usecase{
		fetcher:    fetcher,
		provider:   provider,
		tokens:     tokens,
		repository: repository,
		orders:     orders,
		publisher:  pub,
		logger:     logger,
		pending:    map[string][]*tradev1.Trade{},
	}
}

// Sync fetches, normalizes and reconciles all trade activity in the
// block range, persists the result and publishes per-trade updates.
func (u *Usecase) Sync(ctx context.Context, fromBlock, toBlock uint64) error {
	u.mu.Lock()
	u.generation++
	generation := u.generation
	u.mu.Unlock()

	tradeEvents, err := u.fetcher.Fetch(ctx, chain.EventTrade, fromBlock, toBlock)
	if err != nil {
		return errors.TracerFromError(err)
	}
	revertEvents, err := u.fetcher.Fetch(ctx, chain.EventTradeReversion, fromBlock, toBlock)
	if err != nil {
		return errors.TracerFromError(err)
	}

	blockTimes := map[uint64]time.Time{}
	timestampOf := func(blockNumber uint64) (time.Time, error) {
		if ts, ok := blockTimes[blockNumber]; ok {
			return ts, nil
		}
		ts, err := u.provider.BlockTimestamp(ctx, blockNumber)
		if err != nil {
			return time.Time{}, err
		}
		blockTimes[blockNumber] = ts
		return ts, nil
	}

	ordersByOwner := map[common.Address]map[string]*orderv1.AuctionElement{}
	ordersOf := func(owner common.Address) map[string]*orderv1.AuctionElement {
		if set, ok := ordersByOwner[owner]; ok {
			return set
		}
		rows, err := u.orders.GetByOwner(ctx, owner.Hex())
		if err != nil {
			// enrichment only; the trade is persisted without a limit
			// price rather than failing the sync
			u.logger.WarnContext(ctx, "order snapshot lookup failed",
				logger.Field{Key: "owner", Value: owner.Hex()},
				logger.Field{Key: "error", Value: err.Error()},
			)
			ordersByOwner[owner] = nil
			return nil
		}
		set := make(map[string]*orderv1.AuctionElement, len(rows))
		for _, row := range rows {
			element := row.Element()
			set[element.ID] = element
		}
		ordersByOwner[owner] = set
		return set
	}

	trades := make([]*tradev1.Trade, 0, len(tradeEvents))
	for _, ev := range chain.DropRemoved(tradeEvents) {
		base, err := tradev1.Normalize(ev)
		if err != nil {
			return errors.TracerFromError(err)
		}
		ts, err := timestampOf(base.BlockNumber)
		if err != nil {
			return errors.TracerFromError(err)
		}
		trade := tradev1.NewTrade(base, ts)
		trade.ApplyTokens(u.tokens.GetByID(trade.SellTokenID), u.tokens.GetByID(trade.BuyTokenID))
		if element, ok := ordersOf(trade.Owner)[trade.OrderID]; ok {
			trade.ApplyLimitPrice(element.PriceNumerator, element.PriceDenominator)
			trade.RemainingAmount = element.RemainingAmount
		}
		trades = append(trades, trade)
	}

	reverts := make([]*tradev1.TradeReversion, 0, len(revertEvents))
	for _, ev := range chain.DropRemoved(revertEvents) {
		base, err := tradev1.Normalize(ev)
		if err != nil {
			return errors.TracerFromError(err)
		}
		ts, err := timestampOf(base.BlockNumber)
		if err != nil {
			return errors.TracerFromError(err)
		}
		reverts = append(reverts, tradev1.NewTradeReversion(base, ts))
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if generation != u.generation {
		u.logger.DebugContext(ctx, "discarding stale trade sync",
			logger.Field{Key: "generation", Value: generation},
			logger.Field{Key: "from_block", Value: fromBlock},
			logger.Field{Key: "to_block", Value: toBlock},
		)
		return nil
	}

	revertedBefore := map[string]bool{}
	for _, ts := range u.pending {
		for _, t := range ts {
			if t.Reverted() {
				revertedBefore[t.ID()] = true
			}
		}
	}

	all, pending, err := tradev1.ApplyReverts(trades, reverts, u.pending, batchnum.Current(time.Now()))
	if err != nil {
		return errors.TracerFromError(err)
	}
	u.pending = pending

	newIDs := map[string]bool{}
	rows := make([]*tradedb.Row, 0, len(trades))
	for _, t := range trades {
		newIDs[t.ID()] = true
		rows = append(rows, tradedb.FromTrade(t))
	}
	if err := u.repository.StoreBatch(ctx, rows); err != nil {
		return errors.TracerFromError(err)
	}

	for _, t := range all {
		switch {
		case t.Reverted() && !revertedBefore[t.ID()]:
			if !newIDs[t.ID()] {
				// carried trade was persisted before its reversion arrived;
				// the stored row still has an empty revert annotation
				if err := u.repository.Update(ctx, tradedb.FromTrade(t)); err != nil {
					return errors.TracerFromError(err)
				}
			}
			u.publish(ctx, &publisher.TradeUpdate{Type: publisher.UpdateTypeReverted, Trade: t})
		case newIDs[t.ID()] && !t.Reverted():
			u.publish(ctx, &publisher.TradeUpdate{Type: publisher.UpdateTypeSettled, Trade: t})
		}
	}

	u.logger.InfoContext(ctx, "trade sync complete",
		logger.Field{Key: "trades", Value: len(trades)},
		logger.Field{Key: "reverts", Value: len(reverts)},
		logger.Field{Key: "pending_keys", Value: len(pending)},
	)
	return nil
}

// SyncHead runs one sync from the block after the last persisted trade
// up to the current head, starting from startBlock on an empty store.
// A head behind the resume point is a no-op.
func (u *Usecase) SyncHead(ctx context.Context, startBlock uint64) error {
	last, err := u.LatestSyncedBlock(ctx)
	if err != nil {
		return err
	}
	head, err := u.provider.LatestBlock(ctx)
	if err != nil {
		return errors.TracerFromError(err)
	}

	from := startBlock
	if last+1 > from {
		from = last + 1
	}
	if head < from {
		return nil
	}
	return u.Sync(ctx, from, head)
}

// Poll runs SyncHead on the given interval until the context is
// cancelled.
func (u *Usecase) Poll(ctx context.Context, startBlock uint64, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sync := func() {
		if err := u.SyncHead(ctx, startBlock); err != nil {
			u.logger.ErrorContext(ctx, err)
		}
	}

	sync()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sync()
		}
	}
}

// LatestSyncedBlock returns the highest block any stored trade came
// from, the resume point after a restart.
func (u *Usecase) LatestSyncedBlock(ctx context.Context) (uint64, error) {
	block, err := u.repository.GetLatestBlock(ctx)
	if err != nil {
		return 0, errors.TracerFromError(err)
	}
	return block, nil
}

// GetTrades retrieves stored trades by filter.
func (u *Usecase) GetTrades(ctx context.Context, filter tradedb.Filter) ([]*tradev1.Trade, error) {
	rows, err := u.repository.GetByFilter(ctx, filter)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	trades := make([]*tradev1.Trade, 0, len(rows))
	for _, row := range rows {
		t, err := row.Trade()
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		trades = append(trades, t)
	}
	return trades, nil
}

func (u *Usecase) publish(ctx context.Context, update *publisher.TradeUpdate) {
	// publish failures are logged, not fatal: the persisted state is the
	// source of truth and consumers re-read it on reconnect
	if err := u.publisher.PublishTradeUpdate(ctx, update); err != nil {
		u.logger.ErrorContext(ctx, err,
			logger.Field{Key: "tradeId", Value: update.Trade.ID()},
			logger.Field{Key: "type", Value: update.Type},
		)
	}
}
