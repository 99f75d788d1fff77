package orders

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	orderv1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/order/v1"
	"github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/cache"
	"github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/chain"
	orderdb "github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/questdb/order"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/batchnum"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/errors"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/logger"
)

// Usecase maintains each owner's decoded order set: full refreshes
// overwrite or merge, incremental pages append, and the result is
// snapshotted to the database. A refresh that resolves after a newer one
// has started for the same owner is discarded.
type Usecase struct {
	provider   chain.Provider
	repository orderdb.OrderRepository
	store      *cache.Store
	logger     logger.Interface
	pageSize   uint16

	mu         sync.Mutex
	generation map[common.Address]uint64
	known      map[common.Address][]*orderv1.AuctionElement
	// nextOffset tracks the highest on-chain slot consumed per owner.
	// The known set cannot serve as the cursor: deleted orders are
	// dropped from it but still occupy contract slots.
	nextOffset map[common.Address]uint16
}

// NewUsecase creates a new orders usecase.
func NewUsecase(
	provider chain.Provider,
	repository orderdb.OrderRepository,
	store *cache.Store,
	logger logger.Interface,
	pageSize uint16,
) *Usecase {
	return &Usecase{
		provider:   provider,
		repository: repository,
		store:      store,
		logger:     logger,
		pageSize:   pageSize,
		generation: map[common.Address]uint64{},
		known:      map[common.Address][]*orderv1.AuctionElement{},
		nextOffset: map[common.Address]uint16{},
	}
}

// Refresh fetches every page of an owner's orders and replaces or
// merges the known set, then persists a snapshot.
func (u *Usecase) Refresh(ctx context.Context, user common.Address) ([]*orderv1.AuctionElement, error) {
	u.mu.Lock()
	u.generation[user]++
	generation := u.generation[user]
	u.mu.Unlock()

	fetched, consumed, err := u.fetchAll(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	currentBatch := batchnum.Current(time.Now())

	u.mu.Lock()
	if generation != u.generation[user] {
		u.mu.Unlock()
		u.logger.DebugContext(ctx, "discarding stale order refresh",
			logger.Field{Key: "user", Value: user.Hex()},
			logger.Field{Key: "generation", Value: generation},
		)
		return nil, nil
	}

	existing := u.known[user]
	var merged []*orderv1.AuctionElement
	if len(existing) == 0 {
		merged = orderv1.Overwrite(fetched, currentBatch)
	} else {
		merged = orderv1.Update(existing, fetched, currentBatch)
	}
	u.known[user] = merged
	if consumed > u.nextOffset[user] {
		u.nextOffset[user] = consumed
	}
	u.mu.Unlock()

	if err := u.snapshot(ctx, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// NextPage fetches one more page past the highest on-chain slot already
// consumed and prepends it to the known set.
func (u *Usecase) NextPage(ctx context.Context, user common.Address) ([]*orderv1.AuctionElement, error) {
	u.mu.Lock()
	offset := u.nextOffset[user]
	u.mu.Unlock()

	page, err := u.fetchPage(ctx, user, offset)
	if err != nil {
		return nil, err
	}

	currentBatch := batchnum.Current(time.Now())

	u.mu.Lock()
	if offset+uint16(len(page)) > u.nextOffset[user] {
		u.nextOffset[user] = offset + uint16(len(page))
	}
	merged := orderv1.Append(u.known[user], page, currentBatch)
	u.known[user] = merged
	u.mu.Unlock()

	if err := u.snapshot(ctx, merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// Classified splits the owner's known orders plus any locally pending
// ones into active and closed buckets.
func (u *Usecase) Classified(ctx context.Context, user common.Address) (*orderv1.Classified, error) {
	pending, err := u.store.GetPendingOrders(ctx, user)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	u.mu.Lock()
	combined := make([]*orderv1.AuctionElement, 0, len(u.known[user])+len(pending))
	combined = append(combined, u.known[user]...)
	u.mu.Unlock()
	combined = append(combined, pending...)

	classified := orderv1.Classify(combined, batchnum.Current(time.Now()))
	return &classified, nil
}

// MarkPending records a locally submitted, not yet mined order.
func (u *Usecase) MarkPending(ctx context.Context, user common.Address, element *orderv1.AuctionElement) error {
	pending, err := u.store.GetPendingOrders(ctx, user)
	if err != nil {
		return errors.TracerFromError(err)
	}
	pending = append(pending, element)
	if err := u.store.PutPendingOrders(ctx, user, pending); err != nil {
		return errors.TracerFromError(err)
	}
	return nil
}

// fetchAll pages through the owner's packed orders. The positional id
// of each element continues from the page offset, so ids stay aligned
// with contract order indices across pages. The second return value is
// the slot offset right past the last record consumed.
func (u *Usecase) fetchAll(ctx context.Context, user common.Address) ([]*orderv1.AuctionElement, uint16, error) {
	var all []*orderv1.AuctionElement
	offset := uint16(0)
	for {
		page, err := u.fetchPage(ctx, user, offset)
		if err != nil {
			return nil, 0, err
		}
		all = append(all, page...)
		offset += uint16(len(page))
		if len(page) < int(u.pageSize) {
			return all, offset, nil
		}
	}
}

func (u *Usecase) fetchPage(ctx context.Context, user common.Address, offset uint16) ([]*orderv1.AuctionElement, error) {
	encoded, err := u.provider.PackedAuctionOrders(ctx, user, offset, u.pageSize)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	return orderv1.DecodeAuctionElements(encoded, int(offset)), nil
}

func (u *Usecase) snapshot(ctx context.Context, orders []*orderv1.AuctionElement) error {
	if len(orders) == 0 {
		return nil
	}

	snapshotAt := time.Now().UTC()
	rows := make([]*orderdb.Row, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderdb.FromElement(o, snapshotAt))
	}
	if err := u.repository.StoreSnapshot(ctx, rows); err != nil {
		return errors.TracerFromError(err)
	}
	return nil
}
