package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderv1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/order/v1"
	"github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/cache"
	chainmock "github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/chain/mock"
	orderdb "github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/questdb/order"
	orderdbmock "github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/questdb/order/mock"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/batchnum"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/logger"
	redismock "github.com/gnosis/gp-v1-ui-sub001/pkg/redis/mock"
)

const testPageSize uint16 = 2

var testUser = common.HexToAddress("0xcafe")

type fixture struct {
	provider   *chainmock.MockProvider
	repository *orderdbmock.MockOrderRepository
	redis      *redismock.MockClient
	usecase    *Usecase
}

func newFixture(t *testing.T, ctrl *gomock.Controller) *fixture {
	log, err := logger.NewLogger()
	require.NoError(t, err)

	provider := chainmock.NewMockProvider(ctrl)
	repository := orderdbmock.NewMockOrderRepository(ctrl)
	redisClient := redismock.NewMockClient(ctrl)

	return &fixture{
		provider:   provider,
		repository: repository,
		redis:      redisClient,
		usecase: NewUsecase(
			provider,
			repository,
			cache.NewStore(redisClient, 1),
			log,
			testPageSize,
		),
	}
}

// encodeRecord builds one packed record valid until the given batch,
// matching the contract's fixed-width layout.
func encodeRecord(seq int, validUntil uint32) string {
	return fmt.Sprintf("%040x%064x%04x%04x%08x%08x%032x%032x%032x",
		0xcafe, 1000, 1, 2, validUntil-10, validUntil, 3, 4, 2+seq)
}

func encodeRecords(n int, validUntil uint32) string {
	blob := ""
	for i := 0; i < n; i++ {
		blob += encodeRecord(i, validUntil)
	}
	return blob
}

func ids(orders []*orderv1.AuctionElement) []string {
	out := make([]string, 0, len(orders))
	for _, o := range orders {
		out = append(out, o.ID)
	}
	return out
}

func TestUsecase_Refresh_PaginatesWithAlignedIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	liveUntil := batchnum.Current(time.Now()) + 100

	f.provider.EXPECT().
		PackedAuctionOrders(gomock.Any(), testUser, uint16(0), testPageSize).
		Return(encodeRecords(2, liveUntil), nil)
	f.provider.EXPECT().
		PackedAuctionOrders(gomock.Any(), testUser, uint16(2), testPageSize).
		Return(encodeRecords(1, liveUntil), nil)

	var stored []*orderdb.Row
	f.repository.EXPECT().StoreSnapshot(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rows []*orderdb.Row) error {
			stored = rows
			return nil
		})

	merged, err := f.usecase.Refresh(context.Background(), testUser)
	require.NoError(t, err)

	assert.Equal(t, []string{"2", "1", "0"}, ids(merged), "newest placement first")
	require.Len(t, stored, 3)
	assert.Equal(t, testUser.Hex(), stored[0].Owner)
}

func TestUsecase_Refresh_MergesIntoExistingSet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	liveUntil := batchnum.Current(time.Now()) + 100

	// initial set: three orders across two pages
	f.provider.EXPECT().
		PackedAuctionOrders(gomock.Any(), testUser, uint16(0), testPageSize).
		Return(encodeRecords(2, liveUntil), nil)
	f.provider.EXPECT().
		PackedAuctionOrders(gomock.Any(), testUser, uint16(2), testPageSize).
		Return(encodeRecords(1, liveUntil), nil)
	f.repository.EXPECT().StoreSnapshot(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	_, err := f.usecase.Refresh(context.Background(), testUser)
	require.NoError(t, err)

	// refresh sees only a fresher order 0; existing 1 and 2 survive
	f.provider.EXPECT().
		PackedAuctionOrders(gomock.Any(), testUser, uint16(0), testPageSize).
		Return(encodeRecords(1, liveUntil+5), nil)

	merged, err := f.usecase.Refresh(context.Background(), testUser)
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "2", "1"}, ids(merged))
	assert.Equal(t, liveUntil+5, merged[0].ValidUntil, "fresher version wins")
}

func TestUsecase_NextPage_AppendsPastKnownOrders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	liveUntil := batchnum.Current(time.Now()) + 100

	f.provider.EXPECT().
		PackedAuctionOrders(gomock.Any(), testUser, uint16(0), testPageSize).
		Return(encodeRecords(1, liveUntil), nil)
	f.repository.EXPECT().StoreSnapshot(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	_, err := f.usecase.Refresh(context.Background(), testUser)
	require.NoError(t, err)

	f.provider.EXPECT().
		PackedAuctionOrders(gomock.Any(), testUser, uint16(1), testPageSize).
		Return(encodeRecords(1, liveUntil), nil)

	merged, err := f.usecase.NextPage(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "0"}, ids(merged))
}

func TestUsecase_NextPage_OffsetSkipsDeletedSlots(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	currentBatch := batchnum.Current(time.Now())
	liveUntil := currentBatch + 100
	expiredUntil := currentBatch - 10

	// slot 0 expired, slot 1 live; the page is full, so pagination
	// probes offset 2 before stopping
	f.provider.EXPECT().
		PackedAuctionOrders(gomock.Any(), testUser, uint16(0), testPageSize).
		Return(encodeRecord(0, expiredUntil)+encodeRecord(1, liveUntil), nil)
	f.provider.EXPECT().
		PackedAuctionOrders(gomock.Any(), testUser, uint16(2), testPageSize).
		Return("", nil)
	f.repository.EXPECT().StoreSnapshot(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	merged, err := f.usecase.Refresh(context.Background(), testUser)
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, ids(merged), "expired slot dropped")

	// next page starts past slot 1, not at the count of survivors;
	// re-reading slot 1 would duplicate its id
	f.provider.EXPECT().
		PackedAuctionOrders(gomock.Any(), testUser, uint16(2), testPageSize).
		Return(encodeRecord(2, liveUntil), nil)

	merged, err = f.usecase.NextPage(context.Background(), testUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "1"}, ids(merged))
}

func TestUsecase_Refresh_StaleRefreshIsDiscarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	liveUntil := batchnum.Current(time.Now()) + 100
	entered := make(chan struct{})
	release := make(chan struct{})

	f.provider.EXPECT().
		PackedAuctionOrders(gomock.Any(), testUser, uint16(0), testPageSize).
		DoAndReturn(func(context.Context, common.Address, uint16, uint16) (string, error) {
			close(entered)
			<-release
			return encodeRecords(1, liveUntil), nil
		})
	f.provider.EXPECT().
		PackedAuctionOrders(gomock.Any(), testUser, uint16(0), testPageSize).
		Return(encodeRecords(1, liveUntil+5), nil)

	// only the newer refresh snapshots
	f.repository.EXPECT().StoreSnapshot(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	done := make(chan struct{})
	var slowResult []*orderv1.AuctionElement
	go func() {
		defer close(done)
		var err error
		slowResult, err = f.usecase.Refresh(context.Background(), testUser)
		assert.NoError(t, err)
	}()

	<-entered
	merged, err := f.usecase.Refresh(context.Background(), testUser)
	require.NoError(t, err)
	close(release)
	<-done

	assert.Nil(t, slowResult, "stale refresh resolves without result")
	assert.Equal(t, liveUntil+5, merged[0].ValidUntil, "newer state survives")
}

func TestUsecase_Classified_CombinesPendingOrders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	liveUntil := batchnum.Current(time.Now()) + 100

	f.provider.EXPECT().
		PackedAuctionOrders(gomock.Any(), testUser, uint16(0), testPageSize).
		Return(encodeRecords(1, liveUntil), nil)
	f.repository.EXPECT().StoreSnapshot(gomock.Any(), gomock.Any()).Return(nil)

	_, err := f.usecase.Refresh(context.Background(), testUser)
	require.NoError(t, err)

	pending := []*orderv1.AuctionElement{{ID: "0xabc", Pending: true, TxHash: "0xabc"}}
	payload, err := json.Marshal(pending)
	require.NoError(t, err)
	f.redis.EXPECT().Get(gomock.Any(), "net:1:pending_orders:"+testUser.Hex()).Return(string(payload), nil)

	classified, err := f.usecase.Classified(context.Background(), testUser)
	require.NoError(t, err)

	assert.Equal(t, []string{"0", "0xabc"}, ids(classified.Active))
	assert.Empty(t, classified.Closed)
}

func TestUsecase_MarkPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	key := "net:1:pending_orders:" + testUser.Hex()
	f.redis.EXPECT().Get(gomock.Any(), key).Return("", nil)
	f.redis.EXPECT().Set(gomock.Any(), key, gomock.Any(), gomock.Any()).Return(nil)

	err := f.usecase.MarkPending(context.Background(), testUser, &orderv1.AuctionElement{ID: "0xabc", Pending: true})
	assert.NoError(t, err)
}
