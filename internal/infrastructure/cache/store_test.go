package cache

import (
	"context"
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderv1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/order/v1"
	orderbookv1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/orderbook/v1"
	tokenv1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/token/v1"
	mock "github.com/gnosis/gp-v1-ui-sub001/pkg/redis/mock"
)

const testNetworkID = 1

func TestStore_PendingOrders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockClient(ctrl)
	store := NewStore(client, testNetworkID)
	user := common.HexToAddress("0xcafe")
	key := "net:1:pending_orders:" + user.Hex()

	pending := []*orderv1.AuctionElement{
		{ID: "0xabc", Pending: true, TxHash: "0xabc", Order: orderv1.Order{
			BuyTokenID: 1, SellTokenID: 2, PriceNumerator: big.NewInt(1), PriceDenominator: big.NewInt(2),
		}},
	}
	payload, err := json.Marshal(pending)
	require.NoError(t, err)

	client.EXPECT().Set(gomock.Any(), key, string(payload), gomock.Any()).Return(nil)
	require.NoError(t, store.PutPendingOrders(context.Background(), user, pending))

	client.EXPECT().Get(gomock.Any(), key).Return(string(payload), nil)
	got, err := store.GetPendingOrders(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "0xabc", got[0].ID)
	assert.True(t, got[0].Pending)
	assert.Equal(t, big.NewInt(2), got[0].PriceDenominator)
}

func TestStore_PendingOrders_EmptyClearsKey(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockClient(ctrl)
	store := NewStore(client, testNetworkID)
	user := common.HexToAddress("0xcafe")

	client.EXPECT().Del(gomock.Any(), "net:1:pending_orders:"+user.Hex()).Return(nil)
	assert.NoError(t, store.PutPendingOrders(context.Background(), user, nil))

	client.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", nil)
	got, err := store.GetPendingOrders(context.Background(), user)
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_UserTokens(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockClient(ctrl)
	store := NewStore(client, testNetworkID)

	token := &tokenv1.TokenDetails{ID: 7, Address: common.HexToAddress("0xbeef"), Symbol: "GNO", Decimals: 18}
	payload, err := json.Marshal(token)
	require.NoError(t, err)

	client.EXPECT().HSet(gomock.Any(), "net:1:user_tokens", map[string]string{
		token.Address.Hex(): string(payload),
	}).Return(nil)
	require.NoError(t, store.PutUserToken(context.Background(), token))

	client.EXPECT().HGetAll(gomock.Any(), "net:1:user_tokens").Return(map[string]string{
		token.Address.Hex(): string(payload),
	}, nil)
	tokens, err := store.GetUserTokens(context.Background())
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, token, tokens[0])

	client.EXPECT().HDel(gomock.Any(), "net:1:user_tokens", token.Address.Hex()).Return(nil)
	assert.NoError(t, store.DeleteUserToken(context.Background(), token.Address))
}

func TestStore_OrderBook(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockClient(ctrl)
	store := NewStore(client, testNetworkID)

	book := &orderbookv1.OrderBook{
		BaseTokenID:  1,
		QuoteTokenID: 4,
		Asks: []orderbookv1.PricePointDetails{
			{Type: orderbookv1.SideAsk, Price: decimal.RequireFromString("100"), Volume: decimal.RequireFromString("2"), TotalVolume: decimal.RequireFromString("2")},
		},
	}
	payload, err := json.Marshal(book)
	require.NoError(t, err)

	client.EXPECT().Set(gomock.Any(), "net:1:orderbook:1-4", string(payload), OrderBookTTL).Return(nil)
	require.NoError(t, store.PutOrderBook(context.Background(), book))

	client.EXPECT().Get(gomock.Any(), "net:1:orderbook:1-4").Return(string(payload), nil)
	got, err := store.GetOrderBook(context.Background(), 1, 4)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, book.BaseTokenID, got.BaseTokenID)
	require.Len(t, got.Asks, 1)
	assert.True(t, got.Asks[0].Price.Equal(decimal.RequireFromString("100")))
}

func TestStore_OrderBook_Missing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mock.NewMockClient(ctrl)
	store := NewStore(client, testNetworkID)

	client.EXPECT().Get(gomock.Any(), gomock.Any()).Return("", nil)
	got, err := store.GetOrderBook(context.Background(), 1, 4)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
