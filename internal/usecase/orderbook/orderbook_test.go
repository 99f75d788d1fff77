package orderbook

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/orderbook/v1"
	tokenv1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/token/v1"
	"github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/cache"
	"github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/chain"
	chainmock "github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/chain/mock"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/logger"
	redismock "github.com/gnosis/gp-v1-ui-sub001/pkg/redis/mock"
)

var testMarket = Market{BaseTokenID: 4, QuoteTokenID: 1}

type fixture struct {
	provider *chainmock.MockProvider
	redis    *redismock.MockClient
	usecase  *Usecase
}

func newFixture(t *testing.T, ctrl *gomock.Controller) *fixture {
	log, err := logger.NewLogger()
	require.NoError(t, err)

	provider := chainmock.NewMockProvider(ctrl)
	redisClient := redismock.NewMockClient(ctrl)

	tokens := tokenv1.NewListCache()
	tokens.Replace([]*tokenv1.TokenDetails{
		{ID: 1, Symbol: "WETH", Decimals: 18},
		{ID: 4, Symbol: "USDC", Decimals: 6},
	})

	return &fixture{
		provider: provider,
		redis:    redisClient,
		usecase: NewUsecase(
			provider,
			tokens,
			cache.NewStore(redisClient, 1),
			log,
			5*time.Second,
		),
	}
}

// atom-denominated point for base=6, quote=18 decimals.
func rawPoint(naturalPrice, naturalVolume string) chain.RawPricePoint {
	return chain.RawPricePoint{
		Price:  decimal.RequireFromString(naturalPrice).Shift(12).BigInt(),
		Volume: decimal.RequireFromString(naturalVolume).Shift(6).BigInt(),
	}
}

func TestUsecase_Refresh(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	f.provider.EXPECT().
		RawOrderBook(gomock.Any(), uint16(4), uint16(1)).
		Return(&chain.RawOrderBook{
			Asks: []chain.RawPricePoint{rawPoint("110", "2"), rawPoint("100", "1")},
			Bids: []chain.RawPricePoint{rawPoint("90", "1"), rawPoint("95", "2")},
		}, nil)
	f.redis.EXPECT().Set(gomock.Any(), "net:1:orderbook:4-1", gomock.Any(), cache.OrderBookTTL).Return(nil)

	book, err := f.usecase.Refresh(context.Background(), testMarket)
	require.NoError(t, err)
	require.NotNil(t, book)

	require.Len(t, book.Asks, 2)
	assert.Equal(t, "100", book.Asks[0].Price.String())
	assert.Equal(t, "1", book.Asks[0].TotalVolume.String())
	assert.Equal(t, "3", book.Asks[1].TotalVolume.String())

	require.Len(t, book.Bids, 2)
	// ascending display order, totals accumulated from the best bid down
	assert.Equal(t, "90", book.Bids[0].Price.String())
	assert.Equal(t, "3", book.Bids[0].TotalVolume.String())
	assert.Equal(t, "2", book.Bids[1].TotalVolume.String())
}

func TestUsecase_Refresh_UnknownTokenFallsBackToDefaultDecimals(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	market := Market{BaseTokenID: 99, QuoteTokenID: 1}
	volume := new(big.Int).Mul(big.NewInt(5), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

	f.provider.EXPECT().
		RawOrderBook(gomock.Any(), uint16(99), uint16(1)).
		Return(&chain.RawOrderBook{
			Asks: []chain.RawPricePoint{{Price: big.NewInt(2), Volume: volume}},
		}, nil)
	f.redis.EXPECT().Set(gomock.Any(), "net:1:orderbook:99-1", gomock.Any(), gomock.Any()).Return(nil)

	book, err := f.usecase.Refresh(context.Background(), market)
	require.NoError(t, err)
	require.Len(t, book.Asks, 1)
	assert.Equal(t, "5", book.Asks[0].Volume.String(), "volume scaled by the 18-decimal default")
}

func TestUsecase_Refresh_StalePollIsDiscarded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	entered := make(chan struct{})
	release := make(chan struct{})

	f.provider.EXPECT().
		RawOrderBook(gomock.Any(), uint16(4), uint16(1)).
		DoAndReturn(func(context.Context, uint16, uint16) (*chain.RawOrderBook, error) {
			close(entered)
			<-release
			return &chain.RawOrderBook{Asks: []chain.RawPricePoint{rawPoint("100", "1")}}, nil
		})
	f.provider.EXPECT().
		RawOrderBook(gomock.Any(), uint16(4), uint16(1)).
		Return(&chain.RawOrderBook{Asks: []chain.RawPricePoint{rawPoint("200", "1")}}, nil)

	// only the newer poll stores a snapshot
	f.redis.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

	done := make(chan struct{})
	var slowBook *orderbookv1.OrderBook
	go func() {
		defer close(done)
		var err error
		slowBook, err = f.usecase.Refresh(context.Background(), testMarket)
		assert.NoError(t, err)
	}()

	<-entered
	book, err := f.usecase.Refresh(context.Background(), testMarket)
	require.NoError(t, err)
	close(release)
	<-done

	assert.Nil(t, slowBook)
	require.Len(t, book.Asks, 1)
	assert.Equal(t, "200", book.Asks[0].Price.String())
}

func TestParseMarkets(t *testing.T) {
	testCases := []struct {
		name     string
		pairs    []string
		assertFn func(t *testing.T, markets []Market, err error)
	}{
		{
			name:  "valid pairs",
			pairs: []string{"4-1", " 7-1 "},
			assertFn: func(t *testing.T, markets []Market, err error) {
				require.NoError(t, err)
				assert.Equal(t, []Market{
					{BaseTokenID: 4, QuoteTokenID: 1},
					{BaseTokenID: 7, QuoteTokenID: 1},
				}, markets)
			},
		},
		{
			name:  "missing separator",
			pairs: []string{"41"},
			assertFn: func(t *testing.T, markets []Market, err error) {
				require.Error(t, err)
			},
		},
		{
			name:  "non-numeric token id",
			pairs: []string{"4-WETH"},
			assertFn: func(t *testing.T, markets []Market, err error) {
				require.Error(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			markets, err := ParseMarkets(tc.pairs)
			tc.assertFn(t, markets, err)
		})
	}
}

func TestUsecase_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	f := newFixture(t, ctrl)

	f.redis.EXPECT().Get(gomock.Any(), "net:1:orderbook:4-1").Return("", nil)

	book, err := f.usecase.Get(context.Background(), 4, 1)
	require.NoError(t, err)
	assert.Nil(t, book)
}
