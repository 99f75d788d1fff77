package v1

import (
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tokenv1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/token/v1"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/batchnum"
)

func TestNewTrade(t *testing.T) {
	ts := batchnum.StartOf(revertTestBatch).Add(42 * time.Second)
	trade := NewTrade(&BaseTradeEvent{OrderID: "3", TxHash: "0xabc", EventIndex: 1}, ts)

	assert.Equal(t, revertTestBatch, trade.BatchID)
	assert.Equal(t, ts, trade.Timestamp)
	assert.Equal(t, batchnum.SettlingTime(revertTestBatch), trade.SettlingTimestamp)
	assert.Equal(t, "5000|3", trade.RevertKey())
	assert.False(t, trade.Reverted())

	assert.False(t, trade.Settled(ts))
	assert.True(t, trade.Settled(trade.SettlingTimestamp))
}

func TestTrade_ApplyTokens(t *testing.T) {
	trade := tradeAt(revertTestBatch, "1", 1)
	// sell 2 USDC (6 decimals) for 1 WETH-wei equivalent scaled down
	trade.SellAmount = big.NewInt(2_000_000)
	trade.BuyAmount = new(big.Int).Mul(big.NewInt(1), big.NewInt(1e18))

	usdc := &tokenv1.TokenDetails{ID: 4, Symbol: "USDC", Decimals: 6}
	weth := &tokenv1.TokenDetails{ID: 1, Symbol: "WETH", Decimals: 18}
	trade.ApplyTokens(usdc, weth)

	assert.Equal(t, usdc, trade.SellToken)
	assert.Equal(t, weth, trade.BuyToken)
	assert.True(t, trade.FillPrice.Equal(decimal.RequireFromString("0.5")), "got %s", trade.FillPrice)
}

func TestTrade_ApplyTokens_ZeroSellAmount(t *testing.T) {
	trade := tradeAt(revertTestBatch, "1", 1)
	trade.SellAmount = big.NewInt(0)

	trade.ApplyTokens(&tokenv1.TokenDetails{Decimals: 6}, &tokenv1.TokenDetails{Decimals: 18})
	assert.True(t, trade.FillPrice.IsZero())
}

func TestTrade_ApplyLimitPrice(t *testing.T) {
	trade := tradeAt(revertTestBatch, "1", 1)

	trade.ApplyLimitPrice(big.NewInt(1), big.NewInt(2))
	assert.Nil(t, trade.LimitPrice, "no limit price without token details")

	trade.ApplyTokens(
		&tokenv1.TokenDetails{ID: 4, Decimals: 6},
		&tokenv1.TokenDetails{ID: 1, Decimals: 6},
	)
	trade.ApplyLimitPrice(big.NewInt(1), big.NewInt(2))
	require.NotNil(t, trade.LimitPrice)
	assert.True(t, trade.LimitPrice.Equal(decimal.RequireFromString("0.5")))
}
