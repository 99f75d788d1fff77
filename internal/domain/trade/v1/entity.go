package v1

import (
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	tokenv1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/token/v1"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/batchnum"
)

// BaseTradeEvent represents the payload shared by the exchange's trade
// and trade-reversion logs, before batch enrichment. Amounts stay as
// arbitrary-precision integers; nothing here is allowed to round.
type BaseTradeEvent struct {
	Owner       common.Address `json:"owner"`
	OrderID     string         `json:"orderId"`
	SellTokenID uint16         `json:"sellTokenId"`
	BuyTokenID  uint16         `json:"buyTokenId"`
	SellAmount  *big.Int       `json:"sellAmount"`
	BuyAmount   *big.Int       `json:"buyAmount"`
	TxHash      string         `json:"txHash"`
	EventIndex  uint           `json:"eventIndex"`
	BlockNumber uint64         `json:"blockNumber"`
}

// ID returns the globally unique identity of the event, used as the
// dedup key everywhere downstream.
func (e *BaseTradeEvent) ID() string {
	return fmt.Sprintf("%s|%d", e.TxHash, e.EventIndex)
}

// Trade represents a trade executed in one auction batch. A reverted
// trade stays in every collection, annotated with the reversion that
// cancelled it.
type Trade struct {
	BaseTradeEvent

	BatchID           uint32    `json:"batchId"`
	Timestamp         time.Time `json:"timestamp"`
	SettlingTimestamp time.Time `json:"settlingTimestamp"`

	SellToken *tokenv1.TokenDetails `json:"sellToken,omitempty"`
	BuyToken  *tokenv1.TokenDetails `json:"buyToken,omitempty"`

	// LimitPrice is only set when the order the trade executed against
	// is known locally.
	LimitPrice *decimal.Decimal `json:"limitPrice,omitempty"`
	FillPrice  decimal.Decimal  `json:"fillPrice"`

	RemainingAmount *big.Int `json:"remainingAmount,omitempty"`

	RevertID        string    `json:"revertId,omitempty"`
	RevertTimestamp time.Time `json:"revertTimestamp,omitempty"`
}

// NewTrade enriches a normalized trade event with its batch scope. The
// batch id is derived from the block timestamp, settling time from the
// start of the following batch.
func NewTrade(base *BaseTradeEvent, timestamp time.Time) *Trade {
	batchID := batchnum.FromTimestamp(timestamp)
	return &Trade{
		BaseTradeEvent:    *base,
		BatchID:           batchID,
		Timestamp:         timestamp,
		SettlingTimestamp: batchnum.SettlingTime(batchID),
	}
}

// RevertKey returns the composite key associating the trade with
// reversions of the same order in the same batch.
func (t *Trade) RevertKey() string {
	return fmt.Sprintf("%d|%s", t.BatchID, t.OrderID)
}

// Reverted reports whether a reversion has been matched to the trade.
func (t *Trade) Reverted() bool {
	return t.RevertID != ""
}

// Settled reports whether the batch the trade executed in has finished
// settling at the given time.
func (t *Trade) Settled(now time.Time) bool {
	return !now.Before(t.SettlingTimestamp)
}

// ApplyTokens attaches the token details for both legs and computes the
// fill price, buy amount over sell amount in natural units.
func (t *Trade) ApplyTokens(sell, buy *tokenv1.TokenDetails) {
	t.SellToken = sell
	t.BuyToken = buy

	if sell == nil || buy == nil || t.SellAmount == nil || t.SellAmount.Sign() == 0 {
		return
	}
	t.FillPrice = amountRatio(t.BuyAmount, t.SellAmount, buy.Decimals, sell.Decimals)
}

// ApplyLimitPrice sets the limit price from the referenced order's price
// fraction. Token details must be applied first.
func (t *Trade) ApplyLimitPrice(priceNumerator, priceDenominator *big.Int) {
	if t.SellToken == nil || t.BuyToken == nil ||
		priceNumerator == nil || priceDenominator == nil || priceDenominator.Sign() == 0 {
		return
	}
	price := amountRatio(priceNumerator, priceDenominator, t.BuyToken.Decimals, t.SellToken.Decimals)
	t.LimitPrice = &price
}

// TradeReversion represents a trade-reversion log scoped to its batch.
type TradeReversion struct {
	ID         string    `json:"id"`
	BatchID    uint32    `json:"batchId"`
	OrderID    string    `json:"orderId"`
	Timestamp  time.Time `json:"timestamp"`
	EventIndex uint      `json:"eventIndex"`
}

// NewTradeReversion enriches a normalized reversion event with its batch
// scope, derived from the block timestamp.
func NewTradeReversion(base *BaseTradeEvent, timestamp time.Time) *TradeReversion {
	return &TradeReversion{
		ID:         base.ID(),
		BatchID:    batchnum.FromTimestamp(timestamp),
		OrderID:    base.OrderID,
		Timestamp:  timestamp,
		EventIndex: base.EventIndex,
	}
}

// RevertKey returns the composite key shared with the trades the
// reversion can cancel.
func (r *TradeReversion) RevertKey() string {
	return fmt.Sprintf("%d|%s", r.BatchID, r.OrderID)
}

// amountRatio computes numerator/denominator with each side scaled down
// by its token's decimals.
func amountRatio(numerator, denominator *big.Int, numeratorDecimals, denominatorDecimals int32) decimal.Decimal {
	num := decimal.NewFromBigInt(numerator, -numeratorDecimals)
	den := decimal.NewFromBigInt(denominator, -denominatorDecimals)
	return num.Div(den)
}
