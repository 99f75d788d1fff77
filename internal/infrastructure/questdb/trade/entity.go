package trade

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	tradev1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/trade/v1"
)

// Row represents one trade as persisted. Amounts are stored as decimal
// strings so no precision is lost on the way through the database.
type Row struct {
	ID                string
	Timestamp         time.Time
	SettlingTimestamp time.Time
	BatchID           int64
	Owner             string
	OrderID           string
	SellTokenID       int32
	BuyTokenID        int32
	SellAmount        string
	BuyAmount         string
	FillPrice         string
	LimitPrice        string
	RevertID          string
	RevertTimestamp   time.Time
	BlockNumber       int64
	TxHash            string
	EventIndex        int64
}

// Filter represents the filter criteria for trade queries.
type Filter struct {
	Owner     string
	OrderID   string
	BatchFrom *uint32
	BatchTo   *uint32
	Limit     int
	Offset    int
}

// FromTrade converts a domain trade into its persisted form.
func FromTrade(t *tradev1.Trade) *Row {
	row := &Row{
		ID:                t.ID(),
		Timestamp:         t.Timestamp,
		SettlingTimestamp: t.SettlingTimestamp,
		BatchID:           int64(t.BatchID),
		Owner:             t.Owner.Hex(),
		OrderID:           t.OrderID,
		SellTokenID:       int32(t.SellTokenID),
		BuyTokenID:        int32(t.BuyTokenID),
		SellAmount:        t.SellAmount.String(),
		BuyAmount:         t.BuyAmount.String(),
		FillPrice:         t.FillPrice.String(),
		RevertID:          t.RevertID,
		RevertTimestamp:   t.RevertTimestamp,
		BlockNumber:       int64(t.BlockNumber),
		TxHash:            t.TxHash,
		EventIndex:        int64(t.EventIndex),
	}
	if t.LimitPrice != nil {
		row.LimitPrice = t.LimitPrice.String()
	}
	return row
}

// Trade converts a persisted row back into the domain shape. Token
// details are not stored and stay nil.
func (r *Row) Trade() (*tradev1.Trade, error) {
	sellAmount, ok := new(big.Int).SetString(r.SellAmount, 10)
	if !ok {
		sellAmount = big.NewInt(0)
	}
	buyAmount, ok := new(big.Int).SetString(r.BuyAmount, 10)
	if !ok {
		buyAmount = big.NewInt(0)
	}

	t := &tradev1.Trade{
		BaseTradeEvent: tradev1.BaseTradeEvent{
			Owner:       common.HexToAddress(r.Owner),
			OrderID:     r.OrderID,
			SellTokenID: uint16(r.SellTokenID),
			BuyTokenID:  uint16(r.BuyTokenID),
			SellAmount:  sellAmount,
			BuyAmount:   buyAmount,
			TxHash:      r.TxHash,
			EventIndex:  uint(r.EventIndex),
			BlockNumber: uint64(r.BlockNumber),
		},
		BatchID:           uint32(r.BatchID),
		Timestamp:         r.Timestamp,
		SettlingTimestamp: r.SettlingTimestamp,
		RevertID:          r.RevertID,
		RevertTimestamp:   r.RevertTimestamp,
	}

	if r.FillPrice != "" {
		fill, err := decimal.NewFromString(r.FillPrice)
		if err != nil {
			return nil, err
		}
		t.FillPrice = fill
	}
	if r.LimitPrice != "" {
		limit, err := decimal.NewFromString(r.LimitPrice)
		if err != nil {
			return nil, err
		}
		t.LimitPrice = &limit
	}
	return t, nil
}
