package order

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	orderv1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/order/v1"
)

// Row represents one order of an owner's snapshot as persisted. Amounts
// are stored as decimal strings.
type Row struct {
	OrderID          string
	Owner            string
	BuyTokenID       int32
	SellTokenID      int32
	ValidFrom        int64
	ValidUntil       int64
	PriceNumerator   string
	PriceDenominator string
	RemainingAmount  string
	SellTokenBalance string
	IsUnlimited      bool
	Pending          bool
	TxHash           string
	SnapshotAt       time.Time
}

// FromElement converts a decoded auction element into its persisted
// form, stamped with the snapshot time.
func FromElement(e *orderv1.AuctionElement, snapshotAt time.Time) *Row {
	row := &Row{
		OrderID:     e.ID,
		Owner:       e.User.Hex(),
		BuyTokenID:  int32(e.BuyTokenID),
		SellTokenID: int32(e.SellTokenID),
		ValidFrom:   int64(e.ValidFrom),
		ValidUntil:  int64(e.ValidUntil),
		IsUnlimited: e.IsUnlimited,
		Pending:     e.Pending,
		TxHash:      e.TxHash,
		SnapshotAt:  snapshotAt,
	}
	if e.PriceNumerator != nil {
		row.PriceNumerator = e.PriceNumerator.String()
	}
	if e.PriceDenominator != nil {
		row.PriceDenominator = e.PriceDenominator.String()
	}
	if e.RemainingAmount != nil {
		row.RemainingAmount = e.RemainingAmount.String()
	}
	if e.SellTokenBalance != nil {
		row.SellTokenBalance = e.SellTokenBalance.String()
	}
	return row
}

// Element converts a persisted row back into the domain shape.
func (r *Row) Element() *orderv1.AuctionElement {
	return &orderv1.AuctionElement{
		Order: orderv1.Order{
			BuyTokenID:       uint16(r.BuyTokenID),
			SellTokenID:      uint16(r.SellTokenID),
			ValidFrom:        uint32(r.ValidFrom),
			ValidUntil:       uint32(r.ValidUntil),
			PriceNumerator:   parseAmount(r.PriceNumerator),
			PriceDenominator: parseAmount(r.PriceDenominator),
			RemainingAmount:  parseAmount(r.RemainingAmount),
		},
		User:             common.HexToAddress(r.Owner),
		SellTokenBalance: parseAmount(r.SellTokenBalance),
		ID:               r.OrderID,
		IsUnlimited:      r.IsUnlimited,
		Pending:          r.Pending,
		TxHash:           r.TxHash,
	}
}

func parseAmount(s string) *big.Int {
	if s == "" {
		return nil
	}
	amount, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil
	}
	return amount
}
