package v1

import "github.com/shopspring/decimal"

// Side represents one side of an order book.
type Side string

const (
	// SideBid represents buy interest, accumulated from the highest price
	// downwards.
	SideBid Side = "bid"
	// SideAsk represents sell interest, accumulated from the lowest price
	// upwards.
	SideAsk Side = "ask"
)

// PricePointDetails represents one aggregated order book level in
// natural token units.
type PricePointDetails struct {
	Type        Side            `json:"type"`
	Price       decimal.Decimal `json:"price"`
	Volume      decimal.Decimal `json:"volume"`
	TotalVolume decimal.Decimal `json:"totalVolume"`
}

// OrderBook represents both aggregated sides of one market, levels in
// ascending price order.
type OrderBook struct {
	BaseTokenID  uint16              `json:"baseTokenId"`
	QuoteTokenID uint16              `json:"quoteTokenId"`
	Asks         []PricePointDetails `json:"asks"`
	Bids         []PricePointDetails `json:"bids"`
}
