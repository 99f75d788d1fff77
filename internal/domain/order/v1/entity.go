package v1

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Order represents one resting limit order on the exchange.
// PriceNumerator over PriceDenominator is the limit exchange rate;
// RemainingAmount is denominated in sell-token atoms.
type Order struct {
	BuyTokenID       uint16   `json:"buyTokenId"`
	SellTokenID      uint16   `json:"sellTokenId"`
	ValidFrom        uint32   `json:"validFrom"`
	ValidUntil       uint32   `json:"validUntil"`
	PriceNumerator   *big.Int `json:"priceNumerator"`
	PriceDenominator *big.Int `json:"priceDenominator"`
	RemainingAmount  *big.Int `json:"remainingAmount"`
}

// AuctionElement is an Order enriched with ownership and decode context.
//
// ID is a positional index assigned at decode time; it is not part of the
// encoded bytes and is only stable within one decode pass with a known
// starting offset. Never mutated once created: newer data for the same id
// supersedes the element through the merge reducers.
type AuctionElement struct {
	Order

	User             common.Address `json:"user"`
	SellTokenBalance *big.Int       `json:"sellTokenBalance"`
	ID               string         `json:"id"`
	IsUnlimited      bool           `json:"isUnlimited"`

	// Pending marks a locally submitted order that has not been mined
	// yet. Pending orders carry no on-chain validity window.
	Pending bool `json:"pending,omitempty"`
	// TxHash is only set for pending orders.
	TxHash string `json:"txHash,omitempty"`
}

// RawOrder is a single already-field-separated on-chain order struct, as
// returned by non-packed contract queries.
type RawOrder struct {
	User             common.Address
	SellTokenBalance *big.Int
	BuyTokenID       uint16
	SellTokenID      uint16
	ValidFrom        uint32
	ValidUntil       uint32
	PriceNumerator   *big.Int
	PriceDenominator *big.Int
	UsedAmount       *big.Int
}
