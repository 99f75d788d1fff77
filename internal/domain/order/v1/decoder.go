package v1

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Hex-character widths of the fields of one packed order record, in
// encoding order. Byte widths double as hex widths.
const (
	userHexChars    = 40 // 20-byte address
	balanceHexChars = 64 // 32-byte sell token balance
	tokenIDHexChars = 4  // 2-byte token id
	batchIDHexChars = 8  // 4-byte batch id
	amountHexChars  = 32 // 16-byte amount

	// RecordHexChars is the fixed width of one encoded order record:
	// user, sellTokenBalance, buyTokenId, sellTokenId, validFrom,
	// validUntil, priceNumerator, priceDenominator, remainingAmount.
	RecordHexChars = userHexChars + balanceHexChars + 2*tokenIDHexChars + 2*batchIDHexChars + 3*amountHexChars
)

// UnlimitedOrderAmount is the price denominator at or above which an
// order is treated as having no practical amount ceiling. Tunable; the
// default is the maximum encodable 16-byte amount.
var UnlimitedOrderAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// DecodeAuctionElements parses a concatenation of fixed-width
// hex-encoded order records, as returned by the exchange contract's
// packed order queries. Records are returned in blob order with
// sequential positional ids starting at startingIndex; callers paging
// through orders must supply the page offset for ids to line up across
// pages.
//
// An empty blob is the contract's "no orders" signal and yields an empty
// slice. Trailing bytes that do not form a full valid record are
// silently dropped; the data source is a deployed contract, so a partial
// tail means a truncated response, not corrupt state worth failing on.
func DecodeAuctionElements(encoded string, startingIndex int) []*AuctionElement {
	encoded = strings.TrimPrefix(strings.TrimPrefix(encoded, "0x"), "0X")

	elements := make([]*AuctionElement, 0, len(encoded)/RecordHexChars)
	for i := 0; i+RecordHexChars <= len(encoded); i += RecordHexChars {
		record := encoded[i : i+RecordHexChars]
		element, ok := decodeRecord(record)
		if !ok {
			break
		}
		element.ID = strconv.Itoa(startingIndex + len(elements))
		elements = append(elements, element)
	}
	return elements
}

// DecodeOrder converts a single field-separated on-chain order struct
// into an Order, deriving the remaining amount from the placement-time
// denominator and the cumulative used amount.
func DecodeOrder(raw RawOrder) *Order {
	return &Order{
		BuyTokenID:       raw.BuyTokenID,
		SellTokenID:      raw.SellTokenID,
		ValidFrom:        raw.ValidFrom,
		ValidUntil:       raw.ValidUntil,
		PriceNumerator:   raw.PriceNumerator,
		PriceDenominator: raw.PriceDenominator,
		RemainingAmount:  new(big.Int).Sub(raw.PriceDenominator, raw.UsedAmount),
	}
}

func decodeRecord(record string) (*AuctionElement, bool) {
	if !isHex(record) {
		return nil, false
	}

	pos := 0
	next := func(width int) string {
		field := record[pos : pos+width]
		pos += width
		return field
	}

	user := next(userHexChars)
	balance := parseAmount(next(balanceHexChars))
	buyTokenID := parseUint(next(tokenIDHexChars), 16)
	sellTokenID := parseUint(next(tokenIDHexChars), 16)
	validFrom := parseUint(next(batchIDHexChars), 32)
	validUntil := parseUint(next(batchIDHexChars), 32)
	numerator := parseAmount(next(amountHexChars))
	denominator := parseAmount(next(amountHexChars))
	remaining := parseAmount(next(amountHexChars))

	return &AuctionElement{
		Order: Order{
			BuyTokenID:       uint16(buyTokenID),
			SellTokenID:      uint16(sellTokenID),
			ValidFrom:        uint32(validFrom),
			ValidUntil:       uint32(validUntil),
			PriceNumerator:   numerator,
			PriceDenominator: denominator,
			RemainingAmount:  remaining,
		},
		User:             common.HexToAddress(user),
		SellTokenBalance: balance,
		IsUnlimited:      denominator.Cmp(UnlimitedOrderAmount) >= 0,
	}, true
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func parseAmount(hexField string) *big.Int {
	amount, _ := new(big.Int).SetString(hexField, 16)
	return amount
}

func parseUint(hexField string, bits int) uint64 {
	v, _ := strconv.ParseUint(hexField, 16, bits)
	return v
}
