package v1

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/chain"
)

// DefaultMinVolume is the minimum-order-size threshold in natural base
// token units, applied when no reference price is available to derive
// one.
var DefaultMinVolume = decimal.RequireFromString("0.01")

// MinVolumeForPrice derives the minimum displayable volume from a
// reference price: levels worth less than one quote unit at that price
// are dust. A missing or non-positive reference price falls back to
// DefaultMinVolume.
func MinVolumeForPrice(referencePrice decimal.Decimal) decimal.Decimal {
	if referencePrice.Sign() <= 0 {
		return DefaultMinVolume
	}
	return decimal.New(1, 0).Div(referencePrice)
}

// Aggregate converts raw atom-denominated price points into cumulative
// order book levels in natural units.
//
// Prices are scaled by 10^(quoteDecimals-baseDecimals), volumes by
// 10^baseDecimals. Points at or below minVolume are dropped. Cumulative
// volume accumulates outward from the best price, so bids are summed in
// descending price order and then reversed back to ascending for
// presentation with their totals intact.
func Aggregate(points []chain.RawPricePoint, baseDecimals, quoteDecimals int32, side Side, minVolume decimal.Decimal) []PricePointDetails {
	levels := make([]PricePointDetails, 0, len(points))
	for _, p := range points {
		if p.Price == nil || p.Volume == nil {
			continue
		}
		volume := decimal.NewFromBigInt(p.Volume, -baseDecimals)
		if !volume.GreaterThan(minVolume) {
			continue
		}
		levels = append(levels, PricePointDetails{
			Type:   side,
			Price:  decimal.NewFromBigInt(p.Price, baseDecimals-quoteDecimals),
			Volume: volume,
		})
	}

	sort.SliceStable(levels, func(i, j int) bool {
		if side == SideBid {
			return levels[i].Price.GreaterThan(levels[j].Price)
		}
		return levels[i].Price.LessThan(levels[j].Price)
	})

	total := decimal.Zero
	for i := range levels {
		total = total.Add(levels[i].Volume)
		levels[i].TotalVolume = total
	}

	if side == SideBid {
		for i, j := 0, len(levels)-1; i < j; i, j = i+1, j-1 {
			levels[i], levels[j] = levels[j], levels[i]
		}
	}
	return levels
}
