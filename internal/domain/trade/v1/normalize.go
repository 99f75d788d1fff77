package v1

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/chain"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/errors"
)

// Normalize converts a trade or trade-reversion log entry into a
// BaseTradeEvent. Amounts arrive as decimal strings and pass through as
// big.Int values, never floating point. A missing or unparseable field
// yields a trade_normalize_error naming the field.
func Normalize(ev chain.Event) (*BaseTradeEvent, error) {
	owner, err := parseAddress(ev, "owner")
	if err != nil {
		return nil, err
	}
	orderID, err := value(ev, "orderId")
	if err != nil {
		return nil, err
	}
	sellTokenID, err := parseTokenID(ev, "sellToken")
	if err != nil {
		return nil, err
	}
	buyTokenID, err := parseTokenID(ev, "buyToken")
	if err != nil {
		return nil, err
	}
	sellAmount, err := parseAmount(ev, "executedSellAmount")
	if err != nil {
		return nil, err
	}
	buyAmount, err := parseAmount(ev, "executedBuyAmount")
	if err != nil {
		return nil, err
	}

	return &BaseTradeEvent{
		Owner:       owner,
		OrderID:     orderID,
		SellTokenID: sellTokenID,
		BuyTokenID:  buyTokenID,
		SellAmount:  sellAmount,
		BuyAmount:   buyAmount,
		TxHash:      ev.TxHash,
		EventIndex:  ev.LogIndex,
		BlockNumber: ev.BlockNumber,
	}, nil
}

func value(ev chain.Event, field string) (string, error) {
	v, ok := ev.Values[field]
	if !ok || v == "" {
		return "", errors.NewErrorDetailsWithObject(
			fmt.Sprintf("event %s is missing value %q", ev.ID(), field),
			string(errors.TradeNormalizeError),
			field,
			ev,
		)
	}
	return v, nil
}

func parseAddress(ev chain.Event, field string) (common.Address, error) {
	v, err := value(ev, field)
	if err != nil {
		return common.Address{}, err
	}
	if !common.IsHexAddress(v) {
		return common.Address{}, errors.NewErrorDetailsWithObject(
			fmt.Sprintf("event %s value %q is not an address: %s", ev.ID(), field, v),
			string(errors.TradeNormalizeError),
			field,
			ev,
		)
	}
	return common.HexToAddress(v), nil
}

func parseTokenID(ev chain.Event, field string) (uint16, error) {
	v, err := value(ev, field)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(v, 10, 16)
	if err != nil {
		return 0, errors.NewErrorDetailsWithObject(
			fmt.Sprintf("event %s value %q is not a token id: %s", ev.ID(), field, v),
			string(errors.TradeNormalizeError),
			field,
			ev,
		)
	}
	return uint16(id), nil
}

func parseAmount(ev chain.Event, field string) (*big.Int, error) {
	v, err := value(ev, field)
	if err != nil {
		return nil, err
	}
	amount, ok := new(big.Int).SetString(v, 10)
	if !ok || amount.Sign() < 0 {
		return nil, errors.NewErrorDetailsWithObject(
			fmt.Sprintf("event %s value %q is not an amount: %s", ev.ID(), field, v),
			string(errors.TradeNormalizeError),
			field,
			ev,
		)
	}
	return amount, nil
}
