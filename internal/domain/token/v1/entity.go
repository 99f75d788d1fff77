package v1

import "github.com/ethereum/go-ethereum/common"

// TokenDetails represents one token listed on the exchange contract.
type TokenDetails struct {
	ID       uint16         `json:"id"`
	Address  common.Address `json:"address"`
	Symbol   string         `json:"symbol"`
	Decimals int32          `json:"decimals"`
}

// Label returns the display name for the token. Symbol takes precedence,
// tokens without one fall back to their address.
func (t *TokenDetails) Label() string {
	if t.Symbol != "" {
		return t.Symbol
	}
	return t.Address.Hex()
}
