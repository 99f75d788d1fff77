package v1

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func testToken(id uint16, symbol string) *TokenDetails {
	return &TokenDetails{
		ID:       id,
		Address:  common.HexToAddress(fmt.Sprintf("0x%040x", id+1)),
		Symbol:   symbol,
		Decimals: 18,
	}
}

func TestListCache_ReplaceAndLookup(t *testing.T) {
	cache := NewListCache()
	weth := testToken(1, "WETH")
	usdc := testToken(4, "USDC")

	cache.Replace([]*TokenDetails{usdc, weth})

	assert.Equal(t, weth, cache.GetByID(1))
	assert.Equal(t, usdc, cache.GetByAddress(usdc.Address))
	assert.Nil(t, cache.GetByID(9))

	listed := cache.List()
	assert.Equal(t, []*TokenDetails{weth, usdc}, listed, "list is ordered by id")
}

func TestListCache_UpsertReplacesStaleAddress(t *testing.T) {
	cache := NewListCache()
	cache.Replace([]*TokenDetails{testToken(1, "OLD")})
	stale := cache.GetByID(1).Address

	updated := &TokenDetails{ID: 1, Address: common.HexToAddress("0xcafe"), Symbol: "NEW", Decimals: 6}
	cache.Upsert(updated)

	assert.Equal(t, updated, cache.GetByID(1))
	assert.Equal(t, updated, cache.GetByAddress(updated.Address))
	assert.Nil(t, cache.GetByAddress(stale))
}

func TestListCache_SubscribeAndDispose(t *testing.T) {
	cache := NewListCache()

	var calls [][]*TokenDetails
	dispose := cache.Subscribe(func(tokens []*TokenDetails) {
		calls = append(calls, tokens)
	})

	cache.Replace([]*TokenDetails{testToken(1, "WETH")})
	assert.Len(t, calls, 1)
	assert.Len(t, calls[0], 1)

	dispose()
	dispose() // second call is a no-op
	cache.Upsert(testToken(2, "DAI"))
	assert.Len(t, calls, 1)
}

func TestTokenDetails_Label(t *testing.T) {
	withSymbol := testToken(1, "WETH")
	assert.Equal(t, "WETH", withSymbol.Label())

	noSymbol := testToken(2, "")
	assert.Equal(t, noSymbol.Address.Hex(), noSymbol.Label())
}
