package chain

import (
	"context"
	"encoding/hex"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnosis/gp-v1-ui-sub001/pkg/errors"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/logger"
)

var testExchange = common.HexToAddress("0x6F400810b62df8E13fded51bE3331345F1f1EBAA")

type fakeNode struct {
	blockNumber uint64
	logs        []types.Log
	filterErr   error
	header      *types.Header
	callOut     []byte
	callErr     error

	lastQuery ethereum.FilterQuery
	lastCall  ethereum.CallMsg
}

func (f *fakeNode) BlockNumber(ctx context.Context) (uint64, error) {
	return f.blockNumber, nil
}

func (f *fakeNode) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	f.lastQuery = q
	return f.logs, f.filterErr
}

func (f *fakeNode) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return f.header, nil
}

func (f *fakeNode) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.lastCall = msg
	return f.callOut, f.callErr
}

func newTestProvider(t *testing.T, node *fakeNode, bookURL string) *RPCProvider {
	log, err := logger.NewLogger()
	require.NoError(t, err)

	return &RPCProvider{
		node:     node,
		http:     &http.Client{Timeout: time.Second},
		exchange: testExchange,
		bookURL:  bookURL,
		logger:   log,
	}
}

func word(v int64) []byte {
	return common.LeftPadBytes(big.NewInt(v).Bytes(), 32)
}

func TestRPCProvider_LatestBlock(t *testing.T) {
	p := newTestProvider(t, &fakeNode{blockNumber: 123}, "")

	head, err := p.LatestBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(123), head)
}

func TestRPCProvider_FilterEvents(t *testing.T) {
	owner := common.HexToAddress("0xcafe")
	entry := types.Log{
		Address:     testExchange,
		BlockNumber: 120,
		TxHash:      common.HexToHash("0xaaa"),
		Index:       3,
		Topics: []common.Hash{
			eventTopics[EventTrade],
			common.BytesToHash(owner.Bytes()),
			common.BigToHash(big.NewInt(7)),
			common.BigToHash(big.NewInt(4)),
		},
		Data: append(append(word(1), word(2000000)...), word(1000000000000000000)...),
	}

	node := &fakeNode{logs: []types.Log{entry}}
	p := newTestProvider(t, node, "")

	events, err := p.FilterEvents(context.Background(), EventTrade, 100, 200)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, EventTrade, ev.Name)
	assert.Equal(t, uint64(120), ev.BlockNumber)
	assert.Equal(t, uint(3), ev.LogIndex)
	assert.Equal(t, owner.Hex(), ev.Values["owner"])
	assert.Equal(t, "7", ev.Values["orderId"])
	assert.Equal(t, "4", ev.Values["sellToken"])
	assert.Equal(t, "1", ev.Values["buyToken"])
	assert.Equal(t, "2000000", ev.Values["executedSellAmount"])
	assert.Equal(t, "1000000000000000000", ev.Values["executedBuyAmount"])

	// the query targets the exchange contract and the event topic only
	assert.Equal(t, []common.Address{testExchange}, node.lastQuery.Addresses)
	assert.Equal(t, uint64(100), node.lastQuery.FromBlock.Uint64())
	assert.Equal(t, uint64(200), node.lastQuery.ToBlock.Uint64())
	require.Len(t, node.lastQuery.Topics, 1)
	assert.Equal(t, []common.Hash{eventTopics[EventTrade]}, node.lastQuery.Topics[0])
}

func TestRPCProvider_FilterEvents_RangeRejectionIsBisectable(t *testing.T) {
	node := &fakeNode{filterErr: errors.NewTracer("query returned more than 10000 results")}
	p := newTestProvider(t, node, "")

	_, err := p.FilterEvents(context.Background(), EventTrade, 0, 1_000_000)
	require.Error(t, err)
	assert.True(t, errors.IsQueryLimit(err))
}

func TestRPCProvider_FilterEvents_OtherNodeFailure(t *testing.T) {
	node := &fakeNode{filterErr: errors.NewTracer("connection refused")}
	p := newTestProvider(t, node, "")

	_, err := p.FilterEvents(context.Background(), EventTrade, 0, 10)
	require.Error(t, err)
	assert.False(t, errors.IsQueryLimit(err))
}

func TestRPCProvider_FilterEvents_UnknownEventName(t *testing.T) {
	p := newTestProvider(t, &fakeNode{}, "")

	_, err := p.FilterEvents(context.Background(), "OrderPlacement", 0, 10)
	require.Error(t, err)
}

func TestRPCProvider_BlockTimestamp(t *testing.T) {
	node := &fakeNode{header: &types.Header{Time: 1600000000, Number: big.NewInt(120)}}
	p := newTestProvider(t, node, "")

	ts, err := p.BlockTimestamp(context.Background(), 120)
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1600000000, 0).UTC(), ts)
}

func TestRPCProvider_PackedAuctionOrders(t *testing.T) {
	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	out := append(append(word(32), word(int64(len(payload)))...), common.RightPadBytes(payload, 32)...)

	node := &fakeNode{callOut: out}
	p := newTestProvider(t, node, "")

	user := common.HexToAddress("0xcafe")
	blob, err := p.PackedAuctionOrders(context.Background(), user, 2, 50)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(payload), blob)

	// selector plus three padded words
	require.Len(t, node.lastCall.Data, 4+3*32)
	assert.Equal(t, testExchange, *node.lastCall.To)
	assert.Equal(t, word(2), node.lastCall.Data[4+32:4+64], "offset argument")
	assert.Equal(t, word(50), node.lastCall.Data[4+64:4+96], "page size argument")
}

func TestRPCProvider_TokenIDByAddress(t *testing.T) {
	node := &fakeNode{callOut: word(7)}
	p := newTestProvider(t, node, "")

	id, err := p.TokenIDByAddress(context.Background(), common.HexToAddress("0xbeef"))
	require.NoError(t, err)
	assert.Equal(t, uint16(7), id)
}

func TestRPCProvider_TokenIDByAddress_RevertMessageSurvives(t *testing.T) {
	node := &fakeNode{callErr: errors.NewTracer("execution reverted: Must have Address to get ID")}
	p := newTestProvider(t, node, "")

	_, err := p.TokenIDByAddress(context.Background(), common.HexToAddress("0xbeef"))
	require.Error(t, err)
	assert.True(t, errors.IsTokenNotRegistered(err))
}

func TestRPCProvider_TokenAddressByID(t *testing.T) {
	listed := common.HexToAddress("0xbeef")
	node := &fakeNode{callOut: common.LeftPadBytes(listed.Bytes(), 32)}
	p := newTestProvider(t, node, "")

	address, err := p.TokenAddressByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, listed, address)
}

func TestRPCProvider_RawOrderBook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/markets/4-1", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("atoms"))
		w.Write([]byte(`{
			"asks": [{"price": 1.1e+17, "volume": 2000000}],
			"bids": [{"price": 90000000000000000, "volume": 1e+6}]
		}`))
	}))
	defer server.Close()

	p := newTestProvider(t, &fakeNode{}, server.URL)

	book, err := p.RawOrderBook(context.Background(), 4, 1)
	require.NoError(t, err)
	require.Len(t, book.Asks, 1)
	require.Len(t, book.Bids, 1)
	assert.Equal(t, "110000000000000000", book.Asks[0].Price.String())
	assert.Equal(t, "2000000", book.Asks[0].Volume.String())
	assert.Equal(t, "90000000000000000", book.Bids[0].Price.String())
	assert.Equal(t, "1000000", book.Bids[0].Volume.String())
}

func TestRPCProvider_RawOrderBook_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	p := newTestProvider(t, &fakeNode{}, server.URL)

	_, err := p.RawOrderBook(context.Background(), 4, 1)
	require.Error(t, err)
}
