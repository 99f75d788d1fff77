package chain

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/gnosis/gp-v1-ui-sub001/pkg/errors"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/logger"
)

// eventTopics maps consumed event names to their log topic hashes. Both
// events share the same field layout: owner, order id and sell token are
// indexed, the rest sits in the data segment.
var eventTopics = map[string]common.Hash{
	EventTrade:          crypto.Keccak256Hash([]byte("Trade(address,uint16,uint16,uint16,uint128,uint128)")),
	EventTradeReversion: crypto.Keccak256Hash([]byte("TradeReversion(address,uint16,uint16,uint16,uint128,uint128)")),
}

// queryLimitPatterns are the message fragments nodes use to reject a log
// query whose block range matched too many results. There is no error
// code for this on the wire, only prose.
var queryLimitPatterns = []string{
	"query returned more than",
	"response size exceeded",
	"block range is too wide",
	"exceed maximum block range",
}

// nodeBackend is the subset of the go-ethereum client the provider uses,
// split out so tests can substitute a fake node.
type nodeBackend interface {
	BlockNumber(ctx context.Context) (uint64, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// RPCProvider implements Provider against a JSON-RPC node for logs and
// exchange contract reads, and the order book service's HTTP endpoint
// for raw price points.
type RPCProvider struct {
	node     nodeBackend
	client   *ethclient.Client
	http     *http.Client
	exchange common.Address
	bookURL  string
	logger   logger.Interface
}

// NewRPCProvider connects to the node and returns a ready provider.
func NewRPCProvider(
	ctx context.Context,
	rpcURL string,
	exchange common.Address,
	orderBookURL string,
	log logger.Interface,
) (*RPCProvider, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, errors.NewTracer(fmt.Sprintf("failed to dial node %s: %v", rpcURL, err))
	}

	return &RPCProvider{
		node:     client,
		client:   client,
		http:     &http.Client{Timeout: 10 * time.Second},
		exchange: exchange,
		bookURL:  strings.TrimRight(orderBookURL, "/"),
		logger:   log,
	}, nil
}

// Close releases the underlying RPC connection.
func (p *RPCProvider) Close() {
	if p.client != nil {
		p.client.Close()
	}
}

// LatestBlock returns the current head block number.
func (p *RPCProvider) LatestBlock(ctx context.Context) (uint64, error) {
	number, err := p.node.BlockNumber(ctx)
	if err != nil {
		return 0, errors.NewErrorDetails(err.Error(), string(errors.ChainProviderError), "")
	}
	return number, nil
}

// FilterEvents returns the logs with the given event name in the
// inclusive block range. A range-too-large rejection comes back as a
// ChainQueryLimitError so the caller can bisect.
func (p *RPCProvider) FilterEvents(ctx context.Context, name string, fromBlock, toBlock uint64) ([]Event, error) {
	topic, ok := eventTopics[name]
	if !ok {
		return nil, errors.NewErrorDetails(
			fmt.Sprintf("unknown event name %q", name),
			string(errors.ChainProviderError),
			"name",
		)
	}

	logs, err := p.node.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{p.exchange},
		Topics:    [][]common.Hash{{topic}},
	})
	if err != nil {
		return nil, classifyFilterError(err)
	}

	events := make([]Event, 0, len(logs))
	for _, entry := range logs {
		ev, err := decodeLog(name, entry)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

// BlockTimestamp returns the timestamp of the given block.
func (p *RPCProvider) BlockTimestamp(ctx context.Context, blockNumber uint64) (time.Time, error) {
	header, err := p.node.HeaderByNumber(ctx, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return time.Time{}, errors.NewErrorDetails(err.Error(), string(errors.ChainProviderError), "")
	}
	return time.Unix(int64(header.Time), 0).UTC(), nil
}

// PackedAuctionOrders returns the hex blob of the user's orders for the
// given page, as the contract encodes it.
func (p *RPCProvider) PackedAuctionOrders(ctx context.Context, user common.Address, offset, pageSize uint16) (string, error) {
	out, err := p.call(ctx, "getEncodedUserOrdersPaginated(address,uint16,uint16)",
		user.Bytes(), uint16Word(offset), uint16Word(pageSize))
	if err != nil {
		return "", err
	}

	// single dynamic bytes return value: offset word, length word, payload
	if len(out) < 64 {
		return "", errors.NewErrorDetails(
			fmt.Sprintf("malformed order page response of %d bytes", len(out)),
			string(errors.ChainProviderError),
			"",
		)
	}
	length := new(big.Int).SetBytes(out[32:64]).Uint64()
	if uint64(len(out)) < 64+length {
		return "", errors.NewErrorDetails(
			fmt.Sprintf("order page response truncated, want %d bytes", length),
			string(errors.ChainProviderError),
			"",
		)
	}
	return hex.EncodeToString(out[64 : 64+length]), nil
}

// TokenIDByAddress resolves an exchange token id. The contract reverts
// with a message pattern for unregistered addresses; that message is
// preserved for errors.IsTokenNotRegistered.
func (p *RPCProvider) TokenIDByAddress(ctx context.Context, address common.Address) (uint16, error) {
	out, err := p.call(ctx, "tokenAddressToIdMap(address)", address.Bytes())
	if err != nil {
		return 0, err
	}
	if len(out) < 32 {
		return 0, errors.NewErrorDetails(
			fmt.Sprintf("malformed token id response of %d bytes", len(out)),
			string(errors.ChainProviderError),
			"address",
		)
	}
	return uint16(new(big.Int).SetBytes(out[:32]).Uint64()), nil
}

// TokenAddressByID resolves the address listed for an exchange token id.
func (p *RPCProvider) TokenAddressByID(ctx context.Context, id uint16) (common.Address, error) {
	out, err := p.call(ctx, "tokenIdToAddressMap(uint16)", uint16Word(id))
	if err != nil {
		return common.Address{}, err
	}
	if len(out) < 32 {
		return common.Address{}, errors.NewErrorDetails(
			fmt.Sprintf("malformed token address response of %d bytes", len(out)),
			string(errors.ChainProviderError),
			"id",
		)
	}
	return common.BytesToAddress(out[12:32]), nil
}

// rawBookResponse mirrors the order book endpoint's JSON. Numbers may
// arrive in scientific notation, so they pass through big.Float.
type rawBookResponse struct {
	Asks []rawBookPoint `json:"asks"`
	Bids []rawBookPoint `json:"bids"`
}

type rawBookPoint struct {
	Price  json.Number `json:"price"`
	Volume json.Number `json:"volume"`
}

// RawOrderBook returns the unaggregated ask/bid price points for a
// market from the order book service.
func (p *RPCProvider) RawOrderBook(ctx context.Context, baseTokenID, quoteTokenID uint16) (*RawOrderBook, error) {
	url := fmt.Sprintf("%s/api/v1/markets/%d-%d?atoms=true", p.bookURL, baseTokenID, quoteTokenID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.NewErrorDetails(err.Error(), string(errors.ChainProviderError), "")
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, errors.NewErrorDetails(err.Error(), string(errors.ChainProviderError), "")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewErrorDetails(
			fmt.Sprintf("order book endpoint returned status %d", resp.StatusCode),
			string(errors.ChainProviderError),
			"",
		)
	}

	var payload rawBookResponse
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return nil, errors.NewErrorDetails(err.Error(), string(errors.ChainProviderError), "")
	}

	book := &RawOrderBook{
		Asks: make([]RawPricePoint, 0, len(payload.Asks)),
		Bids: make([]RawPricePoint, 0, len(payload.Bids)),
	}
	for _, point := range payload.Asks {
		converted, err := convertBookPoint(point)
		if err != nil {
			return nil, err
		}
		book.Asks = append(book.Asks, converted)
	}
	for _, point := range payload.Bids {
		converted, err := convertBookPoint(point)
		if err != nil {
			return nil, err
		}
		book.Bids = append(book.Bids, converted)
	}
	return book, nil
}

func (p *RPCProvider) call(ctx context.Context, signature string, words ...[]byte) ([]byte, error) {
	data := crypto.Keccak256([]byte(signature))[:4]
	for _, word := range words {
		data = append(data, common.LeftPadBytes(word, 32)...)
	}

	out, err := p.node.CallContract(ctx, ethereum.CallMsg{To: &p.exchange, Data: data}, nil)
	if err != nil {
		// revert reasons ride along in the message and downstream checks
		// match on them, so the text must survive the wrap
		return nil, errors.NewErrorDetails(err.Error(), string(errors.ChainProviderError), "")
	}
	return out, nil
}

func decodeLog(name string, entry types.Log) (Event, error) {
	if len(entry.Topics) < 4 || len(entry.Data) < 96 {
		return Event{}, errors.NewErrorDetailsWithObject(
			fmt.Sprintf("log %s|%d does not match the %s layout", entry.TxHash.Hex(), entry.Index, name),
			string(errors.ChainProviderError),
			"",
			entry,
		)
	}

	return Event{
		Name:        name,
		TxHash:      entry.TxHash.Hex(),
		LogIndex:    entry.Index,
		BlockNumber: entry.BlockNumber,
		Removed:     entry.Removed,
		Values: map[string]string{
			"owner":              common.BytesToAddress(entry.Topics[1].Bytes()).Hex(),
			"orderId":            new(big.Int).SetBytes(entry.Topics[2].Bytes()).String(),
			"sellToken":          new(big.Int).SetBytes(entry.Topics[3].Bytes()).String(),
			"buyToken":           new(big.Int).SetBytes(entry.Data[0:32]).String(),
			"executedSellAmount": new(big.Int).SetBytes(entry.Data[32:64]).String(),
			"executedBuyAmount":  new(big.Int).SetBytes(entry.Data[64:96]).String(),
		},
	}, nil
}

func classifyFilterError(err error) error {
	message := strings.ToLower(err.Error())
	for _, pattern := range queryLimitPatterns {
		if strings.Contains(message, pattern) {
			return errors.NewErrorDetails(err.Error(), string(errors.ChainQueryLimitError), "")
		}
	}
	return errors.NewErrorDetails(err.Error(), string(errors.ChainProviderError), "")
}

func uint16Word(v uint16) []byte {
	return new(big.Int).SetUint64(uint64(v)).Bytes()
}

func convertBookPoint(point rawBookPoint) (RawPricePoint, error) {
	price, err := atomNumber(point.Price)
	if err != nil {
		return RawPricePoint{}, err
	}
	volume, err := atomNumber(point.Volume)
	if err != nil {
		return RawPricePoint{}, err
	}
	return RawPricePoint{Price: price, Volume: volume}, nil
}

func atomNumber(n json.Number) (*big.Int, error) {
	f, ok := new(big.Float).SetString(n.String())
	if !ok {
		return nil, errors.NewErrorDetails(
			fmt.Sprintf("order book point %q is not a number", n.String()),
			string(errors.ChainProviderError),
			"",
		)
	}
	atoms, _ := f.Int(nil)
	return atoms, nil
}
