package v1

import (
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ListCache is an in-memory cache of the tokens listed on the exchange.
// Reads are lock-guarded lookups by id or address; writers replace or
// upsert entries and fan the new list out to subscribed observers.
type ListCache struct {
	mu        sync.RWMutex
	byID      map[uint16]*TokenDetails
	byAddress map[common.Address]*TokenDetails

	observerSeq int
	observers   map[int]func([]*TokenDetails)
}

// NewListCache creates an empty ListCache.
func NewListCache() *ListCache {
	return &ListCache{
		byID:      map[uint16]*TokenDetails{},
		byAddress: map[common.Address]*TokenDetails{},
		observers: map[int]func([]*TokenDetails){},
	}
}

// Replace swaps the whole cached list for the given tokens and notifies
// observers.
func (c *ListCache) Replace(tokens []*TokenDetails) {
	c.mu.Lock()
	c.byID = make(map[uint16]*TokenDetails, len(tokens))
	c.byAddress = make(map[common.Address]*TokenDetails, len(tokens))
	for _, t := range tokens {
		c.byID[t.ID] = t
		c.byAddress[t.Address] = t
	}
	c.mu.Unlock()

	c.notify()
}

// Upsert adds or updates a single token and notifies observers.
func (c *ListCache) Upsert(token *TokenDetails) {
	c.mu.Lock()
	if prev, ok := c.byID[token.ID]; ok {
		delete(c.byAddress, prev.Address)
	}
	c.byID[token.ID] = token
	c.byAddress[token.Address] = token
	c.mu.Unlock()

	c.notify()
}

// GetByID returns the token with the given exchange id, or nil when the
// cache has no entry for it.
func (c *ListCache) GetByID(id uint16) *TokenDetails {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byID[id]
}

// GetByAddress returns the token listed at the given address, or nil.
func (c *ListCache) GetByAddress(address common.Address) *TokenDetails {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byAddress[address]
}

// List returns the cached tokens ordered by exchange id.
func (c *ListCache) List() []*TokenDetails {
	c.mu.RLock()
	tokens := make([]*TokenDetails, 0, len(c.byID))
	for _, t := range c.byID {
		tokens = append(tokens, t)
	}
	c.mu.RUnlock()

	sort.Slice(tokens, func(i, j int) bool { return tokens[i].ID < tokens[j].ID })
	return tokens
}

// Subscribe registers an observer that is called with the full list on
// every cache change. The returned disposer removes the observer; it is
// safe to call more than once.
func (c *ListCache) Subscribe(fn func([]*TokenDetails)) func() {
	c.mu.Lock()
	id := c.observerSeq
	c.observerSeq++
	c.observers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

func (c *ListCache) notify() {
	tokens := c.List()

	c.mu.RLock()
	observers := make([]func([]*TokenDetails), 0, len(c.observers))
	for _, fn := range c.observers {
		observers = append(observers, fn)
	}
	c.mu.RUnlock()

	for _, fn := range observers {
		fn(tokens)
	}
}
