package chain

import "fmt"

// Event names emitted by the exchange contract that this service consumes.
const (
	EventTrade          = "Trade"
	EventTradeReversion = "TradeReversion"
)

// Event is one blockchain log entry as delivered by the data provider.
// The provider hands every value string-encoded; nothing here is parsed
// beyond the envelope, numeric interpretation is the normalizer's job.
type Event struct {
	Name        string            `json:"name"`
	TxHash      string            `json:"txHash"`
	LogIndex    uint              `json:"logIndex"`
	BlockNumber uint64            `json:"blockNumber"`
	Removed     bool              `json:"removed"`
	Values      map[string]string `json:"values"`
}

// ID returns the globally unique identity of the log entry.
func (e Event) ID() string {
	return fmt.Sprintf("%s|%d", e.TxHash, e.LogIndex)
}

// DropRemoved filters out events that were reorganized out of the chain.
// Removed events must never reach normalization.
func DropRemoved(events []Event) []Event {
	kept := make([]Event, 0, len(events))
	for _, e := range events {
		if !e.Removed {
			kept = append(kept, e)
		}
	}
	return kept
}
