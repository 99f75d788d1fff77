package chain

import (
	"context"

	"github.com/gnosis/gp-v1-ui-sub001/pkg/errors"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/logger"
)

// LogFetcher fetches event logs over arbitrary block ranges. When the
// provider rejects a range for matching too many results, the range is
// bisected and both halves fetched recursively, down to single-block
// granularity; a single block that still fails is not retried.
type LogFetcher struct {
	provider Provider
	logger   logger.Interface
}

// NewLogFetcher creates a new LogFetcher.
func NewLogFetcher(provider Provider, logger logger.Interface) *LogFetcher {
	return &LogFetcher{
		provider: provider,
		logger:   logger,
	}
}

// Fetch returns all events with the given name in the inclusive block
// range, in ascending block order. The two halves of a bisected range
// run concurrently but are concatenated by position, so completion order
// never affects the result.
func (f *LogFetcher) Fetch(ctx context.Context, name string, fromBlock, toBlock uint64) ([]Event, error) {
	events, err := f.provider.FilterEvents(ctx, name, fromBlock, toBlock)
	if err == nil {
		return events, nil
	}
	if !errors.IsQueryLimit(err) || fromBlock >= toBlock {
		return nil, err
	}

	mid := fromBlock + (toBlock-fromBlock)/2
	f.logger.DebugContext(ctx, "bisecting log query range",
		logger.Field{Key: "event", Value: name},
		logger.Field{Key: "from_block", Value: fromBlock},
		logger.Field{Key: "to_block", Value: toBlock},
		logger.Field{Key: "mid_block", Value: mid},
	)

	type half struct {
		events []Event
		err    error
	}
	upper := make(chan half, 1)
	go func() {
		events, err := f.Fetch(ctx, name, mid+1, toBlock)
		upper <- half{events: events, err: err}
	}()

	lower, err := f.Fetch(ctx, name, fromBlock, mid)
	res := <-upper
	if err != nil {
		return nil, err
	}
	if res.err != nil {
		return nil, res.err
	}
	return append(lower, res.events...), nil
}
