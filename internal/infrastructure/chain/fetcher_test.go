package chain_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/chain"
	"github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/chain/mock"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/errors"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/logger"
)

func eventAt(block uint64) chain.Event {
	return chain.Event{
		Name:        chain.EventTrade,
		TxHash:      fmt.Sprintf("0x%02x", block),
		BlockNumber: block,
	}
}

func eventsInRange(from, to uint64) []chain.Event {
	events := make([]chain.Event, 0, to-from+1)
	for b := from; b <= to; b++ {
		events = append(events, eventAt(b))
	}
	return events
}

func queryLimitErr() error {
	return errors.NewErrorDetails("query returned more than 10000 results", string(errors.ChainQueryLimitError), "")
}

func TestLogFetcher_Fetch(t *testing.T) {
	log, err := logger.NewLogger()
	require.NoError(t, err)

	testCases := []struct {
		name     string
		from     uint64
		to       uint64
		mockFn   func(p *mock.MockProvider)
		assertFn func(t *testing.T, events []chain.Event, err error)
	}{
		{
			name: "whole range fits in one query",
			from: 0,
			to:   9,
			mockFn: func(p *mock.MockProvider) {
				p.EXPECT().
					FilterEvents(gomock.Any(), chain.EventTrade, uint64(0), uint64(9)).
					Return(eventsInRange(0, 9), nil)
			},
			assertFn: func(t *testing.T, events []chain.Event, err error) {
				require.NoError(t, err)
				assert.Equal(t, eventsInRange(0, 9), events)
			},
		},
		{
			name: "limit rejection bisects and preserves block order",
			from: 0,
			to:   9,
			mockFn: func(p *mock.MockProvider) {
				// Ranges spanning more than 3 blocks are rejected, so the
				// fetcher has to split twice on each side.
				p.EXPECT().
					FilterEvents(gomock.Any(), chain.EventTrade, gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, from, to uint64) ([]chain.Event, error) {
						if to-from > 2 {
							return nil, queryLimitErr()
						}
						return eventsInRange(from, to), nil
					}).
					AnyTimes()
			},
			assertFn: func(t *testing.T, events []chain.Event, err error) {
				require.NoError(t, err)
				assert.Equal(t, eventsInRange(0, 9), events)
			},
		},
		{
			name: "limit rejection on a single block propagates",
			from: 7,
			to:   7,
			mockFn: func(p *mock.MockProvider) {
				p.EXPECT().
					FilterEvents(gomock.Any(), chain.EventTrade, uint64(7), uint64(7)).
					Return(nil, queryLimitErr())
			},
			assertFn: func(t *testing.T, events []chain.Event, err error) {
				require.Error(t, err)
				assert.True(t, errors.IsQueryLimit(err))
				assert.Nil(t, events)
			},
		},
		{
			name: "non-limit errors propagate without bisecting",
			from: 0,
			to:   100,
			mockFn: func(p *mock.MockProvider) {
				p.EXPECT().
					FilterEvents(gomock.Any(), chain.EventTrade, uint64(0), uint64(100)).
					Return(nil, errors.NewErrorDetails("node unavailable", string(errors.ChainProviderError), ""))
			},
			assertFn: func(t *testing.T, events []chain.Event, err error) {
				require.Error(t, err)
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.ChainProviderError)))
				assert.Nil(t, events)
			},
		},
		{
			name: "failure in one half fails the whole fetch",
			from: 0,
			to:   9,
			mockFn: func(p *mock.MockProvider) {
				p.EXPECT().
					FilterEvents(gomock.Any(), chain.EventTrade, gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, from, to uint64) ([]chain.Event, error) {
						if from == 0 && to == 9 {
							return nil, queryLimitErr()
						}
						if from <= 7 && 7 <= to {
							return nil, errors.NewErrorDetails("node unavailable", string(errors.ChainProviderError), "")
						}
						return eventsInRange(from, to), nil
					}).
					AnyTimes()
			},
			assertFn: func(t *testing.T, events []chain.Event, err error) {
				require.Error(t, err)
				assert.True(t, errors.ErrorCodeEquals(err, string(errors.ChainProviderError)))
				assert.Nil(t, events)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			provider := mock.NewMockProvider(ctrl)
			tc.mockFn(provider)

			fetcher := chain.NewLogFetcher(provider, log)
			events, err := fetcher.Fetch(context.Background(), chain.EventTrade, tc.from, tc.to)
			tc.assertFn(t, events, err)
		})
	}
}

func TestDropRemoved(t *testing.T) {
	kept := eventAt(10)
	removed := eventAt(11)
	removed.Removed = true

	assert.Equal(t, []chain.Event{kept}, chain.DropRemoved([]chain.Event{kept, removed}))
}

func TestEventID(t *testing.T) {
	e := chain.Event{TxHash: "0xdeadbeef", LogIndex: 3}
	assert.Equal(t, "0xdeadbeef|3", e.ID())
}
