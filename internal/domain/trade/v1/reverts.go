package v1

import (
	"fmt"
	"sort"

	"github.com/gnosis/gp-v1-ui-sub001/pkg/errors"
)

// PendingRevertWindow is how many batch ids back (current batch
// included) a trade is still considered provisionally pending, because a
// reversion for it may yet arrive. The bound is a carried-over heuristic
// with no proof against arbitrarily delayed reversions; treat it as
// tunable.
const PendingRevertWindow uint32 = 3

// ApplyReverts matches reversion events to trades sharing the same
// revert key and annotates the matched trades. Matching is strictly
// first come first served in (timestamp, event index) order: a reversion
// is never reused and a trade is never un-reverted. Re-applying the same
// inputs, with the previous call's pending map carried forward, is a
// no-op.
//
// The returned slice contains every known trade, reverted or not, in
// deterministic order (revert key, then time). The returned map holds
// the trades of every revert key still inside PendingRevertWindow of
// currentBatch, for carry into the next invocation.
//
// More unmatched reversions than trades for one key is a fatal data
// inconsistency and returns a trade_orphaned_reversions_error carrying
// the orphan count.
func ApplyReverts(trades []*Trade, reverts []*TradeReversion, carry map[string][]*Trade, currentBatch uint32) ([]*Trade, map[string][]*Trade, error) {
	grouped := map[string][]*Trade{}
	seenTrade := map[string]bool{}

	appendTrade := func(key string, t *Trade) {
		if seenTrade[t.ID()] {
			return
		}
		seenTrade[t.ID()] = true
		grouped[key] = append(grouped[key], t)
	}

	for key, carried := range carry {
		for _, t := range carried {
			appendTrade(key, t)
		}
	}
	for _, t := range trades {
		appendTrade(t.RevertKey(), t)
	}

	revGrouped := map[string][]*TradeReversion{}
	seenRevert := map[string]bool{}
	for _, r := range reverts {
		if seenRevert[r.ID] {
			continue
		}
		seenRevert[r.ID] = true
		key := r.RevertKey()
		revGrouped[key] = append(revGrouped[key], r)
	}

	for _, ts := range grouped {
		sortTrades(ts)
	}

	for key, revs := range revGrouped {
		sort.SliceStable(revs, func(i, j int) bool {
			if !revs[i].Timestamp.Equal(revs[j].Timestamp) {
				return revs[i].Timestamp.Before(revs[j].Timestamp)
			}
			return revs[i].EventIndex < revs[j].EventIndex
		})

		ts := grouped[key]
		i, j := 0, 0
		for i < len(ts) && j < len(revs) {
			t, r := ts[i], revs[j]
			switch {
			case !t.Reverted():
				t.RevertID = r.ID
				t.RevertTimestamp = r.Timestamp
				i, j = i+1, j+1
			case t.RevertID == r.ID:
				// already applied on a previous invocation
				i, j = i+1, j+1
			default:
				i++
			}
		}
		if j < len(revs) {
			orphans := len(revs) - j
			return nil, nil, errors.NewErrorDetailsWithObject(
				fmt.Sprintf("%d reversion events without a matching trade for key %s", orphans, key),
				string(errors.TradeOrphanedReversionsError),
				"reverts",
				orphans,
			)
		}
	}

	pending := map[string][]*Trade{}
	for key, ts := range grouped {
		if len(ts) == 0 {
			continue
		}
		if ts[0].BatchID+PendingRevertWindow > currentBatch {
			pending[key] = ts
		}
	}

	keys := make([]string, 0, len(grouped))
	for key := range grouped {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	all := make([]*Trade, 0, len(seenTrade))
	for _, key := range keys {
		all = append(all, grouped[key]...)
	}

	return all, pending, nil
}

func sortTrades(ts []*Trade) {
	sort.SliceStable(ts, func(i, j int) bool {
		if !ts[i].Timestamp.Equal(ts[j].Timestamp) {
			return ts[i].Timestamp.Before(ts[j].Timestamp)
		}
		return ts[i].EventIndex < ts[j].EventIndex
	})
}
