package v1

// IsDeleted reports whether an order has been removed by cancellation:
// its validity window has been moved wholly into a batch that already
// passed. Pending orders have no window yet and are never deleted.
func IsDeleted(o *AuctionElement, currentBatch uint32) bool {
	if o.Pending {
		return false
	}
	return o.ValidUntil < currentBatch
}

// Overwrite replaces the entire known order set with incoming, dropping
// deleted orders and reversing to newest-first display order. Positional
// ids increase monotonically with placement, so the reversal puts the
// most recently placed order first.
func Overwrite(incoming []*AuctionElement, currentBatch uint32) []*AuctionElement {
	kept := make([]*AuctionElement, 0, len(incoming))
	for _, o := range incoming {
		if !IsDeleted(o, currentBatch) {
			kept = append(kept, o)
		}
	}
	reverse(kept)
	return kept
}

// Update merges a fresher partial fetch into the existing set. Incoming
// orders win over existing entries with the same id; orders found to be
// deleted are dropped entirely, whether they arrived in incoming or were
// already present; all other existing orders are preserved. The result
// never contains duplicate ids.
func Update(existing, incoming []*AuctionElement, currentBatch uint32) []*AuctionElement {
	seen := make(map[string]struct{}, len(incoming))
	for _, o := range incoming {
		seen[o.ID] = struct{}{}
	}

	merged := make([]*AuctionElement, 0, len(existing)+len(incoming))
	for _, o := range incoming {
		if !IsDeleted(o, currentBatch) {
			merged = append(merged, o)
		}
	}
	reverse(merged)

	for _, o := range existing {
		if _, superseded := seen[o.ID]; superseded {
			continue
		}
		if IsDeleted(o, currentBatch) {
			continue
		}
		merged = append(merged, o)
	}
	return merged
}

// Append prepends non-deleted incoming orders (newest-first) ahead of
// the existing set, for incremental pagination. No id collision
// resolution happens here: the caller guarantees disjoint page ranges.
func Append(existing, incoming []*AuctionElement, currentBatch uint32) []*AuctionElement {
	head := Overwrite(incoming, currentBatch)
	return append(head, existing...)
}

func reverse(orders []*AuctionElement) {
	for i, j := 0, len(orders)-1; i < j; i, j = i+1, j-1 {
		orders[i], orders[j] = orders[j], orders[i]
	}
}
