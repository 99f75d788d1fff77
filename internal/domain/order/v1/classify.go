package v1

// Classified partitions an order collection into orders that can still
// trade and orders whose validity window has closed.
type Classified struct {
	Active []*AuctionElement
	Closed []*AuctionElement
}

// Classify buckets orders against the current batch id. A confirmed
// order is active while its validity window has not expired; a pending
// order has no on-chain window yet and is treated as always active until
// it is confirmed or dropped.
func Classify(orders []*AuctionElement, currentBatch uint32) Classified {
	var c Classified
	for _, o := range orders {
		if isActive(o, currentBatch) {
			c.Active = append(c.Active, o)
		} else {
			c.Closed = append(c.Closed, o)
		}
	}
	return c
}

func isActive(o *AuctionElement, currentBatch uint32) bool {
	if o.Pending {
		return true
	}
	return o.ValidUntil >= currentBatch
}
