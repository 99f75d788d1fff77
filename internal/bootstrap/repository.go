package bootstrap

import (
	orderInfra "github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/questdb/order"
	tradeInfra "github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/questdb/trade"
)

// Repository is the repository for the dex data service.
type Repository struct {
	TradeRepository tradeInfra.TradeRepository
	OrderRepository orderInfra.OrderRepository
}

// registerRepository registers the repository.
func (b *Bootstrap) registerRepository() {
	b.Repository.TradeRepository = tradeInfra.NewRepository(b.QuestDB)
	b.Repository.OrderRepository = orderInfra.NewRepository(b.QuestDB)
}
