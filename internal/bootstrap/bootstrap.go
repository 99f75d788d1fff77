package bootstrap

import (
	tokenv1 "github.com/gnosis/gp-v1-ui-sub001/internal/domain/token/v1"
	"github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/cache"
	"github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/chain"
	"github.com/gnosis/gp-v1-ui-sub001/internal/publisher"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/config"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/logger"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/questdb"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/redis"
)

// Bootstrap is the bootstrap for the dex data service.
type Bootstrap struct {
	Usecase    Usecase
	Repository Repository
	Logger     logger.Interface

	QuestDB   questdb.Client
	Redis     redis.Client
	Provider  chain.Provider
	Publisher publisher.TradePublisher

	Tokens *tokenv1.ListCache
	Store  *cache.Store
	Chain  config.ChainConfig
}

// BootstrapConfig is the config for the bootstrap, carrying the
// connected clients.
type BootstrapConfig struct {
	QuestDB   questdb.Client
	Redis     redis.Client
	Provider  chain.Provider
	Publisher publisher.TradePublisher
	Logger    logger.Interface
	Chain     config.ChainConfig
}

// Init initializes the bootstrap.
func (b *Bootstrap) Init(config BootstrapConfig) Bootstrap {
	b.QuestDB = config.QuestDB
	b.Redis = config.Redis
	b.Provider = config.Provider
	b.Publisher = config.Publisher
	b.Logger = config.Logger
	b.Chain = config.Chain

	b.Tokens = tokenv1.NewListCache()
	b.Store = cache.NewStore(b.Redis, uint64(config.Chain.NetworkID))

	b.registerRepository()
	b.registerUsecase()

	return *b
}
