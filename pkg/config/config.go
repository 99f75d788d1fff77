package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/questdb"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/redis"
	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	App     AppConfig    `envPrefix:"APP_"`
	Chain   ChainConfig  `envPrefix:"CHAIN_"`
	QuestDB questdb.Config `envPrefix:"QUESTDB_"`
	Redis   redis.Config `envPrefix:"REDIS_"`
	Kafka   KafkaConfig  `envPrefix:"KAFKA_"`
}

// AppConfig represents the application configuration.
type AppConfig struct {
	Name        string `env:"NAME" envDefault:"dex-data-service"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// ChainConfig represents the chain data provider configuration.
type ChainConfig struct {
	NetworkID       int           `env:"NETWORK_ID" envDefault:"1"`
	ExchangeAddress string        `env:"EXCHANGE_ADDRESS"`
	RPCURL          string        `env:"RPC_URL" envDefault:"http://localhost:8545"`
	OrderBookURL    string        `env:"ORDER_BOOK_URL" envDefault:"http://localhost:8080"`
	OrderPageSize   int           `env:"ORDER_PAGE_SIZE" envDefault:"50"`
	// StartBlock is the exchange contract's deployment block; syncing
	// never looks further back than this.
	StartBlock uint64 `env:"START_BLOCK"`
	SyncInterval    time.Duration `env:"SYNC_INTERVAL" envDefault:"30s"`
	BookInterval    time.Duration `env:"BOOK_INTERVAL" envDefault:"5s"`
	// Markets lists the base-quote token id pairs to poll, e.g. "4-1,7-1".
	Markets []string `env:"MARKETS" envSeparator:","`
}

// KafkaConfig represents the Kafka publisher configuration.
type KafkaConfig struct {
	Brokers []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic   string   `env:"TOPIC" envDefault:"trade-updates"`
}

// Load loads the configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
