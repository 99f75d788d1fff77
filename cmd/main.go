package main

import (
	"context"
	"log"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gnosis/gp-v1-ui-sub001/internal/bootstrap"
	"github.com/gnosis/gp-v1-ui-sub001/internal/infrastructure/chain"
	"github.com/gnosis/gp-v1-ui-sub001/internal/publisher"
	orderbookUc "github.com/gnosis/gp-v1-ui-sub001/internal/usecase/orderbook"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/config"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/logger"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/questdb"
	"github.com/gnosis/gp-v1-ui-sub001/pkg/redis"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	if !common.IsHexAddress(cfg.Chain.ExchangeAddress) {
		log.Fatalf("Invalid exchange address: %q", cfg.Chain.ExchangeAddress)
	}

	markets, err := orderbookUc.ParseMarkets(cfg.Chain.Markets)
	if err != nil {
		log.Fatalf("Invalid market configuration: %v", err)
	}

	questdbClient, err := questdb.NewClient(ctx, cfg.QuestDB)
	if err != nil {
		log.Fatalf("Failed to initialize QuestDB client: %v", err)
	}
	defer questdbClient.Close()

	redisClient := redis.NewClient(appLogger, &cfg.Redis)
	if err := redisClient.Connect(ctx); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Disconnect(context.Background())

	provider, err := chain.NewRPCProvider(
		ctx,
		cfg.Chain.RPCURL,
		common.HexToAddress(cfg.Chain.ExchangeAddress),
		cfg.Chain.OrderBookURL,
		appLogger,
	)
	if err != nil {
		log.Fatalf("Failed to connect to node: %v", err)
	}
	defer provider.Close()

	tradePublisher := publisher.NewPublisher(cfg.Kafka, appLogger)
	defer tradePublisher.Close()

	b := bootstrap.Bootstrap{}
	b.Init(bootstrap.BootstrapConfig{
		QuestDB:   questdbClient,
		Redis:     redisClient,
		Provider:  provider,
		Publisher: tradePublisher,
		Logger:    appLogger,
		Chain:     cfg.Chain,
	})

	if err := b.Usecase.Tokens.LoadUserTokens(ctx); err != nil {
		appLogger.ErrorContext(ctx, err)
	}

	appLogger.InfoContext(ctx, "dex data service started",
		logger.Field{Key: "app", Value: cfg.App.Name},
		logger.Field{Key: "environment", Value: cfg.App.Environment},
		logger.Field{Key: "network_id", Value: cfg.Chain.NetworkID},
		logger.Field{Key: "markets", Value: len(markets)},
	)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		b.Usecase.Trades.Poll(ctx, cfg.Chain.StartBlock, cfg.Chain.SyncInterval)
	}()

	if len(markets) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Usecase.OrderBook.Poll(ctx, markets)
		}()
	}

	<-ctx.Done()
	appLogger.Info("Shutting down dex data service...")
	wg.Wait()

	appLogger.Info("dex data service stopped")
}
