package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/poolworks/solana-pool-indexer/internal/cache"
	"github.com/poolworks/solana-pool-indexer/internal/config"
	"github.com/poolworks/solana-pool-indexer/internal/flags"
	"github.com/poolworks/solana-pool-indexer/internal/pool"
	"github.com/poolworks/solana-pool-indexer/internal/prices"
	"github.com/poolworks/solana-pool-indexer/internal/rpc"
	"github.com/poolworks/solana-pool-indexer/internal/storage"
	"github.com/poolworks/solana-pool-indexer/internal/stream"
)

// env bootstrap function
func loadEnv(logger *logrus.Logger) {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		logger.Warnf("no .env file found at %s, using system environment variables", envPath)
	} else {
		logger.Infof("loaded .env from %s", envPath)
	}
}

// main is the entry point for the pool indexer service.
// It polls the swap program on an interval, assembles pool records, and
// fans them out to Redis (cache + pub/sub) and ClickHouse (history).
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	loadEnv(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Redis: pool cache, pub/sub, feature flags
	rclient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   0,
	})
	if err := rclient.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}
	poolCache := cache.NewRedisCacheFromClient(rclient, logger)

	flagStore, err := flags.NewStore(rclient)
	if err != nil {
		logger.WithError(err).Fatal("failed to create flags store")
	}

	// ClickHouse: historical pool snapshots (optional)
	var store *cache.ClickHouseStore
	if cfg.ClickHouseAddr != "" {
		store, err = cache.NewClickHouseStore(ctx, cache.ClickHouseConfig{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
			Logger:   logger,
		})
		if err != nil {
			logger.WithError(err).Warn("clickhouse unavailable, snapshots disabled")
			store = nil
		} else {
			defer func() {
				_ = store.Close()
			}()
		}
	}

	// Solana RPC with retry at the transport level
	rpcClient := rpc.NewClient(rpc.ClientConfig{
		BaseURL:      cfg.RPCUrl,
		Timeout:      cfg.HTTPTimeout,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		Logger:       logger,
	})

	priceClient := prices.NewClient(cfg.PriceAPIBaseURL, cfg.PriceAPIKey)

	pipeline := pool.NewPipeline(pool.PipelineConfig{
		Connection: rpcClient,
		Prices:     priceClient,
		ProgramID:  cfg.SwapProgramID,
		BatchSize:  cfg.PoolBatchSize,
		Logger:     logger,
	})

	poller := stream.NewPoolPoller(stream.PoolPollerConfig{
		Pipeline: pipeline,
		Cache:    poolCache,
		Store:    storeOrNil(store),
		Flags:    flagStore,
		Interval: cfg.PollInterval,
		Logger:   logger,
	})

	go func() {
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	logger.WithFields(logrus.Fields{
		"program":  cfg.SwapProgramID,
		"interval": cfg.PollInterval,
	}).Info("pool indexer starting")

	if err := poller.Start(ctx, nil); err != nil && ctx.Err() == nil {
		logger.WithError(err).Fatal("poller failed")
	}
}

// storeOrNil keeps the typed-nil *ClickHouseStore out of the SnapshotStore
// interface value.
func storeOrNil(s *cache.ClickHouseStore) storage.SnapshotStore {
	if s == nil {
		return nil
	}
	return s
}
