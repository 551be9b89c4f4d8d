package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/poolworks/solana-pool-indexer/internal/cache"
	"github.com/poolworks/solana-pool-indexer/internal/config"
)

// Example consumer of the pool update stream. Prints each refreshed pool as
// the indexer publishes it.
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	rclient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rclient.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Fatal("failed to connect to Redis")
	}
	poolCache := cache.NewRedisCacheFromClient(rclient, logger)

	updates, err := poolCache.SubscribePoolUpdates(ctx)
	if err != nil {
		logger.WithError(err).Fatal("failed to subscribe to pool updates")
	}

	logger.Info("subscribed to pool updates")

	go func() {
		for p := range updates {
			logger.WithFields(logrus.Fields{
				"address": p.Address,
				"pair":    p.MintA.Symbol + "/" + p.MintB.Symbol,
				"tvl":     p.TVL,
				"fee":     p.FeeRate,
			}).Info("pool refreshed")
		}
	}()

	<-sigCh
	logger.Info("shutting down subscriber")
	cancel()
}
