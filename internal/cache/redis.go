package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/poolworks/solana-pool-indexer/internal/constants"
	"github.com/poolworks/solana-pool-indexer/internal/pool"
)

// RedisCache caches the latest assembled pool list, per-pool records and
// per-mint prices, and fans out refresh events over Pub/Sub.
type RedisCache struct {
	client *redis.Client
	logger *logrus.Logger
}

// NewRedisCacheFromClient wraps an existing Redis client.
func NewRedisCacheFromClient(client *redis.Client, logger *logrus.Logger) *RedisCache {
	if logger == nil {
		logger = logrus.New()
	}
	return &RedisCache{client: client, logger: logger}
}

func poolKey(address string) string {
	return constants.RedisKeyPoolPrefix + address
}

// SetPools replaces the cached pool list atomically and refreshes the
// per-pool records alongside it.
func (r *RedisCache) SetPools(ctx context.Context, pools []*pool.OnchainPoolData) error {
	listData, err := json.Marshal(pools)
	if err != nil {
		return fmt.Errorf("marshal pool list: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, constants.RedisKeyPoolList, listData, 0)
	for _, p := range pools {
		b, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal pool %s: %w", p.Address, err)
		}
		pipe.Set(ctx, poolKey(p.Address), b, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set pools: %w", err)
	}

	r.logger.WithField("count", len(pools)).Debug("pool cache refreshed")
	return nil
}

// GetPools retrieves up to limit cached pools. limit <= 0 means all.
func (r *RedisCache) GetPools(ctx context.Context, limit int) ([]*pool.OnchainPoolData, error) {
	val, err := r.client.Get(ctx, constants.RedisKeyPoolList).Result()
	if err == redis.Nil {
		return []*pool.OnchainPoolData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pool list: %w", err)
	}

	var pools []*pool.OnchainPoolData
	if err := json.Unmarshal([]byte(val), &pools); err != nil {
		return nil, fmt.Errorf("unmarshal pool list: %w", err)
	}

	if limit > 0 && len(pools) > limit {
		pools = pools[:limit]
	}
	return pools, nil
}

// GetPool retrieves a single cached pool by address; redis.Nil maps to a
// not-found error the handlers can branch on.
func (r *RedisCache) GetPool(ctx context.Context, address string) (*pool.OnchainPoolData, error) {
	val, err := r.client.Get(ctx, poolKey(address)).Result()
	if err == redis.Nil {
		return nil, ErrPoolNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pool: %w", err)
	}

	var p pool.OnchainPoolData
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, fmt.Errorf("unmarshal pool: %w", err)
	}
	return &p, nil
}

// UpdatePrice stores the USD price for a mint.
func (r *RedisCache) UpdatePrice(ctx context.Context, mint string, price float64) error {
	key := constants.RedisKeyPricePrefix + mint
	if err := r.client.Set(ctx, key, price, 0).Err(); err != nil {
		return fmt.Errorf("update price: %w", err)
	}
	return nil
}

// GetPrice retrieves the cached USD price for a mint; unknown mints are 0.
func (r *RedisCache) GetPrice(ctx context.Context, mint string) (float64, error) {
	key := constants.RedisKeyPricePrefix + mint
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get price: %w", err)
	}

	price, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("parse cached price %q: %w", val, err)
	}
	return price, nil
}

// PublishPoolUpdate notifies subscribers that a pool was refreshed.
func (r *RedisCache) PublishPoolUpdate(ctx context.Context, p *pool.OnchainPoolData) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal pool update: %w", err)
	}
	if err := r.client.Publish(ctx, constants.PubSubChannelPools, data).Err(); err != nil {
		return fmt.Errorf("publish pool update: %w", err)
	}
	return nil
}

// SubscribePoolUpdates subscribes to pool refresh events. The returned
// channel closes when ctx is cancelled.
func (r *RedisCache) SubscribePoolUpdates(ctx context.Context) (<-chan *pool.OnchainPoolData, error) {
	sub := r.client.Subscribe(ctx, constants.PubSubChannelPools)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe pool updates: %w", err)
	}

	out := make(chan *pool.OnchainPoolData)
	go func() {
		defer close(out)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var p pool.OnchainPoolData
				if err := json.Unmarshal([]byte(msg.Payload), &p); err != nil {
					r.logger.WithError(err).Warn("dropping malformed pool update")
					continue
				}
				select {
				case out <- &p:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Ping checks connectivity.
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
