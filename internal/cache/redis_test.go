package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolworks/solana-pool-indexer/internal/pool"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   2, // Use different DB for cache tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	require.NoError(t, client.FlushDB(ctx).Err())

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.FlushDB(ctx).Err()
		_ = client.Close()
	})

	return client
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func testPool(address string) *pool.OnchainPoolData {
	return &pool.OnchainPoolData{
		Address:   address,
		ProgramID: "9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP",
		MintA:     pool.MintInfo{Address: "mintA", Symbol: "SOL", Decimals: 9},
		MintB:     pool.MintInfo{Address: "mintB", Symbol: "USDC", Decimals: 6},
		ReserveA:  1000,
		ReserveB:  2000,
		FeeRate:   0.0025,
		TVL:       30000,
	}
}

func TestRedisCache_SetGetPools(t *testing.T) {
	client := setupTestRedis(t)
	c := NewRedisCacheFromClient(client, quietLogger())
	ctx := context.Background()

	pools := []*pool.OnchainPoolData{testPool("pool1"), testPool("pool2"), testPool("pool3")}
	require.NoError(t, c.SetPools(ctx, pools))

	got, err := c.GetPools(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "pool1", got[0].Address)
	assert.Equal(t, uint64(1000), got[0].ReserveA)

	limited, err := c.GetPools(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestRedisCache_GetPools_Empty(t *testing.T) {
	client := setupTestRedis(t)
	c := NewRedisCacheFromClient(client, quietLogger())

	got, err := c.GetPools(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisCache_GetPool(t *testing.T) {
	client := setupTestRedis(t)
	c := NewRedisCacheFromClient(client, quietLogger())
	ctx := context.Background()

	require.NoError(t, c.SetPools(ctx, []*pool.OnchainPoolData{testPool("pool1")}))

	got, err := c.GetPool(ctx, "pool1")
	require.NoError(t, err)
	assert.Equal(t, "pool1", got.Address)
	assert.Equal(t, "SOL", got.MintA.Symbol)

	_, err = c.GetPool(ctx, "missing")
	assert.ErrorIs(t, err, ErrPoolNotFound)
}

func TestRedisCache_Prices(t *testing.T) {
	client := setupTestRedis(t)
	c := NewRedisCacheFromClient(client, quietLogger())
	ctx := context.Background()

	require.NoError(t, c.UpdatePrice(ctx, "mintA", 150.5))

	price, err := c.GetPrice(ctx, "mintA")
	require.NoError(t, err)
	assert.Equal(t, 150.5, price)

	// Unknown mints read as zero, not an error.
	price, err = c.GetPrice(ctx, "unknown")
	require.NoError(t, err)
	assert.Zero(t, price)
}

func TestRedisCache_PubSub(t *testing.T) {
	client := setupTestRedis(t)
	c := NewRedisCacheFromClient(client, quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	updates, err := c.SubscribePoolUpdates(ctx)
	require.NoError(t, err)

	require.NoError(t, c.PublishPoolUpdate(ctx, testPool("pool1")))

	select {
	case p := <-updates:
		require.NotNil(t, p)
		assert.Equal(t, "pool1", p.Address)
	case <-ctx.Done():
		t.Fatal("timed out waiting for pool update")
	}

	cancel()
	// Channel closes after cancellation.
	for range updates {
	}
}
