package flags

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use different DB for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	require.NoError(t, client.FlushDB(ctx).Err())
	return client
}

func cleanupTestRedis(_ *testing.T, client *redis.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_ = client.FlushDB(ctx).Err()
	_ = client.Close()
}

func TestStore_Upsert(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(t, client)

	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	flag, err := store.Upsert(ctx, "indexer.paused", true)
	assert.NoError(t, err)
	assert.NotNil(t, flag)
	assert.Equal(t, "indexer.paused", flag.Key)
	assert.True(t, flag.Value)
	assert.NotZero(t, flag.UpdatedAt)

	got, err := store.Get(ctx, "indexer.paused")
	assert.NoError(t, err)
	assert.Equal(t, flag.Key, got.Key)
	assert.Equal(t, flag.Value, got.Value)
	assert.Equal(t, flag.UpdatedAt, got.UpdatedAt)

	// Upserting the same key flips the value and bumps the timestamp.
	time.Sleep(time.Millisecond)
	flag2, err := store.Upsert(ctx, "indexer.paused", false)
	assert.NoError(t, err)
	assert.True(t, flag2.UpdatedAt.After(flag.UpdatedAt))

	got, err = store.Get(ctx, "indexer.paused")
	assert.NoError(t, err)
	assert.False(t, got.Value)
	assert.Equal(t, flag2.UpdatedAt, got.UpdatedAt)
}

func TestStore_Get(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(t, client)

	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	flag, err := store.Get(ctx, "quote.static_fallback")
	assert.Error(t, err)
	assert.Equal(t, ErrNotFound, err)
	assert.Nil(t, flag)

	_, err = store.Upsert(ctx, "quote.static_fallback", true)
	require.NoError(t, err)

	flag, err = store.Get(ctx, "quote.static_fallback")
	assert.NoError(t, err)
	assert.NotNil(t, flag)
	assert.Equal(t, "quote.static_fallback", flag.Key)
	assert.True(t, flag.Value)
	assert.NotZero(t, flag.UpdatedAt)
}

func TestStore_Delete(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(t, client)

	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	_, err = store.Upsert(ctx, "ai.enabled", true)
	require.NoError(t, err)

	_, err = store.Get(ctx, "ai.enabled")
	assert.NoError(t, err)

	err = store.Delete(ctx, "ai.enabled")
	assert.NoError(t, err)

	_, err = store.Get(ctx, "ai.enabled")
	assert.Error(t, err)
	assert.Equal(t, ErrNotFound, err)

	// Deleting a missing key is a no-op.
	err = store.Delete(ctx, "ai.enabled")
	assert.NoError(t, err)
}

func TestStore_List(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(t, client)

	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	flags, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, flags)

	want := map[string]bool{
		"indexer.paused":        false,
		"indexer.prices.live":   true,
		"quote.static_fallback": true,
	}

	for key, value := range want {
		_, err := store.Upsert(ctx, key, value)
		require.NoError(t, err)
	}

	flags, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, flags, len(want))

	got := make(map[string]bool)
	for _, flag := range flags {
		got[flag.Key] = flag.Value
	}
	assert.Equal(t, want, got)
}

func TestStore_Enabled(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(t, client)

	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	// Missing key falls back.
	assert.True(t, store.Enabled(ctx, "indexer.prices.live", true))
	assert.False(t, store.Enabled(ctx, "indexer.prices.live", false))

	_, err = store.Upsert(ctx, "indexer.prices.live", false)
	require.NoError(t, err)
	assert.False(t, store.Enabled(ctx, "indexer.prices.live", true))
}

func TestStore_ConcurrentOperations(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(t, client)

	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	const numGoroutines = 10
	const numOps = 100

	done := make(chan bool, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer func() { done <- true }()
			for j := 0; j < numOps; j++ {
				key := fmt.Sprintf("worker.%d.op.%d", id, j)
				value := (id+j)%2 == 0

				_, err := store.Upsert(ctx, key, value)
				assert.NoError(t, err)

				got, err := store.Get(ctx, key)
				assert.NoError(t, err)
				assert.Equal(t, value, got.Value)
			}
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		<-done
	}

	flags, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, flags, numGoroutines*numOps)
}

func TestStore_InvalidKeys(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(t, client)

	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	for _, key := range []string{"", "indexer paused", "indexer:paused"} {
		_, err = store.Upsert(ctx, key, true)
		assert.Error(t, err, "key %q", key)
		assert.Contains(t, err.Error(), "invalid flag key")
	}
}

func TestStore_KeyValidation(t *testing.T) {
	client := setupTestRedis(t)
	defer cleanupTestRedis(t, client)

	store, err := NewStore(client)
	require.NoError(t, err)

	ctx := context.Background()

	validKeys := []string{
		"indexer.paused",
		"indexer.prices.live",
		"quote.static_fallback",
		"ai-agent.enabled",
		"v2",
	}

	for _, key := range validKeys {
		_, err := store.Upsert(ctx, key, true)
		assert.NoError(t, err, "key %q should be valid", key)
	}

	invalidKeys := []string{
		"",
		" ",
		"indexer paused",
		"indexer:paused",
		"indexer\tpaused",
		"indexer\npaused",
	}

	for _, key := range invalidKeys {
		_, err := store.Upsert(ctx, key, true)
		assert.Error(t, err, "key %q should be invalid", key)
	}
}
