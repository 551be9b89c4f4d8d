package storage

import (
	"context"
	"io"

	"github.com/poolworks/solana-pool-indexer/internal/pool"
)

// PoolCache defines the interface for caching assembled pool data.
type PoolCache interface {
	// SetPools replaces the cached pool list with a fresh snapshot.
	SetPools(ctx context.Context, pools []*pool.OnchainPoolData) error

	// GetPools retrieves up to limit cached pools.
	GetPools(ctx context.Context, limit int) ([]*pool.OnchainPoolData, error)

	// GetPool retrieves a single cached pool by address.
	GetPool(ctx context.Context, address string) (*pool.OnchainPoolData, error)

	// UpdatePrice updates the cached USD price for a mint.
	UpdatePrice(ctx context.Context, mint string, price float64) error

	// GetPrice retrieves the cached USD price for a mint.
	GetPrice(ctx context.Context, mint string) (float64, error)

	// PublishPoolUpdate notifies subscribers that a pool was refreshed.
	PublishPoolUpdate(ctx context.Context, p *pool.OnchainPoolData) error

	// SubscribePoolUpdates subscribes to real-time pool refresh events.
	SubscribePoolUpdates(ctx context.Context) (<-chan *pool.OnchainPoolData, error)

	// Ping checks if the cache is reachable.
	Ping(ctx context.Context) error

	// Close closes the cache connection.
	io.Closer
}

// SnapshotStore defines the interface for persistent pool snapshot history.
type SnapshotStore interface {
	// InsertSnapshot records one pool's state at fetch time.
	InsertSnapshot(ctx context.Context, p *pool.OnchainPoolData) error

	// Ping checks if the store is reachable.
	Ping(ctx context.Context) error

	// Close closes the store connection.
	io.Closer
}

// PoolHandler is a function that processes freshly assembled pools.
type PoolHandler func(*pool.OnchainPoolData)
