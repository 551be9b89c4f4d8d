package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/sirupsen/logrus"

	"github.com/poolworks/solana-pool-indexer/internal/pool"
)

// ErrPoolNotFound is returned when a pool address is absent from the cache.
var ErrPoolNotFound = errors.New("pool not found")

// ClickHouseStore persists pool snapshots for historical analysis. Every
// indexer cycle appends one row per pool, so TVL/volume time series can be
// built later even though the live metrics are heuristic.
type ClickHouseStore struct {
	conn   driver.Conn
	logger *logrus.Logger
}

// ClickHouseConfig holds connection settings for the snapshot store.
type ClickHouseConfig struct {
	Addr     string
	Database string
	Username string
	Password string
	Logger   *logrus.Logger
}

// NewClickHouseStore connects and pings the snapshot store.
func NewClickHouseStore(ctx context.Context, cfg ClickHouseConfig) (*ClickHouseStore, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	cfg.Logger.WithField("addr", cfg.Addr).Info("connected to ClickHouse")

	return &ClickHouseStore{conn: conn, logger: cfg.Logger}, nil
}

// InsertSnapshot records one pool's assembled state.
func (c *ClickHouseStore) InsertSnapshot(ctx context.Context, p *pool.OnchainPoolData) error {
	query := `
		INSERT INTO pool_snapshots (
			address, program_id, mint_a, mint_b, symbol_a, symbol_b,
			reserve_a, reserve_b, fee_rate, tvl, volume_24h, fees_24h,
			apr_24h, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := c.conn.Exec(ctx, query,
		p.Address,
		p.ProgramID,
		p.MintA.Address,
		p.MintB.Address,
		p.MintA.Symbol,
		p.MintB.Symbol,
		p.ReserveA,
		p.ReserveB,
		p.FeeRate,
		p.TVL,
		p.Volume24h,
		p.Fees24h,
		p.APR24h,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert pool snapshot: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (c *ClickHouseStore) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// Close closes the connection.
func (c *ClickHouseStore) Close() error {
	return c.conn.Close()
}
