package stream

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/poolworks/solana-pool-indexer/internal/constants"
	"github.com/poolworks/solana-pool-indexer/internal/flags"
	"github.com/poolworks/solana-pool-indexer/internal/pool"
	"github.com/poolworks/solana-pool-indexer/internal/storage"
)

// PoolPoller periodically re-assembles the full pool list and hands each
// fresh record to a handler. Abort, retry and backoff policy belong to the
// caller; the poller runs one assembly pass per tick.
type PoolPoller struct {
	pipeline *pool.Pipeline
	cache    storage.PoolCache
	store    storage.SnapshotStore
	flags    *flags.Store
	interval time.Duration
	logger   *logrus.Logger

	mu      sync.Mutex
	running bool
}

// PoolPollerConfig holds configuration for the pool poller. Cache, store
// and flags are optional; a nil collaborator is skipped.
type PoolPollerConfig struct {
	Pipeline *pool.Pipeline
	Cache    storage.PoolCache
	Store    storage.SnapshotStore
	Flags    *flags.Store
	Interval time.Duration
	Logger   *logrus.Logger
}

// NewPoolPoller creates a poller from its dependencies.
func NewPoolPoller(cfg PoolPollerConfig) *PoolPoller {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &PoolPoller{
		pipeline: cfg.Pipeline,
		cache:    cfg.Cache,
		store:    cfg.Store,
		flags:    cfg.Flags,
		interval: cfg.Interval,
		logger:   cfg.Logger,
	}
}

// Start polls until ctx is cancelled. The first pass runs immediately.
func (p *PoolPoller) Start(ctx context.Context, handler storage.PoolHandler) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("poller already running")
	}
	p.running = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	p.logger.WithField("interval", p.interval).Info("starting pool polling")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	if err := p.poll(ctx, handler); err != nil {
		p.logger.WithError(err).Error("poll error")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.poll(ctx, handler); err != nil {
				p.logger.WithError(err).Error("poll error")
			}
		}
	}
}

// poll runs one full assembly pass and distributes the results.
func (p *PoolPoller) poll(ctx context.Context, handler storage.PoolHandler) error {
	if p.flags != nil && p.flags.Enabled(ctx, constants.FlagIndexerPaused, false) {
		p.logger.Debug("indexer paused by feature flag")
		return nil
	}

	start := time.Now()
	pools, err := p.pipeline.GetAllPools(ctx)
	if err != nil {
		return fmt.Errorf("failed to assemble pools: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"pools": len(pools),
		"took":  time.Since(start).Round(time.Millisecond),
	}).Info("pool refresh complete")

	if p.cache != nil {
		if err := p.cache.SetPools(ctx, pools); err != nil {
			p.logger.WithError(err).Error("failed to update pool cache")
		}
	}

	storeMetrics := p.flags == nil || p.flags.Enabled(ctx, constants.FlagMetricsEnabled, true)

	for _, record := range pools {
		if p.cache != nil {
			if err := p.cache.PublishPoolUpdate(ctx, record); err != nil {
				p.logger.WithError(err).WithField("address", record.Address).
					Warn("failed to publish pool update")
			}
		}
		if p.store != nil && storeMetrics {
			if err := p.store.InsertSnapshot(ctx, record); err != nil {
				p.logger.WithError(err).WithField("address", record.Address).
					Error("failed to persist pool snapshot")
			}
		}
		if handler != nil {
			handler(record)
		}
	}

	return nil
}
