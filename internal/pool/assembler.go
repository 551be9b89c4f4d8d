package pool

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/poolworks/solana-pool-indexer/internal/constants"
	"github.com/poolworks/solana-pool-indexer/internal/rpc"
)

// PipelineConfig holds the explicit dependencies of the pool pipeline.
type PipelineConfig struct {
	Connection Connection
	Resolver   *MintResolver
	Prices     PriceSource
	ProgramID  string
	// BatchSize bounds concurrent pool assembly; 0 means
	// constants.DefaultBatchSize.
	BatchSize int
	Logger    *logrus.Logger
}

// Pipeline assembles complete pool records from raw swap-program accounts.
// All collaborators are injected; the pipeline holds no mutable state and
// is safe for concurrent use.
type Pipeline struct {
	conn      Connection
	resolver  *MintResolver
	prices    PriceSource
	programID string
	batchSize int
	logger    *logrus.Logger
}

// NewPipeline wires up a pool assembly pipeline.
func NewPipeline(cfg PipelineConfig) *Pipeline {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = constants.DefaultBatchSize
	}
	if cfg.ProgramID == "" {
		cfg.ProgramID = constants.DefaultSwapProgramID
	}
	if cfg.Resolver == nil {
		cfg.Resolver = NewMintResolver(cfg.Connection, nil, cfg.Logger)
	}
	return &Pipeline{
		conn:      cfg.Connection,
		resolver:  cfg.Resolver,
		prices:    cfg.Prices,
		programID: cfg.ProgramID,
		batchSize: cfg.BatchSize,
		logger:    cfg.Logger,
	}
}

// ProcessPoolAccount assembles a single pool record from raw account data.
// Uninitialized accounts and any per-account failure yield nil (logged, not
// propagated): one bad pool must never abort the batch.
func (p *Pipeline) ProcessPoolAccount(ctx context.Context, address string, data []byte) *OnchainPoolData {
	record, err := p.processPoolAccount(ctx, address, data)
	if err != nil {
		p.logger.WithError(err).WithField("address", address).Warn("skipping pool account")
		return nil
	}
	return record
}

func (p *Pipeline) processPoolAccount(ctx context.Context, address string, data []byte) (*OnchainPoolData, error) {
	swap, err := DecodeSwapAccount(data)
	if err != nil {
		return nil, err
	}
	if !swap.Initialized() {
		// Not an error: the program allocates accounts before init.
		return nil, nil
	}

	mintAAddr := swap.MintA.String()
	mintBAddr := swap.MintB.String()
	tokenAccA := swap.TokenAccountA.String()
	tokenAccB := swap.TokenAccountB.String()

	// Resolve both mints and both reserves concurrently. Mint resolution is
	// infallible by contract; reserve failures unwrap to zero.
	var (
		wg                 sync.WaitGroup
		mintA, mintB       MintInfo
		reserveA, reserveB uint64
	)
	wg.Add(4)
	go func() {
		defer wg.Done()
		mintA = p.resolver.Resolve(ctx, mintAAddr)
	}()
	go func() {
		defer wg.Done()
		mintB = p.resolver.Resolve(ctx, mintBAddr)
	}()
	go func() {
		defer wg.Done()
		reserveA = p.reserveOrZero(ctx, tokenAccA)
	}()
	go func() {
		defer wg.Done()
		reserveB = p.reserveOrZero(ctx, tokenAccB)
	}()
	wg.Wait()

	feeRate, clamped := CalculateFeeRate(swap.TradeFeeNumerator, swap.TradeFeeDenominator)
	if clamped {
		p.logger.WithFields(logrus.Fields{
			"address":     address,
			"numerator":   swap.TradeFeeNumerator,
			"denominator": swap.TradeFeeDenominator,
		}).Warn("unrealistic fee rate, using fallback")
	}

	priceA := p.priceOrZero(ctx, mintAAddr)
	priceB := p.priceOrZero(ctx, mintBAddr)

	tvl := CalculateTVL(reserveA, reserveB, mintA.Decimals, mintB.Decimals, priceA, priceB)
	metrics := EstimateMetrics(tvl, feeRate)

	return &OnchainPoolData{
		Address:       address,
		ProgramID:     p.programID,
		SwapData:      swap,
		MintA:         mintA,
		MintB:         mintB,
		TokenAccountA: tokenAccA,
		TokenAccountB: tokenAccB,
		ReserveA:      reserveA,
		ReserveB:      reserveB,
		FeeRate:       feeRate,
		TVL:           tvl,
		Volume24h:     metrics.Volume24h,
		Fees24h:       metrics.Fees24h,
		APR24h:        metrics.APR24h,
	}, nil
}

// reserveOrZero unwraps a reserve fetch failure to an empty reserve so one
// bad token account degrades a single pool instead of the whole listing.
func (p *Pipeline) reserveOrZero(ctx context.Context, tokenAccount string) uint64 {
	amount, err := FetchReserve(ctx, p.conn, tokenAccount)
	if err != nil {
		p.logger.WithError(err).WithField("token_account", tokenAccount).
			Warn("reserve fetch failed, treating as empty")
		return 0
	}
	return amount
}

func (p *Pipeline) priceOrZero(ctx context.Context, mint string) float64 {
	if p.prices == nil {
		return 0
	}
	price, err := p.prices.USDPrice(ctx, mint)
	if err != nil {
		p.logger.WithError(err).WithField("mint", mint).Debug("price lookup failed")
		return 0
	}
	return price
}

// GetAllPools fetches and assembles every pool of the configured program.
//
// Accounts are processed in sequential batches with full concurrency inside
// each batch, bounding in-flight RPC calls to roughly batchSize*4. A listing
// failure propagates; per-account failures are filtered out as nil.
func (p *Pipeline) GetAllPools(ctx context.Context) ([]*OnchainPoolData, error) {
	accounts, err := FetchPoolAccounts(ctx, p.conn, p.programID)
	if err != nil {
		return nil, err
	}

	p.logger.WithFields(logrus.Fields{
		"program":  p.programID,
		"accounts": len(accounts),
		"batch":    p.batchSize,
	}).Info("assembling pools")

	pools := make([]*OnchainPoolData, 0, len(accounts))
	for start := 0; start < len(accounts); start += p.batchSize {
		end := start + p.batchSize
		if end > len(accounts) {
			end = len(accounts)
		}
		batch := accounts[start:end]

		results := make([]*OnchainPoolData, len(batch))
		var wg sync.WaitGroup
		wg.Add(len(batch))
		for i, acc := range batch {
			go func(i int, acc rpc.KeyedAccount) {
				defer wg.Done()
				results[i] = p.ProcessPoolAccount(ctx, acc.Address, acc.Data)
			}(i, acc)
		}
		wg.Wait()

		for _, r := range results {
			if r != nil {
				pools = append(pools, r)
			}
		}
	}

	return pools, nil
}
