package amm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolworks/solana-pool-indexer/internal/pool"
)

func TestCalculateOutputAmount(t *testing.T) {
	// in=100 against 1000/1000 with a 0.3% fee:
	// inFee = 99.7, out = 1000*99.7/(1000+99.7)
	out := CalculateOutputAmount(100, 1000, 1000, 0.003)
	assert.InDelta(t, 90.66108938801492, out, 1e-9)

	// Zero fee, symmetric reserves: out = 1000*100/1100.
	out = CalculateOutputAmount(100, 1000, 1000, 0)
	assert.InDelta(t, 90.90909090909091, out, 1e-9)
}

func TestCalculateOutputAmount_Degenerate(t *testing.T) {
	assert.Zero(t, CalculateOutputAmount(0, 1000, 1000, 0.003))
	assert.Zero(t, CalculateOutputAmount(-5, 1000, 1000, 0.003))
	assert.Zero(t, CalculateOutputAmount(100, 0, 1000, 0.003))
	assert.Zero(t, CalculateOutputAmount(100, 1000, 0, 0.003))
}

func TestCalculateOutputAmount_NeverExceedsReserve(t *testing.T) {
	// Even an absurdly large trade cannot drain more than the output side.
	out := CalculateOutputAmount(1e18, 1000, 1000, 0)
	assert.Less(t, out, 1000.0)
}

func TestCalculatePriceImpact(t *testing.T) {
	// Spot price 1.0; effective price out/in.
	impact := CalculatePriceImpact(100, 1000, 1000, 0)
	// effective = 90.909.../100 = 0.90909..., impact = 9.0909...%
	assert.InDelta(t, 9.090909090909093, impact, 1e-9)

	// A tiny trade barely moves the price.
	small := CalculatePriceImpact(0.001, 1000, 1000, 0)
	assert.Less(t, small, 0.001)

	assert.Zero(t, CalculatePriceImpact(0, 1000, 1000, 0.003))
	assert.Zero(t, CalculatePriceImpact(100, 0, 1000, 0.003))
}

func poolFixture(address, mintA, mintB string, tvl, fee, volume float64) *pool.OnchainPoolData {
	return &pool.OnchainPoolData{
		Address:   address,
		MintA:     pool.MintInfo{Address: mintA},
		MintB:     pool.MintInfo{Address: mintB},
		TVL:       tvl,
		FeeRate:   fee,
		Volume24h: volume,
	}
}

func TestFindBestPool(t *testing.T) {
	pools := []*pool.OnchainPoolData{
		poolFixture("deep", "SOL", "USDC", 100000, 0.003, 10000),
		poolFixture("shallow", "SOL", "USDC", 500, 0.0025, 50),
		poolFixture("other-pair", "SOL", "USDT", 999999, 0.003, 99999),
		poolFixture("empty", "SOL", "USDC", 0, 0.003, 0),
	}

	best := FindBestPool(pools, "SOL", "USDC")
	require.NotNil(t, best)
	assert.Equal(t, "deep", best.Address)
}

func TestFindBestPool_EitherOrientation(t *testing.T) {
	pools := []*pool.OnchainPoolData{
		poolFixture("ab", "SOL", "USDC", 1000, 0.003, 100),
	}

	assert.NotNil(t, FindBestPool(pools, "SOL", "USDC"))
	assert.NotNil(t, FindBestPool(pools, "USDC", "SOL"))
}

func TestFindBestPool_NoMatch(t *testing.T) {
	pools := []*pool.OnchainPoolData{
		poolFixture("ab", "SOL", "USDC", 1000, 0.003, 100),
		nil,
	}

	assert.Nil(t, FindBestPool(pools, "SOL", "BONK"))
	assert.Nil(t, FindBestPool(nil, "SOL", "USDC"))
}
