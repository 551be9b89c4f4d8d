package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTVL(t *testing.T) {
	// 100 SOL at $150 plus 15,000 USDC at $1.
	tvl := CalculateTVL(100_000_000_000, 15_000_000_000, 9, 6, 150, 1)
	assert.InDelta(t, 30000, tvl, 1e-6)
}

func TestCalculateTVL_UnknownPriceContributesNothing(t *testing.T) {
	tvl := CalculateTVL(100_000_000_000, 15_000_000_000, 9, 6, 0, 1)
	assert.InDelta(t, 15000, tvl, 1e-6)

	assert.Zero(t, CalculateTVL(1000, 1000, 6, 6, 0, 0))
}

func TestEstimateMetrics(t *testing.T) {
	m := EstimateMetrics(10000, 0.003)

	assert.InDelta(t, 1000, m.Volume24h, 1e-9)
	assert.InDelta(t, 3, m.Fees24h, 1e-9)
	// 3 * 365 / 10000 * 100
	assert.InDelta(t, 10.95, m.APR24h, 1e-9)
}

func TestEstimateMetrics_ZeroTVL(t *testing.T) {
	m := EstimateMetrics(0, 0.003)

	assert.Zero(t, m.Volume24h)
	assert.Zero(t, m.Fees24h)
	assert.Zero(t, m.APR24h)
}
