package pool

import "math"

// Metric heuristics. Without a historical trade feed the 24h figures are
// placeholder estimates: assume 10% of TVL trades daily.
const dailyTurnoverRatio = 0.1

// CalculateTVL values both reserves in USD. Prices of 0 (unknown) simply
// contribute nothing.
func CalculateTVL(reserveA, reserveB uint64, decimalsA, decimalsB uint8, priceA, priceB float64) float64 {
	uiA := float64(reserveA) / math.Pow10(int(decimalsA))
	uiB := float64(reserveB) / math.Pow10(int(decimalsB))
	return uiA*priceA + uiB*priceB
}

// EstimateMetrics derives 24h volume, fee and APR estimates from TVL and
// the pool's fee rate. A zero-TVL pool has zero APR, not a division error.
func EstimateMetrics(tvl, feeRate float64) PoolMetrics {
	volume := tvl * dailyTurnoverRatio
	fees := volume * feeRate

	apr := 0.0
	if tvl > 0 {
		apr = (fees * 365 / tvl) * 100
	}

	return PoolMetrics{
		Volume24h: volume,
		Fees24h:   fees,
		APR24h:    apr,
	}
}
