// Package amm implements constant-product swap and deposit math over
// assembled pool records. Every function here is pure and total: degenerate
// inputs produce defined zero/empty outputs, never errors or panics.
package amm

import (
	"math"
	"sort"

	"github.com/poolworks/solana-pool-indexer/internal/pool"
)

// Best-pool scoring weights: liquidity depth dominates, then lower fee,
// then trading activity.
const (
	scoreWeightTVL    = 0.5
	scoreWeightFee    = 0.3
	scoreWeightVolume = 0.2
)

// CalculateOutputAmount computes the constant-product output for a swap,
// with the fee applied to the input side:
//
//	out = reserveOut * in*(1-fee) / (reserveIn + in*(1-fee))
//
// Non-positive amounts or reserves mean "no quote available" and yield 0.
func CalculateOutputAmount(inputAmount, inputReserve, outputReserve, feeRate float64) float64 {
	if inputAmount <= 0 || inputReserve <= 0 || outputReserve <= 0 {
		return 0
	}

	inputWithFee := inputAmount * (1 - feeRate)
	out := (outputReserve * inputWithFee) / (inputReserve + inputWithFee)
	return math.Max(0, out)
}

// CalculatePriceImpact returns the percentage deviation of the trade's
// effective price from the pool's spot price. Degenerate inputs yield 0.
func CalculatePriceImpact(inputAmount, inputReserve, outputReserve, feeRate float64) float64 {
	if inputAmount <= 0 || inputReserve <= 0 || outputReserve <= 0 {
		return 0
	}

	currentPrice := outputReserve / inputReserve
	effectivePrice := CalculateOutputAmount(inputAmount, inputReserve, outputReserve, feeRate) / inputAmount
	return math.Abs(currentPrice-effectivePrice) / currentPrice * 100
}

// poolScore ranks a candidate pool for a swap.
func poolScore(p *pool.OnchainPoolData) float64 {
	return p.TVL*scoreWeightTVL + (1-p.FeeRate)*scoreWeightFee + p.Volume24h*scoreWeightVolume
}

// FindBestPool picks the highest-scoring pool trading the given pair in
// either orientation. Pools with zero TVL are ignored. Returns nil when no
// pool matches. Ties resolve to whichever candidate sorts first under a
// stable descending sort.
func FindBestPool(pools []*pool.OnchainPoolData, inputMint, outputMint string) *pool.OnchainPoolData {
	candidates := make([]*pool.OnchainPoolData, 0, len(pools))
	for _, p := range pools {
		if p == nil || p.TVL <= 0 {
			continue
		}
		if p.HasPair(inputMint, outputMint) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return poolScore(candidates[i]) > poolScore(candidates[j])
	})
	return candidates[0]
}
