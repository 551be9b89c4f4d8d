package pool

import "context"

// Fee-rate sanity bounds. Realistic DEX trade fees are sub-1%, so anything
// above the 5% ceiling is treated as corrupt account data and replaced by
// the 1% fallback.
const (
	FeeRateCeiling  = 0.05
	FallbackFeeRate = 0.01
)

// FetchReserve reads the amount held by one side of a pool's token pair.
// The error is surfaced so the assembler can decide to unwrap it to a zero
// reserve instead of failing the batch.
func FetchReserve(ctx context.Context, conn Connection, tokenAccount string) (uint64, error) {
	amount, err := conn.GetTokenAccountBalance(ctx, tokenAccount)
	if err != nil {
		return 0, &FetchError{Method: "getTokenAccountBalance", Err: err}
	}
	return amount, nil
}

// CalculateFeeRate derives a trade fee rate from the on-chain numerator and
// denominator. A zero denominator yields 0. Rates above FeeRateCeiling are
// replaced with FallbackFeeRate and reported via clamped so the caller can
// log the substitution.
func CalculateFeeRate(numerator, denominator uint64) (rate float64, clamped bool) {
	if denominator == 0 {
		return 0, false
	}
	rate = float64(numerator) / float64(denominator)
	if rate > FeeRateCeiling {
		return FallbackFeeRate, true
	}
	return rate, false
}
