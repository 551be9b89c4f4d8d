package amm

import (
	"math/big"
	"strings"
)

// depositDecimalPlaces fixes the precision of formatted deposit amounts.
const depositDecimalPlaces = 6

// maxAmountLength bounds user-supplied amount strings. big.Rat.SetString
// also accepts exponent ("1e1000000") and fraction ("1/3") forms, which
// would let a short request allocate huge integers, so only plain decimal
// digits with an optional point are admitted.
const maxAmountLength = 64

// OptimalAmountA computes the A-side amount that pairs with a known B-side
// deposit while preserving the pool's reserve ratio:
//
//	unitsA = unitsB * reserveA / reserveB
//
// amountB is a human-readable decimal string; the result is formatted to
// six decimal places. Returns "" when the amount is absent or non-positive,
// or when reserveB is zero (empty pool, no ratio established yet).
func OptimalAmountA(amountB string, reserveA, reserveB uint64, decimalsA, decimalsB uint8) string {
	return optimalPairedAmount(amountB, decimalsB, reserveA, reserveB, decimalsA)
}

// OptimalAmountB is the mirror of OptimalAmountA: the A-side amount is
// known and the B-side amount is derived. Returns "" when reserveA is zero.
func OptimalAmountB(amountA string, reserveA, reserveB uint64, decimalsA, decimalsB uint8) string {
	return optimalPairedAmount(amountA, decimalsA, reserveB, reserveA, decimalsB)
}

// optimalPairedAmount scales a known-side amount by reserveWant/reserveKnown
// using integer arithmetic so the multiply cannot drift.
func optimalPairedAmount(amountKnown string, decimalsKnown uint8, reserveWant, reserveKnown uint64, decimalsWant uint8) string {
	if reserveKnown == 0 {
		return ""
	}

	unitsKnown, ok := parseBaseUnits(amountKnown, decimalsKnown)
	if !ok || unitsKnown.Sign() <= 0 {
		return ""
	}

	// unitsWant = unitsKnown * reserveWant / reserveKnown
	unitsWant := new(big.Int).Mul(unitsKnown, new(big.Int).SetUint64(reserveWant))
	unitsWant.Quo(unitsWant, new(big.Int).SetUint64(reserveKnown))

	return formatBaseUnits(unitsWant, decimalsWant)
}

// parseBaseUnits converts a human decimal string to integer base units,
// flooring any precision beyond the mint's decimals.
func parseBaseUnits(amount string, decimals uint8) (*big.Int, bool) {
	amount = strings.TrimSpace(amount)
	if amount == "" || len(amount) > maxAmountLength || !plainDecimal(amount) {
		return nil, false
	}

	rat, ok := new(big.Rat).SetString(amount)
	if !ok {
		return nil, false
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	rat.Mul(rat, new(big.Rat).SetInt(scale))

	// Floor to whole base units.
	units := new(big.Int).Quo(rat.Num(), rat.Denom())
	return units, true
}

// plainDecimal reports whether s consists of decimal digits with at most
// one decimal point and at least one digit.
func plainDecimal(s string) bool {
	digits, dots := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return digits > 0
}

// formatBaseUnits renders integer base units as a human decimal string with
// a fixed number of decimal places.
func formatBaseUnits(units *big.Int, decimals uint8) string {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	return new(big.Rat).SetFrac(units, scale).FloatString(depositDecimalPlaces)
}
