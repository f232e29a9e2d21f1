// Package simulation contains the pure valuation and projection math for
// concentrated-liquidity positions. Every function is a total function of its
// inputs: degenerate values (zero prices, inverted ranges, zero horizons)
// resolve to documented fallbacks instead of NaN, Inf or errors, so callers
// never branch on exceptional states.
package simulation

import "math"

// safeDiv returns num/den, or fallback when the denominator is not positive.
func safeDiv(num, den, fallback float64) float64 {
	if den <= 0 {
		return fallback
	}
	return num / den
}

// finiteOrZero clamps NaN and infinities to 0.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ilFactor returns the constant-product impermanent-loss factor for a price
// ratio movement k = latestRatio/initialRatio:
//
//	2·sqrt(k)/(1+k) − 1
//
// The factor is 0 at k=1 and negative everywhere else, and is symmetric in
// the direction of movement (k and 1/k give the same loss). A non-positive k
// is undefined ratio territory and returns 0 (no loss modeled).
func ilFactor(k float64) float64 {
	if k <= 0 {
		return 0
	}
	return 2*math.Sqrt(k)/(1+k) - 1
}
