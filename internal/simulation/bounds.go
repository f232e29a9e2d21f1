package simulation

import "lpHedgeSim/internal/domain"

// PctFromBounds converts the absolute price bounds of a position into
// percentage deviations from the initial price ratio. A zero or negative
// reference ratio reports 0 for both sides rather than propagating NaN.
func PctFromBounds(pos domain.Position) (pctLower, pctUpper float64) {
	ratio := safeDiv(pos.InitialPriceA, pos.InitialPriceB, 0)
	if ratio <= 0 {
		return 0, 0
	}
	pctLower = finiteOrZero((ratio - pos.LowerBound) / ratio * 100)
	pctUpper = finiteOrZero((pos.UpperBound - ratio) / ratio * 100)
	return pctLower, pctUpper
}

// BoundsFromPct converts percentage deviations from the initial price ratio
// into absolute price bounds. With a zero reference ratio both bounds
// collapse to 0; the caller always ends up with a consistent pair.
func BoundsFromPct(pos domain.Position, pctLower, pctUpper float64) (lower, upper float64) {
	ratio := safeDiv(pos.InitialPriceA, pos.InitialPriceB, 0)
	lower = ratio * (1 - pctLower/100)
	upper = ratio * (1 + pctUpper/100)
	return lower, upper
}
