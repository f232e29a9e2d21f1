package simulation

import "lpHedgeSim/internal/domain"

// Point is one day of the projected value series.
type Point struct {
	Day        int
	TotalValue float64 // LP value + fees + hedge P&L as of this day
	HoldValue  float64 // "Do nothing" benchmark as of this day
	EarnedFees float64 // Fees accrued through this day
}

// Project replays the valuation math across a price path moving linearly from
// the initial to the latest prices, emitting one point per day from day 0
// through the full horizon. The linear path is a deliberate simplification of
// how prices drift, not a market model.
//
// A non-positive duration or a missing deposit amount yields an empty series.
// The series is pure and restartable: the same position always produces the
// identical sequence.
func Project(pos domain.Position) []Point {
	if pos.DurationDays <= 0 || pos.AmountA == 0 || pos.AmountB == 0 {
		return nil
	}

	initialInvestment := pos.AmountA*pos.InitialPriceA + pos.AmountB*pos.InitialPriceB
	initialRatio := safeDiv(pos.InitialPriceA, pos.InitialPriceB, 0)

	points := make([]Point, 0, pos.DurationDays+1)
	for day := 0; day <= pos.DurationDays; day++ {
		progress := float64(day) / float64(pos.DurationDays)

		priceA := pos.InitialPriceA + (pos.LatestPriceA-pos.InitialPriceA)*progress
		priceB := 1.0
		if pos.InitialPriceB > 0 {
			priceB = pos.InitialPriceB + (pos.LatestPriceB-pos.InitialPriceB)*progress
		}

		holdValue := pos.AmountA*priceA + pos.AmountB*priceB
		earnedFees := accrueFees(initialInvestment, pos.APR, float64(day))

		ratio := safeDiv(priceA, priceB, 0)
		totalValue := lpValueAt(ratio, initialRatio, holdValue, pos.LowerBound, pos.UpperBound) + earnedFees
		if pos.HedgeEnabled {
			totalValue += shortPayoff(pos, priceA, priceB) + fundingCarry(pos, float64(day))
		}

		points = append(points, Point{
			Day:        day,
			TotalValue: totalValue,
			HoldValue:  holdValue,
			EarnedFees: earnedFees,
		})
	}
	return points
}
