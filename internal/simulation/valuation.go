package simulation

import "lpHedgeSim/internal/domain"

// RangeView describes where the latest price ratio sits relative to the
// configured liquidity range, for range visualization.
type RangeView struct {
	Min     float64 // Lower price bound
	Max     float64 // Upper price bound
	Current float64 // Latest priceA/priceB ratio (0 when undefined)
	InRange bool    // Whether Current lies within [Min, Max]
}

// Snapshot holds every derived metric for a position evaluated "as of" its
// latest prices.
type Snapshot struct {
	InitialInvestment  float64 // Quote value of the deposit at entry prices
	HoldValue          float64 // Value of simply holding the deposited amounts
	FinalLPValue       float64 // Hold value adjusted by the impermanent-loss factor
	ImpermanentLoss    float64 // FinalLPValue − HoldValue (≤ 0)
	ImpermanentLossPct float64
	EarnedFees         float64 // Linear fee accrual over the full horizon
	LPNetReturn        float64 // LP value + fees − initial investment
	LPNetReturnPct     float64
	ShortPnL           float64 // Linear short payoff; 0 when the hedge is disabled
	FundingPnL         float64 // Funding carry on the short; 0 when the hedge is disabled
	TotalNetReturn     float64
	TotalNetReturnPct  float64
	FinalTotalValue    float64
	Range              RangeView
}

// Evaluate computes the full metric snapshot for a position at its latest
// prices. It is deterministic and side-effect-free; every division guards a
// zero denominator, so the snapshot always contains finite numbers.
func Evaluate(pos domain.Position) Snapshot {
	initialInvestment := pos.AmountA*pos.InitialPriceA + pos.AmountB*pos.InitialPriceB
	holdValue := pos.AmountA*pos.LatestPriceA + pos.AmountB*pos.LatestPriceB

	initialRatio := safeDiv(pos.InitialPriceA, pos.InitialPriceB, 0)
	latestRatio := safeDiv(pos.LatestPriceA, pos.LatestPriceB, 0)

	finalLPValue := lpValueAt(latestRatio, initialRatio, holdValue, pos.LowerBound, pos.UpperBound)
	impermanentLoss := finalLPValue - holdValue

	earnedFees := accrueFees(initialInvestment, pos.APR, float64(pos.DurationDays))
	lpNetReturn := finalLPValue + earnedFees - initialInvestment

	var shortPnL, fundingPnL float64
	if pos.HedgeEnabled {
		shortPnL = shortPayoff(pos, pos.LatestPriceA, pos.LatestPriceB)
		fundingPnL = fundingCarry(pos, float64(pos.DurationDays))
	}

	totalNetReturn := lpNetReturn + shortPnL + fundingPnL

	return Snapshot{
		InitialInvestment:  initialInvestment,
		HoldValue:          holdValue,
		FinalLPValue:       finalLPValue,
		ImpermanentLoss:    impermanentLoss,
		ImpermanentLossPct: safeDiv(impermanentLoss, holdValue, 0) * 100,
		EarnedFees:         earnedFees,
		LPNetReturn:        lpNetReturn,
		LPNetReturnPct:     safeDiv(lpNetReturn, initialInvestment, 0) * 100,
		ShortPnL:           shortPnL,
		FundingPnL:         fundingPnL,
		TotalNetReturn:     totalNetReturn,
		TotalNetReturnPct:  safeDiv(totalNetReturn, initialInvestment, 0) * 100,
		FinalTotalValue:    initialInvestment + totalNetReturn,
		Range: RangeView{
			Min:     pos.LowerBound,
			Max:     pos.UpperBound,
			Current: latestRatio,
			InRange: latestRatio >= pos.LowerBound && latestRatio <= pos.UpperBound,
		},
	}
}

// lpValueAt applies the ratio-based impermanent-loss approximation to the
// hold value. The range only gates whether any loss is modeled at all; the
// value is not clamped once the ratio leaves the configured range. When
// either ratio is undefined or the range is inverted, no loss is modeled.
func lpValueAt(ratio, initialRatio, holdValue, lower, upper float64) float64 {
	if ratio <= 0 || initialRatio <= 0 || upper <= lower {
		return holdValue
	}
	return holdValue * (1 + ilFactor(ratio/initialRatio))
}

// accrueFees accrues fee yield linearly over elapsed days, no compounding.
func accrueFees(initialInvestment, apr, days float64) float64 {
	return initialInvestment * (apr / 100) * (days / 365)
}

// shortPayoff is the linear short payoff on the hedged leg versus its entry
// price. A degenerate entry price makes the price ratio 1, i.e. zero P&L.
func shortPayoff(pos domain.Position, priceA, priceB float64) float64 {
	if pos.ShortToken == domain.ShortTokenB {
		return pos.ShortAmount * (1 - safeDiv(priceB, pos.InitialPriceB, 1))
	}
	return pos.ShortAmount * (1 - safeDiv(priceA, pos.InitialPriceA, 1))
}

// fundingCarry is the funding cost on the short notional over elapsed days.
// Positive funding rates are a cost to the short holder.
func fundingCarry(pos domain.Position, days float64) float64 {
	return -pos.ShortAmount * (pos.FundingRate / 100) * days
}
