package simulation

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"lpHedgeSim/internal/domain"
)

// SuggestFallbackPrices produces a locally randomized price suggestion for
// when the price oracle fails or is not configured: the latest priceA is
// jittered by a uniform ±5% draw and rounded to 2 decimals, priceB by ±1%
// and rounded to 4 decimals. Pass a seeded rng for reproducible results;
// nil uses a time-seeded source.
func SuggestFallbackPrices(pos domain.Position, rng *rand.Rand) domain.PriceQuote {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	priceA := pos.LatestPriceA * (1 + uniform(rng, -0.05, 0.05))
	priceB := pos.LatestPriceB * (1 + uniform(rng, -0.01, 0.01))
	return domain.PriceQuote{
		PriceA: roundTo(priceA, 2),
		PriceB: roundTo(priceB, 4),
	}
}

// uniform draws from U(min, max).
func uniform(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}

// roundTo rounds half away from zero at the given number of decimal places.
func roundTo(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
