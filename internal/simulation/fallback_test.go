package simulation

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestFallbackPricesDeterministic(t *testing.T) {
	pos := basePosition()
	first := SuggestFallbackPrices(pos, rand.New(rand.NewSource(42)))
	second := SuggestFallbackPrices(pos, rand.New(rand.NewSource(42)))
	assert.Equal(t, first, second)

	other := SuggestFallbackPrices(pos, rand.New(rand.NewSource(43)))
	assert.NotEqual(t, first, other)
}

func TestSuggestFallbackPricesWithinJitterBands(t *testing.T) {
	pos := basePosition()
	for seed := int64(0); seed < 200; seed++ {
		quote := SuggestFallbackPrices(pos, rand.New(rand.NewSource(seed)))
		// Allow for the rounding applied after the draw.
		assert.InDelta(t, pos.LatestPriceA, quote.PriceA, pos.LatestPriceA*0.05+0.005)
		assert.InDelta(t, pos.LatestPriceB, quote.PriceB, pos.LatestPriceB*0.01+0.00005)
	}
}

func TestSuggestFallbackPricesRounding(t *testing.T) {
	pos := basePosition()
	for seed := int64(0); seed < 50; seed++ {
		quote := SuggestFallbackPrices(pos, rand.New(rand.NewSource(seed)))
		centsA := quote.PriceA * 100
		require.InDelta(t, math.Round(centsA), centsA, 1e-6, "priceA not rounded to 2dp: %v", quote.PriceA)
		unitsB := quote.PriceB * 10000
		require.InDelta(t, math.Round(unitsB), unitsB, 1e-6, "priceB not rounded to 4dp: %v", quote.PriceB)
	}
}

func TestSuggestFallbackPricesNilSource(t *testing.T) {
	quote := SuggestFallbackPrices(basePosition(), nil)
	assert.Positive(t, quote.PriceA)
	assert.Positive(t, quote.PriceB)
}
