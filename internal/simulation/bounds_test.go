package simulation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lpHedgeSim/internal/domain"
)

func TestBoundRoundTrip(t *testing.T) {
	tests := []struct {
		name          string
		initialPriceA float64
		initialPriceB float64
		lower, upper  float64
	}{
		{"ETH/USDC ±20%", 3000, 1, 2400, 3600},
		{"asymmetric range", 3000, 1, 2100, 3300},
		{"fractional ratio", 0.5, 2, 0.2, 0.3},
		{"tight range", 1500, 1, 1499, 1501},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := domain.Position{
				InitialPriceA: tt.initialPriceA,
				InitialPriceB: tt.initialPriceB,
				LowerBound:    tt.lower,
				UpperBound:    tt.upper,
			}
			pctLower, pctUpper := PctFromBounds(pos)
			lower, upper := BoundsFromPct(pos, pctLower, pctUpper)
			assert.InDelta(t, tt.lower, lower, 1e-9)
			assert.InDelta(t, tt.upper, upper, 1e-9)
		})
	}
}

func TestPctFromBoundsZeroRatio(t *testing.T) {
	pos := domain.Position{InitialPriceA: 3000, InitialPriceB: 0, LowerBound: 2400, UpperBound: 3600}
	pctLower, pctUpper := PctFromBounds(pos)
	assert.Equal(t, 0.0, pctLower)
	assert.Equal(t, 0.0, pctUpper)
}

func TestBoundsFromPctZeroRatio(t *testing.T) {
	pos := domain.Position{InitialPriceA: 0, InitialPriceB: 0}
	lower, upper := BoundsFromPct(pos, 20, 20)
	assert.Equal(t, 0.0, lower)
	assert.Equal(t, 0.0, upper)
}

func TestBoundsFromPctKnownValues(t *testing.T) {
	pos := domain.Position{InitialPriceA: 3000, InitialPriceB: 1}
	lower, upper := BoundsFromPct(pos, 20, 20)
	assert.InDelta(t, 2400, lower, 1e-9)
	assert.InDelta(t, 3600, upper, 1e-9)
}
