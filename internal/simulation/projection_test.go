package simulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lpHedgeSim/internal/domain"
)

func TestProjectLength(t *testing.T) {
	pos := basePosition()
	points := Project(pos)
	require.Len(t, points, pos.DurationDays+1)
	assert.Equal(t, 0, points[0].Day)
	assert.Equal(t, pos.DurationDays, points[len(points)-1].Day)
}

func TestProjectEmptyWhenPreconditionsFail(t *testing.T) {
	pos := basePosition()
	pos.DurationDays = 0
	assert.Empty(t, Project(pos))

	pos = basePosition()
	pos.AmountA = 0
	assert.Empty(t, Project(pos))

	pos = basePosition()
	pos.AmountB = 0
	assert.Empty(t, Project(pos))
}

func TestProjectDayZero(t *testing.T) {
	pos := basePosition()
	pos.LatestPriceA = 2700
	points := Project(pos)
	require.NotEmpty(t, points)

	// Day 0 is the entry state: initial prices, no fees accrued yet.
	assert.InDelta(t, 3000.0, points[0].HoldValue, 1e-9)
	assert.InDelta(t, 0.0, points[0].EarnedFees, 1e-9)
}

func TestProjectEndpointMatchesEvaluate(t *testing.T) {
	pos := basePosition()
	pos.LatestPriceA = 2700
	pos.HedgeEnabled = true
	pos.ShortToken = domain.ShortTokenA
	pos.ShortAmount = 1500
	pos.FundingRate = 0.01

	snap := Evaluate(pos)
	points := Project(pos)
	require.NotEmpty(t, points)
	last := points[len(points)-1]

	assert.InDelta(t, snap.HoldValue, last.HoldValue, 1e-9)
	assert.InDelta(t, snap.EarnedFees, last.EarnedFees, 1e-9)
	assert.InDelta(t, snap.FinalTotalValue, last.TotalValue, 1e-9)
}

func TestProjectRestartable(t *testing.T) {
	pos := basePosition()
	pos.LatestPriceA = 3300
	first := Project(pos)
	second := Project(pos)
	assert.Equal(t, first, second)
}

func TestProjectFeesGrowLinearly(t *testing.T) {
	points := Project(basePosition())
	require.Greater(t, len(points), 2)
	step := points[1].EarnedFees - points[0].EarnedFees
	for i := 1; i < len(points); i++ {
		assert.InDelta(t, step, points[i].EarnedFees-points[i-1].EarnedFees, 1e-9, "day %d", i)
	}
}

func TestProjectZeroInitialPriceBPinsLegToOne(t *testing.T) {
	pos := basePosition()
	pos.InitialPriceB = 0
	points := Project(pos)
	require.NotEmpty(t, points)
	// With priceB pinned at 1, hold value at day 0 is amountA·3000 + amountB·1.
	assert.InDelta(t, 0.5*3000+1500*1, points[0].HoldValue, 1e-9)
	for _, p := range points {
		require.False(t, math.IsNaN(p.TotalValue) || math.IsInf(p.TotalValue, 0))
	}
}
