package domain

import (
	"time"

	"github.com/google/uuid"
)

// Position describes one simulated concentrated-liquidity position together
// with the market scenario it is evaluated against. A Position is treated as a
// value: every edit replaces the whole record and every evaluation works on a
// copy, so there is no shared mutable state between callers.
type Position struct {
	ID       string // Unique identifier minted at creation time
	Protocol string // Display name of the AMM protocol (e.g., "Uniswap V3")
	TokenA   string // Symbol of the first token (e.g., "ETH")
	TokenB   string // Symbol of the second token (e.g., "USDC")

	InitialPriceA float64 // Quote-currency price of tokenA at deposit
	InitialPriceB float64 // Quote-currency price of tokenB at deposit
	AmountA       float64 // Units of tokenA deposited
	AmountB       float64 // Units of tokenB deposited

	LatestPriceA float64 // Scenario ending price of tokenA
	LatestPriceB float64 // Scenario ending price of tokenB

	APR          float64 // Annualized fee yield in percent
	DurationDays int     // Simulation horizon in days

	LowerBound float64 // Lower bound of the liquidity range on priceA/priceB
	UpperBound float64 // Upper bound of the liquidity range on priceA/priceB

	HedgeEnabled bool       // Whether the derivatives short hedge is active
	ShortToken   ShortToken // Which leg the hedge shorts
	ShortAmount  float64    // Quote-currency notional of the short
	FundingRate  float64    // Funding cost in percent per day (positive = cost to the short)

	StartDate time.Time // Calendar date the position opens
}

// EndDate returns the calendar date the simulation horizon closes.
func (p Position) EndDate() time.Time {
	return p.StartDate.AddDate(0, 0, p.DurationDays)
}

// Default seed values for a freshly created position.
const (
	defaultProtocol   = "Uniswap V3"
	defaultInvestment = 1000.0
	defaultPriceETH   = 3000.0
	defaultPriceUSDC  = 1.0
	defaultAPR        = 25.0
	defaultDuration   = 30
	defaultRangePct   = 0.20
)

// NewDefaultPosition creates a position seeded with an ETH/USDC 50/50 split
// sized to a $1000 initial investment, a ±20% range around the entry ratio
// and a 30-day horizon.
func NewDefaultPosition() Position {
	ratio := defaultPriceETH / defaultPriceUSDC
	return Position{
		ID:            uuid.NewString(),
		Protocol:      defaultProtocol,
		TokenA:        "ETH",
		TokenB:        "USDC",
		InitialPriceA: defaultPriceETH,
		InitialPriceB: defaultPriceUSDC,
		AmountA:       defaultInvestment / 2 / defaultPriceETH,
		AmountB:       defaultInvestment / 2 / defaultPriceUSDC,
		LatestPriceA:  defaultPriceETH,
		LatestPriceB:  defaultPriceUSDC,
		APR:           defaultAPR,
		DurationDays:  defaultDuration,
		LowerBound:    ratio * (1 - defaultRangePct),
		UpperBound:    ratio * (1 + defaultRangePct),
		ShortToken:    ShortTokenA,
		StartDate:     time.Now(),
	}
}
