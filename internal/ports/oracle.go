package ports

import (
	"context"

	"lpHedgeSim/internal/domain"
)

// PriceOracle suggests a fresh pair of token prices for a position scenario.
// Implementations may be slow or fail outright; the caller owns the timeout
// policy and must substitute a local fallback quote on any error.
type PriceOracle interface {
	// SuggestPrices returns suggested latest prices for both legs of the pair.
	SuggestPrices(ctx context.Context, pos domain.Position) (*domain.PriceQuote, error)
}
