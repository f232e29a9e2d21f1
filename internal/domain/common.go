package domain

// ShortToken identifies which leg of the pair a hedge shorts.
type ShortToken string

const (
	ShortTokenA ShortToken = "A"
	ShortTokenB ShortToken = "B"
)

// PriceQuote is a suggested pair of token prices in quote currency,
// as returned by a price oracle or the local fallback generator.
type PriceQuote struct {
	PriceA float64
	PriceB float64
}
