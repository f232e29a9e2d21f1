package binanceoracle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"lpHedgeSim/internal/domain"
	"lpHedgeSim/internal/ports"

	"github.com/adshao/go-binance/v2/common"
	"github.com/adshao/go-binance/v2/futures"
	"github.com/cenkalti/backoff/v5"
)

const (
	// Base URLs
	baseURLProduction = "https://fapi.binance.com"
	baseURLTestnet    = "https://testnet.binancefuture.com"

	defaultQuoteSymbol = "USDT"
	defaultMaxTries    = 3
)

// Stablecoins priced at par with the quote currency; no ticker lookup needed.
var stableSymbols = map[string]bool{
	"USDT": true,
	"USDC": true,
	"BUSD": true,
	"DAI":  true,
}

// Client implements the ports.PriceOracle interface using live Binance
// futures tickers: each token symbol is resolved against the configured
// quote currency (e.g. ETH -> ETHUSDT).
type Client struct {
	futuresClient *futures.Client
	logger        ports.Logger
	quoteSymbol   string
	maxTries      uint
}

// Config holds configuration specific to the Binance oracle adapter.
type Config struct {
	APIKey      string
	SecretKey   string
	UseTestnet  bool
	Logger      ports.Logger
	QuoteSymbol string // Quote currency suffix for ticker lookups (default "USDT")
	MaxTries    uint   // Attempts per ticker lookup before giving up (default 3)
}

// New creates a new Binance oracle adapter. API keys are optional: ticker
// endpoints are public, so an unauthenticated client works.
func New(cfg Config) (*Client, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Binance oracle")
	}

	client := futures.NewClient(cfg.APIKey, cfg.SecretKey)
	if cfg.UseTestnet {
		client.BaseURL = baseURLTestnet
	} else {
		client.BaseURL = baseURLProduction
	}
	cfg.Logger.Info(context.Background(), "Binance oracle configured", map[string]interface{}{"baseURL": client.BaseURL})

	quoteSymbol := strings.ToUpper(cfg.QuoteSymbol)
	if quoteSymbol == "" {
		quoteSymbol = defaultQuoteSymbol
	}
	maxTries := cfg.MaxTries
	if maxTries == 0 {
		maxTries = defaultMaxTries
	}

	return &Client{
		futuresClient: client,
		logger:        cfg.Logger,
		quoteSymbol:   quoteSymbol,
		maxTries:      maxTries,
	}, nil
}

// SuggestPrices returns live exchange prices for both legs of the pair.
// Any failure is reported to the caller, who owns the fallback policy.
func (c *Client) SuggestPrices(ctx context.Context, pos domain.Position) (*domain.PriceQuote, error) {
	priceA, err := c.tickerPrice(ctx, pos.TokenA)
	if err != nil {
		return nil, err
	}
	priceB, err := c.tickerPrice(ctx, pos.TokenB)
	if err != nil {
		return nil, err
	}
	c.logger.Debug(ctx, "Oracle price suggestion", map[string]interface{}{
		"tokenA": pos.TokenA, "priceA": priceA,
		"tokenB": pos.TokenB, "priceB": priceB,
	})
	return &domain.PriceQuote{PriceA: priceA, PriceB: priceB}, nil
}

// tickerPrice resolves one token to its latest quote-currency price,
// retrying transient failures with capped exponential backoff.
func (c *Client) tickerPrice(ctx context.Context, token string) (float64, error) {
	upper := strings.ToUpper(token)
	if stableSymbols[upper] || upper == c.quoteSymbol {
		return 1.0, nil
	}
	symbol := upper + c.quoteSymbol

	operation := func() (float64, error) {
		stats, err := c.futuresClient.NewListPriceChangeStatsService().Symbol(symbol).Do(ctx)
		if err != nil {
			return 0, c.classifyError(err, symbol)
		}
		if len(stats) == 0 {
			return 0, backoff.Permanent(fmt.Errorf("no ticker data returned for symbol %s: %w", symbol, ports.ErrSymbolNotFound))
		}
		price, err := strconv.ParseFloat(stats[0].LastPrice, 64)
		if err != nil {
			return 0, backoff.Permanent(fmt.Errorf("could not parse price '%s' for symbol %s: %w", stats[0].LastPrice, symbol, ports.ErrPriceParse))
		}
		return price, nil
	}

	price, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxTries),
	)
	if err != nil {
		c.logger.Error(ctx, err, "Ticker lookup failed", map[string]interface{}{"symbol": symbol})
		return 0, err
	}
	return price, nil
}

// classifyError translates Binance API errors into standardized ports errors
// and marks the non-retryable ones permanent so the backoff loop stops early.
func (c *Client) classifyError(err error, symbol string) error {
	var apiErr *common.APIError
	if errors.As(err, &apiErr) {
		var mappedErr error
		switch apiErr.Code {
		case -1003: // Too many requests; retryable after backoff
			mappedErr = ports.ErrRateLimited
		case -1022, -2014, -2015: // Signature/API-key problems
			return backoff.Permanent(fmt.Errorf("ticker lookup for %s: %w: %w", symbol, ports.ErrAuthenticationFailed, err))
		case -1121: // Invalid symbol
			return backoff.Permanent(fmt.Errorf("ticker lookup for %s: %w: %w", symbol, ports.ErrSymbolNotFound, err))
		case -1100, -1101, -1102, -1103, -1104, -1105, -1106: // Parameter/request format errors
			return backoff.Permanent(fmt.Errorf("ticker lookup for %s: %w: %w", symbol, ports.ErrInvalidRequest, err))
		default:
			mappedErr = ports.ErrOracleUnavailable
		}
		return fmt.Errorf("ticker lookup for %s: %w: %w", symbol, mappedErr, err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return backoff.Permanent(fmt.Errorf("ticker lookup for %s: %w: %w", symbol, ports.ErrTimeout, err))
	}
	if errors.Is(err, context.Canceled) {
		return backoff.Permanent(fmt.Errorf("ticker lookup for %s: %w: %w", symbol, ports.ErrContextCanceled, err))
	}
	return fmt.Errorf("ticker lookup for %s: %w: %w", symbol, ports.ErrConnectionFailed, err)
}
