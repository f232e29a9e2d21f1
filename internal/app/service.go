package app

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"lpHedgeSim/internal/domain"
	"lpHedgeSim/internal/ports"
	"lpHedgeSim/internal/simulation"
)

const defaultOracleTimeout = 10 * time.Second

// SimulatorService orchestrates the position store, field edits and the
// valuation engines, and owns the oracle timeout and fallback policy.
type SimulatorService struct {
	logger    ports.Logger
	positions ports.PositionRepository
	drafts    ports.FieldDraftRepository
	oracle    ports.PriceOracle // may be nil: fallback-only mode
	timeout   time.Duration
	rng       *rand.Rand

	// mu serializes read-modify-write edit cycles so concurrent edits of the
	// same position resolve last-write-wins on whole records. The engines
	// only ever see copies taken under the lock.
	mu sync.Mutex
}

// Config holds the dependencies of the SimulatorService.
type Config struct {
	Logger        ports.Logger
	Positions     ports.PositionRepository
	Drafts        ports.FieldDraftRepository
	Oracle        ports.PriceOracle // optional; nil means fallback prices only
	OracleTimeout time.Duration
	Rand          *rand.Rand // optional; a fixed source makes fallback prices reproducible
}

// NewSimulatorService creates a new application service instance.
func NewSimulatorService(cfg Config) (*SimulatorService, error) {
	if cfg.Logger == nil || cfg.Positions == nil || cfg.Drafts == nil {
		return nil, fmt.Errorf("missing required dependencies for SimulatorService")
	}
	timeout := cfg.OracleTimeout
	if timeout <= 0 {
		timeout = defaultOracleTimeout
	}
	return &SimulatorService{
		logger:    cfg.Logger,
		positions: cfg.Positions,
		drafts:    cfg.Drafts,
		oracle:    cfg.Oracle,
		timeout:   timeout,
		rng:       cfg.Rand,
	}, nil
}

// CreatePosition stores and returns a new position seeded with defaults.
func (s *SimulatorService) CreatePosition(ctx context.Context) (domain.Position, error) {
	pos := domain.NewDefaultPosition()
	if err := s.positions.Create(ctx, &pos); err != nil {
		return domain.Position{}, fmt.Errorf("failed to create position: %w", err)
	}
	s.logger.Info(ctx, "Position created", map[string]interface{}{"positionID": pos.ID, "protocol": pos.Protocol})
	return pos, nil
}

// GetPosition returns a copy of the position with the given id.
func (s *SimulatorService) GetPosition(ctx context.Context, id string) (domain.Position, error) {
	pos, err := s.positions.FindByID(ctx, id)
	if err != nil {
		return domain.Position{}, err
	}
	if pos == nil {
		return domain.Position{}, fmt.Errorf("position %s: %w", id, ports.ErrNotFound)
	}
	return *pos, nil
}

// ListPositions returns copies of all stored positions.
func (s *SimulatorService) ListPositions(ctx context.Context) ([]domain.Position, error) {
	stored, err := s.positions.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	positions := make([]domain.Position, 0, len(stored))
	for _, p := range stored {
		positions = append(positions, *p)
	}
	return positions, nil
}

// RemovePosition deletes a position and its field drafts.
func (s *SimulatorService) RemovePosition(ctx context.Context, id string) error {
	if err := s.positions.Remove(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "Position removed", map[string]interface{}{"positionID": id})
	return nil
}

// FieldDrafts returns the last-edited text of each field for a position.
func (s *SimulatorService) FieldDrafts(ctx context.Context, id string) (map[string]string, error) {
	return s.drafts.FindDrafts(ctx, id)
}

// BoundPercents returns the range bounds expressed as percentage deviations
// from the initial price ratio.
func (s *SimulatorService) BoundPercents(ctx context.Context, id string) (pctLower, pctUpper float64, err error) {
	pos, err := s.GetPosition(ctx, id)
	if err != nil {
		return 0, 0, err
	}
	pctLower, pctUpper = simulation.PctFromBounds(pos)
	return pctLower, pctUpper, nil
}

// UpdateField applies one field edit to a position, replacing the whole
// record. Editing a percentage bound recomputes the absolute bounds from the
// current model, never from stale state; the raw text of the edit is kept as
// a field draft for presentation.
func (s *SimulatorService) UpdateField(ctx context.Context, id, field, text string) (domain.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, err := s.GetPosition(ctx, id)
	if err != nil {
		return domain.Position{}, err
	}

	if err := applyField(&pos, field, text); err != nil {
		return domain.Position{}, err
	}

	if err := s.positions.Update(ctx, &pos); err != nil {
		return domain.Position{}, err
	}
	if err := s.drafts.SaveDraft(ctx, id, field, text); err != nil {
		// Drafts are a presentation nicety; losing one is not fatal.
		s.logger.Warn(ctx, "Failed to save field draft", map[string]interface{}{"positionID": id, "field": field})
	}
	s.logger.Debug(ctx, "Position field updated", map[string]interface{}{"positionID": id, "field": field})
	return pos, nil
}

// applyField parses the edit text and mutates the copied position.
func applyField(pos *domain.Position, field, text string) error {
	switch field {
	case "protocol":
		pos.Protocol = text
	case "tokenA":
		pos.TokenA = text
	case "tokenB":
		pos.TokenB = text
	case "initialPriceA":
		return setFloat(&pos.InitialPriceA, field, text, false)
	case "initialPriceB":
		return setFloat(&pos.InitialPriceB, field, text, false)
	case "amountA":
		return setFloat(&pos.AmountA, field, text, true)
	case "amountB":
		return setFloat(&pos.AmountB, field, text, true)
	case "latestPriceA":
		return setFloat(&pos.LatestPriceA, field, text, false)
	case "latestPriceB":
		return setFloat(&pos.LatestPriceB, field, text, false)
	case "apr":
		return setFloat(&pos.APR, field, text, false)
	case "duration":
		days, err := strconv.Atoi(text)
		if err != nil {
			return fmt.Errorf("invalid integer '%s' for field %s: %w", text, field, ports.ErrInvalidRequest)
		}
		if days < 0 {
			days = 0
		}
		pos.DurationDays = days
	case "lowerBound":
		return setFloat(&pos.LowerBound, field, text, false)
	case "upperBound":
		return setFloat(&pos.UpperBound, field, text, false)
	case "pctLower":
		pct, err := parseFloat(field, text)
		if err != nil {
			return err
		}
		_, pctUpper := simulation.PctFromBounds(*pos)
		pos.LowerBound, pos.UpperBound = simulation.BoundsFromPct(*pos, pct, pctUpper)
	case "pctUpper":
		pct, err := parseFloat(field, text)
		if err != nil {
			return err
		}
		pctLower, _ := simulation.PctFromBounds(*pos)
		pos.LowerBound, pos.UpperBound = simulation.BoundsFromPct(*pos, pctLower, pct)
	case "hedgeEnabled":
		enabled, err := strconv.ParseBool(text)
		if err != nil {
			return fmt.Errorf("invalid boolean '%s' for field %s: %w", text, field, ports.ErrInvalidRequest)
		}
		pos.HedgeEnabled = enabled
	case "shortToken":
		switch domain.ShortToken(text) {
		case domain.ShortTokenA, domain.ShortTokenB:
			pos.ShortToken = domain.ShortToken(text)
		default:
			return fmt.Errorf("invalid short token '%s': %w", text, ports.ErrInvalidRequest)
		}
	case "shortAmount":
		return setFloat(&pos.ShortAmount, field, text, true)
	case "fundingRate":
		return setFloat(&pos.FundingRate, field, text, false)
	default:
		return fmt.Errorf("unknown field '%s': %w", field, ports.ErrInvalidRequest)
	}
	return nil
}

func parseFloat(field, text string) (float64, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number '%s' for field %s: %w", text, field, ports.ErrInvalidRequest)
	}
	return v, nil
}

func setFloat(dst *float64, field, text string, nonNegative bool) error {
	v, err := parseFloat(field, text)
	if err != nil {
		return err
	}
	if nonNegative && v < 0 {
		v = 0
	}
	*dst = v
	return nil
}

// Evaluate runs the valuation engine on a snapshot of the position.
func (s *SimulatorService) Evaluate(ctx context.Context, id string) (simulation.Snapshot, error) {
	pos, err := s.GetPosition(ctx, id)
	if err != nil {
		return simulation.Snapshot{}, err
	}
	return simulation.Evaluate(pos), nil
}

// Project runs the projection engine on a snapshot of the position.
func (s *SimulatorService) Project(ctx context.Context, id string) ([]simulation.Point, error) {
	pos, err := s.GetPosition(ctx, id)
	if err != nil {
		return nil, err
	}
	return simulation.Project(pos), nil
}

// RefreshPrices asks the oracle for a new price pair under the configured
// timeout and stores it as the position's latest prices. On any oracle
// failure or absence the deterministic local fallback is substituted; the
// returned flag reports whether that happened. The position keeps working
// either way.
func (s *SimulatorService) RefreshPrices(ctx context.Context, id string) (domain.Position, bool, error) {
	pos, err := s.GetPosition(ctx, id)
	if err != nil {
		return domain.Position{}, false, err
	}

	quote, usedFallback := s.suggestPrices(ctx, pos)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Re-read under the lock: a concurrent edit may have replaced the record.
	current, err := s.GetPosition(ctx, id)
	if err != nil {
		return domain.Position{}, usedFallback, err
	}
	current.LatestPriceA = quote.PriceA
	current.LatestPriceB = quote.PriceB
	if err := s.positions.Update(ctx, &current); err != nil {
		return domain.Position{}, usedFallback, err
	}

	s.logger.Info(ctx, "Latest prices refreshed", map[string]interface{}{
		"positionID":   id,
		"priceA":       quote.PriceA,
		"priceB":       quote.PriceB,
		"usedFallback": usedFallback,
	})
	return current, usedFallback, nil
}

// suggestPrices consults the oracle, falling back to the local randomized
// generator on any failure.
func (s *SimulatorService) suggestPrices(ctx context.Context, pos domain.Position) (domain.PriceQuote, bool) {
	if s.oracle == nil {
		return simulation.SuggestFallbackPrices(pos, s.rng), true
	}

	oracleCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	quote, err := s.oracle.SuggestPrices(oracleCtx, pos)
	if err != nil {
		s.logger.Warn(ctx, "Oracle failed, using estimated prices", map[string]interface{}{
			"positionID": pos.ID,
			"error":      err.Error(),
		})
		return simulation.SuggestFallbackPrices(pos, s.rng), true
	}
	return *quote, false
}
