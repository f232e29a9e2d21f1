package ports

import (
	"context"

	"lpHedgeSim/internal/domain"
)

// PositionRepository defines the interface for storing and retrieving
// simulated positions. It owns the authoritative id → Position mapping.
type PositionRepository interface {
	// Create saves a new position record.
	Create(ctx context.Context, pos *domain.Position) error
	// Update replaces an existing position record in full.
	Update(ctx context.Context, pos *domain.Position) error
	// Remove deletes a position together with any field drafts attached to it.
	Remove(ctx context.Context, id string) error
	// FindByID retrieves a position by its unique ID.
	// Returns nil, nil if not found.
	FindByID(ctx context.Context, id string) (*domain.Position, error)
	// FindAll retrieves all positions, ordered by start date descending.
	FindAll(ctx context.Context) ([]*domain.Position, error)
}

// FieldDraftRepository stores the raw text of the last edit made to each
// position field, keyed by position id. This is purely a presentation
// concern; the valuation engine never reads drafts.
type FieldDraftRepository interface {
	// SaveDraft records the last-edited text for one field of a position.
	SaveDraft(ctx context.Context, positionID, field, text string) error
	// FindDrafts returns all recorded drafts for a position, keyed by field name.
	FindDrafts(ctx context.Context, positionID string) (map[string]string, error)
}
