package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rowanfell/mnemo-api/internal/domain"
)

// CardStore defines the interface for card persistence.
type CardStore interface {
	// Create saves a new card. Schedule creation is the content
	// service's job, coordinated in one transaction with this call.
	Create(ctx context.Context, card *domain.Card) error

	// GetForUser retrieves a card by ID, verifying ownership through the
	// deck/topic chain. Returns ErrCardNotFound if it does not exist or
	// belongs to another user.
	GetForUser(ctx context.Context, userID, cardID uuid.UUID) (*domain.Card, error)

	// Delete removes a card. Associated schedules go with it via the
	// schema's ON DELETE CASCADE. Returns ErrCardNotFound if missing.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a CardStore bound to the given transaction.
	WithTx(tx *sql.Tx) CardStore
}
