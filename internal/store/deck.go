package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rowanfell/mnemo-api/internal/domain"
)

// DeckStore defines the interface for deck persistence.
type DeckStore interface {
	// Create saves a new deck.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetForUser retrieves a deck by ID, verifying ownership through its
	// topic. Returns ErrDeckNotFound if it does not exist or belongs to
	// another user.
	GetForUser(ctx context.Context, userID, deckID uuid.UUID) (*domain.Deck, error)

	// SetBidirectional flips the deck's bidirectional flag. Backfilling
	// reverse schedules on enable is the content service's job.
	// Returns ErrDeckNotFound if the deck does not exist.
	SetBidirectional(ctx context.Context, deckID uuid.UUID, bidirectional bool) error

	// Delete removes a deck and, via cascade, its cards and schedules.
	// Returns ErrDeckNotFound if missing.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a DeckStore bound to the given transaction.
	WithTx(tx *sql.Tx) DeckStore
}
