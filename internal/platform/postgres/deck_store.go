package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rowanfell/mnemo-api/internal/domain"
	"github.com/rowanfell/mnemo-api/internal/store"
)

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the
// DeckStore interface. If logger is nil, a default logger is used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore
var _ store.DeckStore = (*PostgresDeckStore)(nil)

// WithTx implements store.DeckStore.WithTx
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{db: tx, logger: s.logger}
}

// Create implements store.DeckStore.Create
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	if err := deck.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decks (id, topic_id, name, bidirectional, front_label, back_label, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		deck.ID,
		deck.TopicID,
		deck.Name,
		deck.Bidirectional,
		deck.FrontLabel,
		deck.BackLabel,
		deck.CreatedAt,
		deck.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// GetForUser implements store.DeckStore.GetForUser
func (s *PostgresDeckStore) GetForUser(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (*domain.Deck, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT d.id, d.topic_id, d.name, d.bidirectional, d.front_label, d.back_label,
			d.created_at, d.updated_at
		FROM decks d
		JOIN topics t ON t.id = d.topic_id
		WHERE d.id = $1 AND t.user_id = $2`,
		deckID, userID,
	)

	var deck domain.Deck
	err := row.Scan(
		&deck.ID,
		&deck.TopicID,
		&deck.Name,
		&deck.Bidirectional,
		&deck.FrontLabel,
		&deck.BackLabel,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrDeckNotFound
		}
		return nil, MapError(err)
	}

	return &deck, nil
}

// SetBidirectional implements store.DeckStore.SetBidirectional
func (s *PostgresDeckStore) SetBidirectional(
	ctx context.Context,
	deckID uuid.UUID,
	bidirectional bool,
) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE decks SET bidirectional = $1, updated_at = $2 WHERE id = $3`,
		bidirectional, time.Now().UTC(), deckID,
	)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrDeckNotFound)
}

// Delete implements store.DeckStore.Delete
func (s *PostgresDeckStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM decks WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrDeckNotFound)
}
