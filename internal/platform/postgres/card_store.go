package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rowanfell/mnemo-api/internal/domain"
	"github.com/rowanfell/mnemo-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. If logger is nil, a default logger is used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{db: tx, logger: s.logger}
}

// Create implements store.CardStore.Create
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	tags, err := marshalTags(card.Tags)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cards (id, deck_id, front, back, note, priority, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		card.ID,
		card.DeckID,
		card.Front,
		card.Back,
		card.Note,
		card.Priority,
		tags,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// GetForUser implements store.CardStore.GetForUser
func (s *PostgresCardStore) GetForUser(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.Card, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT c.id, c.deck_id, c.front, c.back, c.note, c.priority, c.tags,
			c.created_at, c.updated_at
		FROM cards c
		JOIN decks d ON d.id = c.deck_id
		JOIN topics t ON t.id = d.topic_id
		WHERE c.id = $1 AND t.user_id = $2`,
		cardID, userID,
	)

	var (
		card domain.Card
		note sql.NullString
		tags []byte
	)

	err := row.Scan(
		&card.ID,
		&card.DeckID,
		&card.Front,
		&card.Back,
		&note,
		&card.Priority,
		&tags,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrCardNotFound
		}
		return nil, MapError(err)
	}

	card.Note = note.String
	if len(tags) > 0 {
		if err := unmarshalTags(tags, &card.Tags); err != nil {
			return nil, err
		}
	}

	return &card, nil
}

// Delete implements store.CardStore.Delete
//
// Schedules referencing the card are removed by the schema's
// ON DELETE CASCADE constraint, not by application code.
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrCardNotFound)
}

// marshalTags encodes a tag list as JSONB. A nil slice is stored as NULL.
func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		return nil, nil
	}
	return json.Marshal(tags)
}

func unmarshalTags(data []byte, tags *[]string) error {
	if err := json.Unmarshal(data, tags); err != nil {
		return fmt.Errorf("failed to decode card tags: %w", err)
	}
	return nil
}
