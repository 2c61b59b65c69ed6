package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/rowanfell/mnemo-api/internal/domain"
	"github.com/rowanfell/mnemo-api/internal/store"
)

// PostgresTopicStore implements the store.TopicStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTopicStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTopicStore creates a new PostgreSQL implementation of the
// TopicStore interface. If logger is nil, a default logger is used.
func NewPostgresTopicStore(db store.DBTX, logger *slog.Logger) *PostgresTopicStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTopicStore{
		db:     db,
		logger: logger.With(slog.String("component", "topic_store")),
	}
}

// Ensure PostgresTopicStore implements store.TopicStore
var _ store.TopicStore = (*PostgresTopicStore)(nil)

// WithTx implements store.TopicStore.WithTx
func (s *PostgresTopicStore) WithTx(tx *sql.Tx) store.TopicStore {
	return &PostgresTopicStore{db: tx, logger: s.logger}
}

// Create implements store.TopicStore.Create
func (s *PostgresTopicStore) Create(ctx context.Context, topic *domain.Topic) error {
	if err := topic.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO topics (id, user_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`,
		topic.ID,
		topic.UserID,
		topic.Name,
		topic.CreatedAt,
		topic.UpdatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// GetForUser implements store.TopicStore.GetForUser
func (s *PostgresTopicStore) GetForUser(
	ctx context.Context,
	userID, topicID uuid.UUID,
) (*domain.Topic, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, created_at, updated_at
		FROM topics
		WHERE id = $1 AND user_id = $2`,
		topicID, userID,
	)

	var topic domain.Topic
	err := row.Scan(&topic.ID, &topic.UserID, &topic.Name, &topic.CreatedAt, &topic.UpdatedAt)
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrTopicNotFound
		}
		return nil, MapError(err)
	}

	return &topic, nil
}

// Delete implements store.TopicStore.Delete
func (s *PostgresTopicStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM topics WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTopicNotFound)
}
