package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rowanfell/mnemo-api/internal/domain"
)

// TopicStore defines the interface for topic persistence.
type TopicStore interface {
	// Create saves a new topic.
	Create(ctx context.Context, topic *domain.Topic) error

	// GetForUser retrieves a topic by ID owned by the given user.
	// Returns ErrTopicNotFound if it does not exist or belongs to
	// another user.
	GetForUser(ctx context.Context, userID, topicID uuid.UUID) (*domain.Topic, error)

	// Delete removes a topic and, via cascade, everything under it.
	// Returns ErrTopicNotFound if missing.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a TopicStore bound to the given transaction.
	WithTx(tx *sql.Tx) TopicStore
}
