package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Topic-specific validation errors
var (
	// ErrTopicIDEmpty is returned when a topic ID is empty or nil.
	ErrTopicIDEmpty = errors.New("topic ID cannot be empty")

	// ErrTopicUserIDEmpty is returned when a topic's user ID is empty or nil.
	ErrTopicUserIDEmpty = errors.New("topic user ID cannot be empty")

	// ErrTopicNameEmpty is returned when a topic's name is empty.
	ErrTopicNameEmpty = errors.New("topic name cannot be empty")
)

// Topic groups a user's decks into a study area. Deleting a topic cascades
// down through its decks, cards, and schedules.
type Topic struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTopic creates a new Topic owned by the given user.
// Returns an error if validation fails.
func NewTopic(userID uuid.UUID, name string) (*Topic, error) {
	now := time.Now().UTC()
	topic := &Topic{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := topic.Validate(); err != nil {
		return nil, err
	}

	return topic, nil
}

// Validate checks if the Topic has valid data.
func (t *Topic) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTopicIDEmpty
	}

	if t.UserID == uuid.Nil {
		return ErrTopicUserIDEmpty
	}

	if t.Name == "" {
		return ErrTopicNameEmpty
	}

	return nil
}
