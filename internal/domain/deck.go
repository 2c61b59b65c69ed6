package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Deck-specific validation errors
var (
	// ErrDeckIDEmpty is returned when a deck ID is empty or nil.
	ErrDeckIDEmpty = errors.New("deck ID cannot be empty")

	// ErrDeckTopicIDEmpty is returned when a deck's topic ID is empty or nil.
	ErrDeckTopicIDEmpty = errors.New("deck topic ID cannot be empty")

	// ErrDeckNameEmpty is returned when a deck's name is empty.
	ErrDeckNameEmpty = errors.New("deck name cannot be empty")
)

// Default side labels used when a deck does not define its own.
const (
	DefaultFrontLabel = "Front"
	DefaultBackLabel  = "Back"
)

// Deck groups cards and decides how many schedules each of its cards
// carries. A bidirectional deck gives every card an independent reverse
// schedule in addition to the forward one. Turning bidirectionality off
// later does not delete reverse schedules; it only makes them dormant so
// their history survives a re-enable.
type Deck struct {
	ID            uuid.UUID `json:"id"`
	TopicID       uuid.UUID `json:"topic_id"`
	Name          string    `json:"name"`
	Bidirectional bool      `json:"bidirectional"`
	FrontLabel    string    `json:"front_label"`
	BackLabel     string    `json:"back_label"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewDeck creates a new Deck in the given topic. Empty side labels fall
// back to the defaults. Returns an error if validation fails.
func NewDeck(topicID uuid.UUID, name string, bidirectional bool, frontLabel, backLabel string) (*Deck, error) {
	if frontLabel == "" {
		frontLabel = DefaultFrontLabel
	}
	if backLabel == "" {
		backLabel = DefaultBackLabel
	}

	now := time.Now().UTC()
	deck := &Deck{
		ID:            uuid.New(),
		TopicID:       topicID,
		Name:          name,
		Bidirectional: bidirectional,
		FrontLabel:    frontLabel,
		BackLabel:     backLabel,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// Validate checks if the Deck has valid data.
func (d *Deck) Validate() error {
	if d.ID == uuid.Nil {
		return ErrDeckIDEmpty
	}

	if d.TopicID == uuid.Nil {
		return ErrDeckTopicIDEmpty
	}

	if d.Name == "" {
		return ErrDeckNameEmpty
	}

	return nil
}
