// Package content implements the lifecycle of topics, decks, and cards,
// including the scheduling side effects the data model requires: every
// card gets a forward schedule at creation, and toggling a deck's
// bidirectionality backfills (but never deletes) reverse schedules.
package content

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rowanfell/mnemo-api/internal/domain"
)

// Common error types for ContentService
var (
	// ErrTopicNotFound indicates the topic does not exist or is not
	// visible to the caller.
	ErrTopicNotFound = errors.New("topic not found")

	// ErrDeckNotFound indicates the deck does not exist or is not
	// visible to the caller.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrCardNotFound indicates the card does not exist or is not
	// visible to the caller.
	ErrCardNotFound = errors.New("card not found")
)

// NewCardInput carries the caller-supplied fields for card creation.
type NewCardInput struct {
	DeckID   uuid.UUID
	Front    string
	Back     string
	Note     string
	Priority domain.Priority
	Tags     []string
}

// NewDeckInput carries the caller-supplied fields for deck creation.
type NewDeckInput struct {
	TopicID       uuid.UUID
	Name          string
	Bidirectional bool
	FrontLabel    string
	BackLabel     string
}

// ContentService manages topics, decks, and cards.
type ContentService interface {
	// CreateTopic creates a topic owned by the user.
	CreateTopic(ctx context.Context, userID uuid.UUID, name string) (*domain.Topic, error)

	// CreateDeck creates a deck in one of the user's topics.
	// Returns ErrTopicNotFound if the topic is not the user's.
	CreateDeck(ctx context.Context, userID uuid.UUID, input NewDeckInput) (*domain.Deck, error)

	// CreateCard creates a card together with its forward schedule and,
	// when the deck is bidirectional, its reverse schedule, atomically.
	// Returns ErrDeckNotFound if the deck is not the user's.
	CreateCard(ctx context.Context, userID uuid.UUID, input NewCardInput) (*domain.Card, error)

	// SetDeckBidirectional toggles bidirectional study on a deck.
	// Enabling backfills an initial-state reverse schedule for every
	// card that lacks one and reports how many were created. Disabling
	// removes nothing: existing reverse schedules go dormant and are
	// merely excluded from selection.
	// Returns ErrDeckNotFound if the deck is not the user's.
	SetDeckBidirectional(
		ctx context.Context,
		userID uuid.UUID,
		deckID uuid.UUID,
		bidirectional bool,
	) (backfilled int, err error)

	// DeleteCard removes a card and, via cascade, its schedules.
	// Returns ErrCardNotFound if the card is not the user's.
	DeleteCard(ctx context.Context, userID, cardID uuid.UUID) error
}
