package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rowanfell/mnemo-api/internal/domain"
)

// StudyScope narrows schedule queries to what a user is currently
// studying. A nil TopicID means all of the user's topics; an empty
// DeckIDs slice means all decks within the topic scope.
type StudyScope struct {
	UserID  uuid.UUID
	TopicID uuid.UUID
	DeckIDs []uuid.UUID
}

// Candidate is a schedule joined with the card and deck it belongs to.
// The selector needs the card's priority and content and the deck's
// labels to turn a selected schedule into a presentable study item.
type Candidate struct {
	Schedule *domain.Schedule
	Card     *domain.Card
	Deck     *domain.Deck
}

// ScheduleStore defines the interface for schedule persistence.
type ScheduleStore interface {
	// Create saves a new schedule.
	// Returns ErrDuplicate if a schedule already exists for the same
	// card and direction.
	Create(ctx context.Context, schedule *domain.Schedule) error

	// GetForUser retrieves a schedule by ID, verifying through the
	// card/deck/topic chain that it belongs to the given user.
	// Returns ErrScheduleNotFound if it does not exist or is owned by
	// someone else; ownership failures are indistinguishable from
	// missing rows by design.
	GetForUser(ctx context.Context, userID, scheduleID uuid.UUID) (*domain.Schedule, error)

	// UpdateVersioned writes the schedule's scheduling fields with a
	// compare-and-swap on the version column: the update only applies if
	// the persisted version still equals expectedVersion, and the write
	// sets the version to schedule.Version (expectedVersion+1).
	// Returns ErrVersionConflict if the row exists with a different
	// version, ErrScheduleNotFound if it does not exist.
	UpdateVersioned(ctx context.Context, schedule *domain.Schedule, expectedVersion int64) error

	// Reset unconditionally returns the schedule to its initial state and
	// increments the version so stale in-flight reviews are rejected.
	// Returns the post-reset schedule, or ErrScheduleNotFound.
	Reset(ctx context.Context, scheduleID uuid.UUID, now time.Time) (*domain.Schedule, error)

	// ListCandidates returns all selectable schedules in the scope whose
	// card carries the given priority, joined with card and deck data.
	// Reverse schedules whose deck is no longer bidirectional are
	// dormant and excluded here, though their rows survive.
	ListCandidates(ctx context.Context, scope StudyScope, priority domain.Priority) ([]*Candidate, error)

	// ListForScope returns all selectable schedules in the scope across
	// every priority, with the same dormant-reverse exclusion. Used by
	// the stats aggregator.
	ListForScope(ctx context.Context, scope StudyScope) ([]*Candidate, error)

	// CreateMissingReverse backfills an initial-state reverse schedule
	// for every card in the deck that lacks one, and reports how many
	// were created. Cards that already have a reverse schedule keep it
	// untouched.
	CreateMissingReverse(ctx context.Context, deckID uuid.UUID) (int, error)

	// WithTx returns a ScheduleStore bound to the given transaction.
	WithTx(tx *sql.Tx) ScheduleStore
}
