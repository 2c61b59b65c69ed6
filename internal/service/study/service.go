// Package study implements the due-set selector: it decides which
// schedule, if any, a user should be shown next, honoring priority
// tiers, due-ness, and the bidirectional-study rules.
package study

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rowanfell/mnemo-api/internal/domain"
)

// ErrNothingDue indicates that no schedule in the requested scope is due.
// It is an ordinary outcome of a study session, not a failure; the HTTP
// layer translates it into an empty response.
var ErrNothingDue = errors.New("nothing due for review")

// StudyItem is a selected schedule formatted for presentation. The
// schedule's direction decides which card side is the prompt and which
// deck label attaches to each side.
type StudyItem struct {
	ScheduleID  uuid.UUID        `json:"schedule_id"`
	CardID      uuid.UUID        `json:"card_id"`
	DeckID      uuid.UUID        `json:"deck_id"`
	Direction   domain.Direction `json:"direction"`
	Priority    domain.Priority  `json:"priority"`
	Prompt      string           `json:"prompt"`
	Answer      string           `json:"answer"`
	PromptLabel string           `json:"prompt_label"`
	AnswerLabel string           `json:"answer_label"`
	Note        string           `json:"note,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	Version     int64            `json:"version"`
}

// StudyService selects the next item to study.
type StudyService interface {
	// NextItem returns at most one due schedule for the given scope.
	// Priority tiers are visited high to low and a tier with any due
	// schedule wins outright; within the winning tier the pick is
	// uniformly random. topicID may be uuid.Nil for all topics and
	// deckIDs may be empty for all decks in scope.
	//
	// Returns ErrNothingDue when no tier has a due schedule.
	NextItem(
		ctx context.Context,
		userID uuid.UUID,
		topicID uuid.UUID,
		deckIDs []uuid.UUID,
	) (*StudyItem, error)
}
