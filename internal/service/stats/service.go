// Package stats implements read-only dashboard rollups over the same due
// predicate and priority tiers the selector uses. It introduces no
// scheduling logic of its own.
package stats

import (
	"context"

	"github.com/google/uuid"
	"github.com/rowanfell/mnemo-api/internal/domain"
)

// TierSummary counts schedules within one priority tier.
type TierSummary struct {
	Priority domain.Priority `json:"priority"`
	Total    int             `json:"total"`
	Due      int             `json:"due"`
}

// Summary is the dashboard rollup for a study scope.
type Summary struct {
	Tiers []TierSummary `json:"tiers"`

	// Correct and Incorrect tally last-grade outcomes over forward
	// schedules only, so a bidirectional card is counted once.
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`

	// Unseen counts schedules that have never been studied.
	Unseen int `json:"unseen"`
}

// StatsService aggregates scheduling state for dashboards.
type StatsService interface {
	// Summarize rolls up due counts per priority tier and grade outcomes
	// for the given scope. topicID may be uuid.Nil for all topics.
	Summarize(ctx context.Context, userID, topicID uuid.UUID) (*Summary, error)
}
