package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rowanfell/mnemo-api/internal/domain"
	"github.com/rowanfell/mnemo-api/internal/domain/sm2"
	"github.com/rowanfell/mnemo-api/internal/platform/logger"
	"github.com/rowanfell/mnemo-api/internal/store"
	"github.com/samber/lo"
)

// Verify interface compliance at compile time
var _ StatsService = (*statsServiceImpl)(nil)

// statsServiceImpl implements the StatsService interface.
type statsServiceImpl struct {
	scheduleStore store.ScheduleStore
	sm2Service    sm2.Service
	logger        *slog.Logger
	now           func() time.Time
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(
	scheduleStore store.ScheduleStore,
	sm2Service sm2.Service,
	log *slog.Logger,
) StatsService {
	if scheduleStore == nil {
		panic("scheduleStore cannot be nil")
	}
	if sm2Service == nil {
		panic("sm2Service cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &statsServiceImpl{
		scheduleStore: scheduleStore,
		sm2Service:    sm2Service,
		logger:        log.With(slog.String("component", "stats_service")),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Summarize implements StatsService.Summarize.
func (s *statsServiceImpl) Summarize(
	ctx context.Context,
	userID, topicID uuid.UUID,
) (*Summary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	candidates, err := s.scheduleStore.ListForScope(ctx, store.StudyScope{
		UserID:  userID,
		TopicID: topicID,
	})
	if err != nil {
		log.Error("failed to list schedules for stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	byTier := lo.GroupBy(candidates, func(c *store.Candidate) domain.Priority {
		return c.Card.Priority
	})

	summary := &Summary{}
	for _, priority := range domain.PrioritiesByRank {
		tier := TierSummary{Priority: priority}
		for _, c := range byTier[priority] {
			tier.Total++
			if s.sm2Service.IsDue(c.Schedule, now) {
				tier.Due++
			}
		}
		summary.Tiers = append(summary.Tiers, tier)
	}

	for _, c := range candidates {
		if !c.Schedule.Studied() {
			summary.Unseen++
		}

		// Forward only, so bidirectional cards are not counted twice.
		if c.Schedule.Direction != domain.DirectionForward || c.Schedule.LastGrade == nil {
			continue
		}
		if c.Schedule.LastGrade.Correct() {
			summary.Correct++
		} else {
			summary.Incorrect++
		}
	}

	return summary, nil
}
