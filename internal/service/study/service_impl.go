package study

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rowanfell/mnemo-api/internal/domain"
	"github.com/rowanfell/mnemo-api/internal/domain/sm2"
	"github.com/rowanfell/mnemo-api/internal/platform/logger"
	"github.com/rowanfell/mnemo-api/internal/store"
	"github.com/samber/lo"
)

// Verify interface compliance at compile time
var _ StudyService = (*studyServiceImpl)(nil)

// studyServiceImpl implements the StudyService interface.
type studyServiceImpl struct {
	scheduleStore store.ScheduleStore
	sm2Service    sm2.Service
	logger        *slog.Logger
	now           func() time.Time
	pick          func(n int) int
}

// NewStudyService creates a new StudyService implementation.
func NewStudyService(
	scheduleStore store.ScheduleStore,
	sm2Service sm2.Service,
	log *slog.Logger,
) StudyService {
	if scheduleStore == nil {
		panic("scheduleStore cannot be nil")
	}
	if sm2Service == nil {
		panic("sm2Service cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &studyServiceImpl{
		scheduleStore: scheduleStore,
		sm2Service:    sm2Service,
		logger:        log.With(slog.String("component", "study_service")),
		now:           func() time.Time { return time.Now().UTC() },
		pick:          rand.IntN,
	}
}

// NextItem implements StudyService.NextItem.
//
// Selection is read-only and unsynchronized: two concurrent calls may
// legitimately return the same schedule. The write-side version check is
// what prevents a double submission from counting twice.
func (s *studyServiceImpl) NextItem(
	ctx context.Context,
	userID uuid.UUID,
	topicID uuid.UUID,
	deckIDs []uuid.UUID,
) (*StudyItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.now()

	scope := store.StudyScope{
		UserID:  userID,
		TopicID: topicID,
		DeckIDs: deckIDs,
	}

	for _, priority := range domain.PrioritiesByRank {
		candidates, err := s.scheduleStore.ListCandidates(ctx, scope, priority)
		if err != nil {
			log.Error("failed to list candidate schedules",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()),
				slog.String("priority", string(priority)))
			return nil, fmt.Errorf("failed to list candidate schedules: %w", err)
		}

		due := lo.Filter(candidates, func(c *store.Candidate, _ int) bool {
			return s.sm2Service.IsDue(c.Schedule, now)
		})
		if len(due) == 0 {
			continue
		}

		// A higher tier with anything due always wins; never fall
		// through to a lower one.
		selected := due[s.pick(len(due))]

		log.Debug("selected study item",
			slog.String("schedule_id", selected.Schedule.ID.String()),
			slog.String("priority", string(priority)),
			slog.String("direction", string(selected.Schedule.Direction)),
			slog.Int("due_in_tier", len(due)))

		return buildStudyItem(selected), nil
	}

	log.Debug("nothing due", slog.String("user_id", userID.String()))
	return nil, ErrNothingDue
}

// buildStudyItem resolves which card side is the prompt. Forward
// schedules present the front; reverse schedules present the back.
func buildStudyItem(c *store.Candidate) *StudyItem {
	item := &StudyItem{
		ScheduleID: c.Schedule.ID,
		CardID:     c.Card.ID,
		DeckID:     c.Deck.ID,
		Direction:  c.Schedule.Direction,
		Priority:   c.Card.Priority,
		Note:       c.Card.Note,
		Tags:       c.Card.Tags,
		Version:    c.Schedule.Version,
	}

	if c.Schedule.Direction == domain.DirectionReverse {
		item.Prompt = c.Card.Back
		item.Answer = c.Card.Front
		item.PromptLabel = c.Deck.BackLabel
		item.AnswerLabel = c.Deck.FrontLabel
	} else {
		item.Prompt = c.Card.Front
		item.Answer = c.Card.Back
		item.PromptLabel = c.Deck.FrontLabel
		item.AnswerLabel = c.Deck.BackLabel
	}

	return item
}
