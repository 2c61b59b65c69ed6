package study

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanfell/mnemo-api/internal/domain"
	"github.com/rowanfell/mnemo-api/internal/domain/sm2"
	"github.com/rowanfell/mnemo-api/internal/store"
)

// fakeCandidateStore serves fixed candidate lists per priority tier, the
// way the SQL store would after applying scope and dormancy filters.
type fakeCandidateStore struct {
	byPriority map[domain.Priority][]*store.Candidate
}

func (f *fakeCandidateStore) Create(ctx context.Context, schedule *domain.Schedule) error {
	return nil
}

func (f *fakeCandidateStore) GetForUser(
	ctx context.Context,
	userID, scheduleID uuid.UUID,
) (*domain.Schedule, error) {
	return nil, store.ErrScheduleNotFound
}

func (f *fakeCandidateStore) UpdateVersioned(
	ctx context.Context,
	schedule *domain.Schedule,
	expectedVersion int64,
) error {
	return nil
}

func (f *fakeCandidateStore) Reset(
	ctx context.Context,
	scheduleID uuid.UUID,
	now time.Time,
) (*domain.Schedule, error) {
	return nil, store.ErrScheduleNotFound
}

func (f *fakeCandidateStore) ListCandidates(
	ctx context.Context,
	scope store.StudyScope,
	priority domain.Priority,
) ([]*store.Candidate, error) {
	return f.byPriority[priority], nil
}

func (f *fakeCandidateStore) ListForScope(
	ctx context.Context,
	scope store.StudyScope,
) ([]*store.Candidate, error) {
	var all []*store.Candidate
	for _, priority := range domain.PrioritiesByRank {
		all = append(all, f.byPriority[priority]...)
	}
	return all, nil
}

func (f *fakeCandidateStore) CreateMissingReverse(
	ctx context.Context,
	deckID uuid.UUID,
) (int, error) {
	return 0, nil
}

func (f *fakeCandidateStore) WithTx(tx *sql.Tx) store.ScheduleStore {
	return f
}

// newCandidate builds a candidate that has never been studied, so it is
// always due, carrying the given priority and direction.
func newCandidate(
	t *testing.T,
	priority domain.Priority,
	direction domain.Direction,
) *store.Candidate {
	t.Helper()

	deck, err := domain.NewDeck(uuid.New(), "Spanish vocab", true, "English", "Spanish")
	require.NoError(t, err)

	card, err := domain.NewCard(deck.ID, "cat", "gato", "feline", priority, []string{"animals"})
	require.NoError(t, err)

	schedule, err := domain.NewSchedule(card.ID, direction)
	require.NoError(t, err)

	return &store.Candidate{Schedule: schedule, Card: card, Deck: deck}
}

// markSeen makes the candidate's schedule not due by stamping a recent
// review with the given interval.
func markSeen(c *store.Candidate, interval int, lastSeen time.Time) {
	c.Schedule.Interval = interval
	seen := lastSeen
	c.Schedule.LastSeenAt = &seen
}

func newServiceForTest(fake *fakeCandidateStore) *studyServiceImpl {
	svc := NewStudyService(fake, sm2.NewDefaultService(), nil).(*studyServiceImpl)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestNextItemHigherTierAlwaysWins(t *testing.T) {
	t.Parallel()

	high := newCandidate(t, domain.PriorityHigh, domain.DirectionForward)
	fake := &fakeCandidateStore{byPriority: map[domain.Priority][]*store.Candidate{
		domain.PriorityHigh: {high},
		domain.PriorityMedium: {
			newCandidate(t, domain.PriorityMedium, domain.DirectionForward),
			newCandidate(t, domain.PriorityMedium, domain.DirectionForward),
		},
		domain.PriorityLow: {
			newCandidate(t, domain.PriorityLow, domain.DirectionForward),
		},
	}}
	service := newServiceForTest(fake)

	// One due HIGH schedule must dominate any number of due lower-tier
	// schedules, on every call.
	for i := 0; i < 100; i++ {
		item, err := service.NextItem(context.Background(), uuid.New(), uuid.Nil, nil)
		require.NoError(t, err)
		assert.Equal(t, high.Schedule.ID, item.ScheduleID, "trial %d picked a lower tier", i)
		assert.Equal(t, domain.PriorityHigh, item.Priority)
	}
}

func TestNextItemFallsToLowerTierWhenHigherNotDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	high := newCandidate(t, domain.PriorityHigh, domain.DirectionForward)
	markSeen(high, 30, now.AddDate(0, 0, -1))

	low := newCandidate(t, domain.PriorityLow, domain.DirectionForward)

	fake := &fakeCandidateStore{byPriority: map[domain.Priority][]*store.Candidate{
		domain.PriorityHigh: {high},
		domain.PriorityLow:  {low},
	}}
	service := newServiceForTest(fake)

	item, err := service.NextItem(context.Background(), uuid.New(), uuid.Nil, nil)
	require.NoError(t, err)
	assert.Equal(t, low.Schedule.ID, item.ScheduleID)
}

func TestNextItemNothingDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	seen := newCandidate(t, domain.PriorityMedium, domain.DirectionForward)
	markSeen(seen, 10, now)

	fake := &fakeCandidateStore{byPriority: map[domain.Priority][]*store.Candidate{
		domain.PriorityMedium: {seen},
	}}
	service := newServiceForTest(fake)

	_, err := service.NextItem(context.Background(), uuid.New(), uuid.Nil, nil)
	assert.ErrorIs(t, err, ErrNothingDue)
}

func TestNextItemUniformPickWithinTier(t *testing.T) {
	t.Parallel()

	candidates := []*store.Candidate{
		newCandidate(t, domain.PriorityMedium, domain.DirectionForward),
		newCandidate(t, domain.PriorityMedium, domain.DirectionForward),
		newCandidate(t, domain.PriorityMedium, domain.DirectionForward),
	}
	fake := &fakeCandidateStore{byPriority: map[domain.Priority][]*store.Candidate{
		domain.PriorityMedium: candidates,
	}}
	service := newServiceForTest(fake)

	// Pin the pick to each index in turn: the selector must honor it and
	// pass the full due count.
	for want := 0; want < len(candidates); want++ {
		want := want
		service.pick = func(n int) int {
			require.Equal(t, len(candidates), n)
			return want
		}

		item, err := service.NextItem(context.Background(), uuid.New(), uuid.Nil, nil)
		require.NoError(t, err)
		assert.Equal(t, candidates[want].Schedule.ID, item.ScheduleID)
	}
}

func TestNextItemForwardPresentation(t *testing.T) {
	t.Parallel()

	forward := newCandidate(t, domain.PriorityHigh, domain.DirectionForward)
	fake := &fakeCandidateStore{byPriority: map[domain.Priority][]*store.Candidate{
		domain.PriorityHigh: {forward},
	}}
	service := newServiceForTest(fake)

	item, err := service.NextItem(context.Background(), uuid.New(), uuid.Nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "cat", item.Prompt)
	assert.Equal(t, "gato", item.Answer)
	assert.Equal(t, "English", item.PromptLabel)
	assert.Equal(t, "Spanish", item.AnswerLabel)
	assert.Equal(t, domain.DirectionForward, item.Direction)
	assert.Equal(t, int64(0), item.Version)
}

func TestNextItemReverseSwapsSidesAndLabels(t *testing.T) {
	t.Parallel()

	reverse := newCandidate(t, domain.PriorityHigh, domain.DirectionReverse)
	fake := &fakeCandidateStore{byPriority: map[domain.Priority][]*store.Candidate{
		domain.PriorityHigh: {reverse},
	}}
	service := newServiceForTest(fake)

	item, err := service.NextItem(context.Background(), uuid.New(), uuid.Nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "gato", item.Prompt)
	assert.Equal(t, "cat", item.Answer)
	assert.Equal(t, "Spanish", item.PromptLabel)
	assert.Equal(t, "English", item.AnswerLabel)
	assert.Equal(t, domain.DirectionReverse, item.Direction)
}
