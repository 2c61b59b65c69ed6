package stats

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

// fakeScopeStore returns a fixed candidate list from ListForScope.
type fakeScopeStore struct {
	candidates []*store.Candidate
}

func (f *fakeScopeStore) Create(ctx context.Context, schedule *domain.Schedule) error {
	return nil
}

func (f *fakeScopeStore) GetForUser(
	ctx context.Context,
	userID, scheduleID uuid.UUID,
) (*domain.Schedule, error) {
	return nil, store.ErrScheduleNotFound
}

func (f *fakeScopeStore) UpdateVersioned(
	ctx context.Context,
	schedule *domain.Schedule,
	expectedVersion int64,
) error {
	return nil
}

func (f *fakeScopeStore) Reset(
	ctx context.Context,
	scheduleID uuid.UUID,
	now time.Time,
) (*domain.Schedule, error) {
	return nil, store.ErrScheduleNotFound
}

func (f *fakeScopeStore) ListCandidates(
	ctx context.Context,
	scope store.StudyScope,
	priority domain.Priority,
) ([]*store.Candidate, error) {
	return nil, nil
}

func (f *fakeScopeStore) ListForScope(
	ctx context.Context,
	scope store.StudyScope,
) ([]*store.Candidate, error) {
	return f.candidates, nil
}

func (f *fakeScopeStore) CreateMissingReverse(
	ctx context.Context,
	deckID uuid.UUID,
) (int, error) {
	return 0, nil
}

func (f *fakeScopeStore) WithTx(tx *sql.Tx) store.ScheduleStore {
	return f
}

type candidateSeed struct {
	priority  domain.Priority
	direction domain.Direction
	lastGrade *domain.Grade
	// seenDaysAgo < 0 means never studied.
	seenDaysAgo int
	interval    int
}

func buildCandidate(t *testing.T, now time.Time, seed candidateSeed) *store.Candidate {
	t.Helper()

	deck, err := domain.NewDeck(uuid.New(), "Capitals", true, "", "")
	require.NoError(t, err)

	card, err := domain.NewCard(deck.ID, "France", "Paris", "", seed.priority, nil)
	require.NoError(t, err)

	schedule, err := domain.NewSchedule(card.ID, seed.direction)
	require.NoError(t, err)

	if seed.seenDaysAgo >= 0 {
		seen := now.AddDate(0, 0, -seed.seenDaysAgo)
		schedule.LastSeenAt = &seen
		schedule.Interval = seed.interval
		schedule.LastGrade = seed.lastGrade
	}

	return &store.Candidate{Schedule: schedule, Card: card, Deck: deck}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	correct := domain.GradeCorrectPerfectRecall
	hesitant := domain.GradeCorrectWithHesitation
	wrong := domain.GradeIncorrect

	candidates := []*store.Candidate{
		// HIGH: one due (past interval), one not due.
		buildCandidate(t, now, candidateSeed{
			priority: domain.PriorityHigh, direction: domain.DirectionForward,
			lastGrade: &correct, seenDaysAgo: 7, interval: 6,
		}),
		buildCandidate(t, now, candidateSeed{
			priority: domain.PriorityHigh, direction: domain.DirectionForward,
			lastGrade: &hesitant, seenDaysAgo: 2, interval: 6,
		}),
		// MEDIUM: never studied, always due.
		buildCandidate(t, now, candidateSeed{
			priority: domain.PriorityMedium, direction: domain.DirectionForward,
			seenDaysAgo: -1,
		}),
		// LOW: failed forward review, due again.
		buildCandidate(t, now, candidateSeed{
			priority: domain.PriorityLow, direction: domain.DirectionForward,
			lastGrade: &wrong, seenDaysAgo: 1, interval: 1,
		}),
		// Reverse schedule with a correct grade: counts for tier totals
		// but not for the correct/incorrect tallies.
		buildCandidate(t, now, candidateSeed{
			priority: domain.PriorityLow, direction: domain.DirectionReverse,
			lastGrade: &correct, seenDaysAgo: 1, interval: 1,
		}),
	}

	params := sm2.NewDefaultParams()
	params.Location = time.UTC
	service := NewStatsService(&fakeScopeStore{candidates: candidates}, sm2.NewServiceWithParams(params), nil)
	impl := service.(*statsServiceImpl)
	impl.now = func() time.Time { return now }

	summary, err := service.Summarize(context.Background(), uuid.New(), uuid.Nil)
	require.NoError(t, err)

	require.Len(t, summary.Tiers, 3)
	assert.Equal(t, domain.PriorityHigh, summary.Tiers[0].Priority)
	assert.Equal(t, 2, summary.Tiers[0].Total)
	assert.Equal(t, 1, summary.Tiers[0].Due)

	assert.Equal(t, domain.PriorityMedium, summary.Tiers[1].Priority)
	assert.Equal(t, 1, summary.Tiers[1].Total)
	assert.Equal(t, 1, summary.Tiers[1].Due)

	assert.Equal(t, domain.PriorityLow, summary.Tiers[2].Priority)
	assert.Equal(t, 2, summary.Tiers[2].Total)
	assert.Equal(t, 2, summary.Tiers[2].Due)

	// Two correct forward grades, one incorrect; the reverse schedule's
	// grade is excluded so the card is not double counted.
	assert.Equal(t, 2, summary.Correct)
	assert.Equal(t, 1, summary.Incorrect)
	assert.Equal(t, 1, summary.Unseen)
}

func TestSummarizeEmptyScope(t *testing.T) {
	t.Parallel()

	service := NewStatsService(&fakeScopeStore{}, sm2.NewDefaultService(), nil)

	summary, err := service.Summarize(context.Background(), uuid.New(), uuid.Nil)
	require.NoError(t, err)

	require.Len(t, summary.Tiers, 3)
	for _, tier := range summary.Tiers {
		assert.Zero(t, tier.Total)
		assert.Zero(t, tier.Due)
	}
	assert.Zero(t, summary.Correct)
	assert.Zero(t, summary.Incorrect)
	assert.Zero(t, summary.Unseen)
}
