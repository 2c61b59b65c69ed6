package sm2

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanfell/mnemo-api/internal/domain"
)

func newTestSchedule(t *testing.T) *domain.Schedule {
	t.Helper()
	schedule, err := domain.NewSchedule(uuid.New(), domain.DirectionForward)
	require.NoError(t, err, "Failed to create schedule")
	return schedule
}

func TestNextStatePerfectRecallProgression(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	schedule := newTestSchedule(t)

	// Each step reviews the schedule with a perfect grade. The interval
	// for the third and later repetitions multiplies the previous
	// interval by the easiness that was in effect going into the review:
	// round(6*2.7)=16, then round(16*2.8)=45.
	steps := []struct {
		wantInterval int
		wantEasiness float64
		wantRepCount int
	}{
		{wantInterval: 1, wantEasiness: 2.6, wantRepCount: 1},
		{wantInterval: 6, wantEasiness: 2.7, wantRepCount: 2},
		{wantInterval: 16, wantEasiness: 2.8, wantRepCount: 3},
		{wantInterval: 45, wantEasiness: 2.9, wantRepCount: 4},
	}

	for i, step := range steps {
		schedule = NextState(schedule, domain.GradeCorrectPerfectRecall, now, params)

		assert.Equal(t, step.wantInterval, schedule.Interval, "interval after review %d", i+1)
		assert.InDelta(t, step.wantEasiness, schedule.Easiness, 1e-9, "easiness after review %d", i+1)
		assert.Equal(t, step.wantRepCount, schedule.RepetitionCount, "repetition count after review %d", i+1)

		now = now.AddDate(0, 0, schedule.Interval)
	}
}

func TestNextStateIncorrectResetsAndPenalizes(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	schedule := newTestSchedule(t)
	schedule.Easiness = 2.8
	schedule.Interval = 16
	schedule.RepetitionCount = 3

	next := NextState(schedule, domain.GradeIncorrect, now, params)

	// A failed recall resets repetition history and interval, and the
	// quality-0 easiness penalty (-0.8) still applies on top.
	assert.Equal(t, 0, next.RepetitionCount)
	assert.Equal(t, 1, next.Interval)
	assert.InDelta(t, 2.0, next.Easiness, 1e-9)
}

func TestNextStateEasinessFloor(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	schedule := newTestSchedule(t)

	// Easiness loses 0.8 per failure; after two it would be 0.9 without
	// the floor. It must clamp at 1.3 and stay there.
	for i := 0; i < 5; i++ {
		schedule = NextState(schedule, domain.GradeIncorrect, now, params)
		assert.GreaterOrEqual(t, schedule.Easiness, params.MinEasiness, "easiness after failure %d", i+1)
	}
	assert.InDelta(t, params.MinEasiness, schedule.Easiness, 1e-9)
}

func TestNextStateHesitationKeepsEasiness(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	schedule := newTestSchedule(t)

	// Quality 4 makes the easiness delta exactly zero.
	next := NextState(schedule, domain.GradeCorrectWithHesitation, now, params)

	assert.InDelta(t, schedule.Easiness, next.Easiness, 1e-9)
	assert.Equal(t, 1, next.RepetitionCount)
	assert.Equal(t, 1, next.Interval)
}

func TestNextStateDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	schedule := newTestSchedule(t)
	schedule.Easiness = 2.8
	schedule.Interval = 16
	schedule.RepetitionCount = 3
	original := schedule.Clone()

	_ = NextState(schedule, domain.GradeCorrectPerfectRecall, now, params)

	assert.Equal(t, original.Easiness, schedule.Easiness)
	assert.Equal(t, original.Interval, schedule.Interval)
	assert.Equal(t, original.RepetitionCount, schedule.RepetitionCount)
	assert.Nil(t, schedule.LastSeenAt)
	assert.Nil(t, schedule.LastGrade)
}

func TestNextStateStampsReviewMetadata(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	schedule := newTestSchedule(t)

	next := NextState(schedule, domain.GradeIncorrect, now, params)

	require.NotNil(t, next.LastSeenAt)
	assert.True(t, next.LastSeenAt.Equal(now))
	require.NotNil(t, next.LastGrade)
	assert.Equal(t, domain.GradeIncorrect, *next.LastGrade)
	assert.True(t, next.UpdatedAt.Equal(now))
}

func TestServiceNextStateValidation(t *testing.T) {
	t.Parallel()

	service := NewDefaultService()
	now := time.Now().UTC()

	t.Run("nil schedule", func(t *testing.T) {
		t.Parallel()
		_, err := service.NextState(nil, domain.GradeIncorrect, now)
		assert.ErrorIs(t, err, ErrNilSchedule)
	})

	t.Run("unknown grade", func(t *testing.T) {
		t.Parallel()
		schedule := newTestSchedule(t)
		_, err := service.NextState(schedule, domain.Grade("SHRUG"), now)
		assert.ErrorIs(t, err, ErrInvalidGrade)
	})

	t.Run("valid review succeeds", func(t *testing.T) {
		t.Parallel()
		schedule := newTestSchedule(t)
		next, err := service.NextState(schedule, domain.GradeCorrectPerfectRecall, now)
		require.NoError(t, err)
		assert.Equal(t, 1, next.RepetitionCount)
	})
}
