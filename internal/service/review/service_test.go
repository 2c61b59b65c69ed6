package review

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanfell/mnemo-api/internal/domain"
	"github.com/rowanfell/mnemo-api/internal/domain/sm2"
	"github.com/rowanfell/mnemo-api/internal/store"
)

// fakeScheduleStore is an in-memory ScheduleStore with the same
// compare-and-swap semantics as the Postgres implementation. The mutex
// stands in for the row lock the database would take.
type fakeScheduleStore struct {
	mu        sync.Mutex
	schedules map[uuid.UUID]*domain.Schedule
	owners    map[uuid.UUID]uuid.UUID
}

func newFakeScheduleStore() *fakeScheduleStore {
	return &fakeScheduleStore{
		schedules: make(map[uuid.UUID]*domain.Schedule),
		owners:    make(map[uuid.UUID]uuid.UUID),
	}
}

func (f *fakeScheduleStore) add(userID uuid.UUID, schedule *domain.Schedule) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schedules[schedule.ID] = schedule.Clone()
	f.owners[schedule.ID] = userID
}

func (f *fakeScheduleStore) Create(ctx context.Context, schedule *domain.Schedule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.schedules[schedule.ID] = schedule.Clone()
	return nil
}

func (f *fakeScheduleStore) GetForUser(
	ctx context.Context,
	userID, scheduleID uuid.UUID,
) (*domain.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	schedule, ok := f.schedules[scheduleID]
	if !ok || f.owners[scheduleID] != userID {
		return nil, store.ErrScheduleNotFound
	}
	return schedule.Clone(), nil
}

func (f *fakeScheduleStore) UpdateVersioned(
	ctx context.Context,
	schedule *domain.Schedule,
	expectedVersion int64,
) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, ok := f.schedules[schedule.ID]
	if !ok {
		return store.ErrScheduleNotFound
	}
	if current.Version != expectedVersion {
		return fmt.Errorf("%w: expected %d, found %d",
			store.ErrVersionConflict, expectedVersion, current.Version)
	}

	f.schedules[schedule.ID] = schedule.Clone()
	return nil
}

func (f *fakeScheduleStore) Reset(
	ctx context.Context,
	scheduleID uuid.UUID,
	now time.Time,
) (*domain.Schedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, ok := f.schedules[scheduleID]
	if !ok {
		return nil, store.ErrScheduleNotFound
	}

	reset := current.Clone()
	reset.Easiness = domain.InitialEasiness
	reset.Interval = domain.InitialInterval
	reset.RepetitionCount = 0
	reset.LastGrade = nil
	reset.LastSeenAt = nil
	reset.Version = current.Version + 1
	reset.UpdatedAt = now

	f.schedules[scheduleID] = reset
	return reset.Clone(), nil
}

func (f *fakeScheduleStore) ListCandidates(
	ctx context.Context,
	scope store.StudyScope,
	priority domain.Priority,
) ([]*store.Candidate, error) {
	return nil, nil
}

func (f *fakeScheduleStore) ListForScope(
	ctx context.Context,
	scope store.StudyScope,
) ([]*store.Candidate, error) {
	return nil, nil
}

func (f *fakeScheduleStore) CreateMissingReverse(
	ctx context.Context,
	deckID uuid.UUID,
) (int, error) {
	return 0, nil
}

func (f *fakeScheduleStore) WithTx(tx *sql.Tx) store.ScheduleStore {
	return f
}

func (f *fakeScheduleStore) get(id uuid.UUID) *domain.Schedule {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.schedules[id].Clone()
}

func newServiceForTest(t *testing.T, fake *fakeScheduleStore) ReviewService {
	t.Helper()
	return NewReviewService(nil, fake, sm2.NewDefaultService(), nil)
}

func seedSchedule(t *testing.T, fake *fakeScheduleStore, userID uuid.UUID) *domain.Schedule {
	t.Helper()
	schedule, err := domain.NewSchedule(uuid.New(), domain.DirectionForward)
	require.NoError(t, err)
	fake.add(userID, schedule)
	return schedule
}

func TestRecordReviewAdvancesState(t *testing.T) {
	t.Parallel()

	fake := newFakeScheduleStore()
	userID := uuid.New()
	schedule := seedSchedule(t, fake, userID)
	service := newServiceForTest(t, fake)

	updated, err := service.RecordReview(
		context.Background(), userID, schedule.ID, 0, domain.GradeCorrectPerfectRecall,
	)
	require.NoError(t, err)

	assert.Equal(t, int64(1), updated.Version, "version must advance by exactly one")
	assert.Equal(t, 1, updated.RepetitionCount)
	assert.Equal(t, 1, updated.Interval)
	assert.InDelta(t, 2.6, updated.Easiness, 1e-9)
	require.NotNil(t, updated.LastGrade)
	assert.Equal(t, domain.GradeCorrectPerfectRecall, *updated.LastGrade)

	persisted := fake.get(schedule.ID)
	assert.Equal(t, int64(1), persisted.Version)
}

func TestRecordReviewStaleVersionConflicts(t *testing.T) {
	t.Parallel()

	fake := newFakeScheduleStore()
	userID := uuid.New()
	schedule := seedSchedule(t, fake, userID)
	service := newServiceForTest(t, fake)

	_, err := service.RecordReview(
		context.Background(), userID, schedule.ID, 0, domain.GradeCorrectPerfectRecall,
	)
	require.NoError(t, err)

	// Replaying the same version token must be rejected without a second
	// state advance.
	_, err = service.RecordReview(
		context.Background(), userID, schedule.ID, 0, domain.GradeCorrectPerfectRecall,
	)
	assert.ErrorIs(t, err, ErrVersionConflict)

	persisted := fake.get(schedule.ID)
	assert.Equal(t, int64(1), persisted.Version)
	assert.Equal(t, 1, persisted.RepetitionCount)
}

func TestRecordReviewConcurrentSubmissionsOneWinner(t *testing.T) {
	t.Parallel()

	fake := newFakeScheduleStore()
	userID := uuid.New()
	schedule := seedSchedule(t, fake, userID)
	service := newServiceForTest(t, fake)

	const attempts = 16
	errCh := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.RecordReview(
				context.Background(), userID, schedule.ID, 0, domain.GradeCorrectWithHesitation,
			)
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)

	var wins, conflicts int
	for err := range errCh {
		switch {
		case err == nil:
			wins++
		case assert.ErrorIs(t, err, ErrVersionConflict):
			conflicts++
		}
	}

	assert.Equal(t, 1, wins, "exactly one submission may win")
	assert.Equal(t, attempts-1, conflicts)

	persisted := fake.get(schedule.ID)
	assert.Equal(t, int64(1), persisted.Version)
	assert.Equal(t, 1, persisted.RepetitionCount)
}

func TestRecordReviewValidation(t *testing.T) {
	t.Parallel()

	fake := newFakeScheduleStore()
	userID := uuid.New()
	schedule := seedSchedule(t, fake, userID)
	service := newServiceForTest(t, fake)

	t.Run("unknown grade", func(t *testing.T) {
		t.Parallel()
		_, err := service.RecordReview(
			context.Background(), userID, schedule.ID, 0, domain.Grade("WRONG"),
		)
		assert.ErrorIs(t, err, ErrInvalidGrade)
	})

	t.Run("negative version", func(t *testing.T) {
		t.Parallel()
		_, err := service.RecordReview(
			context.Background(), userID, schedule.ID, -1, domain.GradeIncorrect,
		)
		assert.ErrorIs(t, err, ErrInvalidVersion)
	})

	t.Run("unknown schedule", func(t *testing.T) {
		t.Parallel()
		_, err := service.RecordReview(
			context.Background(), userID, uuid.New(), 0, domain.GradeIncorrect,
		)
		assert.ErrorIs(t, err, ErrScheduleNotFound)
	})

	t.Run("someone else's schedule", func(t *testing.T) {
		t.Parallel()
		_, err := service.RecordReview(
			context.Background(), uuid.New(), schedule.ID, 0, domain.GradeIncorrect,
		)
		assert.ErrorIs(t, err, ErrScheduleNotFound)
	})
}

func TestResetProgressRestoresInitialStateAndBumpsVersion(t *testing.T) {
	t.Parallel()

	fake := newFakeScheduleStore()
	userID := uuid.New()
	schedule := seedSchedule(t, fake, userID)
	service := newServiceForTest(t, fake)

	for _, grade := range []domain.Grade{
		domain.GradeCorrectPerfectRecall,
		domain.GradeCorrectPerfectRecall,
		domain.GradeCorrectWithHesitation,
	} {
		updated, err := service.RecordReview(
			context.Background(), userID, schedule.ID, fake.get(schedule.ID).Version, grade,
		)
		require.NoError(t, err)
		require.NotNil(t, updated)
	}

	reset, err := service.ResetProgress(context.Background(), userID, schedule.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.InitialEasiness, reset.Easiness)
	assert.Equal(t, domain.InitialInterval, reset.Interval)
	assert.Equal(t, 0, reset.RepetitionCount)
	assert.Nil(t, reset.LastGrade)
	assert.Nil(t, reset.LastSeenAt)
	assert.Equal(t, int64(4), reset.Version, "reset must bump the version past the three reviews")

	// A review that read the pre-reset version is now stale.
	_, err = service.RecordReview(
		context.Background(), userID, schedule.ID, 3, domain.GradeCorrectPerfectRecall,
	)
	assert.ErrorIs(t, err, ErrVersionConflict)
}

func TestResetProgressUnknownSchedule(t *testing.T) {
	t.Parallel()

	fake := newFakeScheduleStore()
	service := newServiceForTest(t, fake)

	_, err := service.ResetProgress(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}
