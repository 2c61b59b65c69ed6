package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rowanfell/mnemo-api/internal/domain"
	"github.com/rowanfell/mnemo-api/internal/domain/sm2"
	"github.com/rowanfell/mnemo-api/internal/platform/logger"
	"github.com/rowanfell/mnemo-api/internal/store"
)

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	db            *sql.DB
	scheduleStore store.ScheduleStore
	sm2Service    sm2.Service
	logger        *slog.Logger
	now           func() time.Time
}

// NewReviewService creates a new ReviewService implementation.
// db may be nil, in which case operations run directly against the
// schedule store without an enclosing transaction; the store must then
// provide its own atomicity (used by in-memory stores in tests).
func NewReviewService(
	db *sql.DB,
	scheduleStore store.ScheduleStore,
	sm2Service sm2.Service,
	log *slog.Logger,
) ReviewService {
	if scheduleStore == nil {
		panic("scheduleStore cannot be nil")
	}
	if sm2Service == nil {
		panic("sm2Service cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &reviewServiceImpl{
		db:            db,
		scheduleStore: scheduleStore,
		sm2Service:    sm2Service,
		logger:        log.With(slog.String("component", "review_service")),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// RecordReview implements ReviewService.RecordReview.
//
// The load-check-write sequence runs in one transaction, and the write is
// a compare-and-swap on the version column. The next state is always
// computed from the persisted schedule, never from anything the caller
// supplied beyond the grade and the version token.
func (s *reviewServiceImpl) RecordReview(
	ctx context.Context,
	userID uuid.UUID,
	scheduleID uuid.UUID,
	expectedVersion int64,
	grade domain.Grade,
) (*domain.Schedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !grade.Valid() {
		return nil, ErrInvalidGrade
	}
	if expectedVersion < 0 {
		return nil, ErrInvalidVersion
	}

	var updated *domain.Schedule
	err := s.runInTransaction(ctx, func(schedules store.ScheduleStore) error {
		current, err := schedules.GetForUser(ctx, userID, scheduleID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrScheduleNotFound
			}
			return fmt.Errorf("failed to load schedule: %w", err)
		}

		if current.Version != expectedVersion {
			log.Debug("rejecting stale review",
				slog.String("schedule_id", scheduleID.String()),
				slog.Int64("expected_version", expectedVersion),
				slog.Int64("current_version", current.Version))
			return fmt.Errorf("%w: expected version %d, found %d",
				ErrVersionConflict, expectedVersion, current.Version)
		}

		next, err := s.sm2Service.NextState(current, grade, s.now())
		if err != nil {
			return fmt.Errorf("failed to compute next state: %w", err)
		}
		next.Version = current.Version + 1

		if err := schedules.UpdateVersioned(ctx, next, current.Version); err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				return fmt.Errorf("%w: %v", ErrVersionConflict, err)
			}
			if errors.Is(err, store.ErrNotFound) {
				return ErrScheduleNotFound
			}
			return fmt.Errorf("failed to write schedule: %w", err)
		}

		updated = next
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrVersionConflict) ||
			errors.Is(err, ErrScheduleNotFound) {
			return nil, err
		}
		log.Error("failed to record review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("schedule_id", scheduleID.String()))
		return nil, &ServiceError{Operation: "record_review", Message: "failed to record review", Err: err}
	}

	log.Debug("recorded review",
		slog.String("schedule_id", scheduleID.String()),
		slog.String("grade", string(grade)),
		slog.Float64("easiness", updated.Easiness),
		slog.Int("interval", updated.Interval),
		slog.Int64("version", updated.Version))

	return updated, nil
}

// ResetProgress implements ReviewService.ResetProgress.
func (s *reviewServiceImpl) ResetProgress(
	ctx context.Context,
	userID uuid.UUID,
	scheduleID uuid.UUID,
) (*domain.Schedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var reset *domain.Schedule
	err := s.runInTransaction(ctx, func(schedules store.ScheduleStore) error {
		// Ownership check before the unconditional write.
		if _, err := schedules.GetForUser(ctx, userID, scheduleID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrScheduleNotFound
			}
			return fmt.Errorf("failed to load schedule: %w", err)
		}

		schedule, err := schedules.Reset(ctx, scheduleID, s.now())
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrScheduleNotFound
			}
			return fmt.Errorf("failed to reset schedule: %w", err)
		}

		reset = schedule
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrScheduleNotFound) {
			return nil, err
		}
		log.Error("failed to reset schedule",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("schedule_id", scheduleID.String()))
		return nil, &ServiceError{Operation: "reset_progress", Message: "failed to reset schedule", Err: err}
	}

	log.Debug("reset schedule",
		slog.String("schedule_id", scheduleID.String()),
		slog.Int64("version", reset.Version))

	return reset, nil
}

// runInTransaction executes fn against a transaction-bound schedule store
// when a database handle is present, or directly otherwise.
func (s *reviewServiceImpl) runInTransaction(
	ctx context.Context,
	fn func(schedules store.ScheduleStore) error,
) error {
	if s.db == nil {
		return fn(s.scheduleStore)
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return fn(s.scheduleStore.WithTx(tx))
	})
}
