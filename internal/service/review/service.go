// Package review implements the review recorder: the only component that
// mutates schedule state, protected by optimistic concurrency so that two
// concurrent grade submissions can never silently overwrite each other.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rowanfell/mnemo-api/internal/domain"
)

// Common error types for ReviewService
var (
	// ErrScheduleNotFound indicates that the schedule does not exist or
	// is not visible to the caller.
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrVersionConflict indicates that the caller's version is stale:
	// another write landed after the caller read the schedule. The
	// caller should refetch and let the user retry; the service never
	// merges conflicting writes.
	ErrVersionConflict = errors.New("schedule version conflict")

	// ErrInvalidGrade indicates the submitted grade is not one of the
	// three recognized values.
	ErrInvalidGrade = errors.New("invalid review grade")

	// ErrInvalidVersion indicates the submitted version is negative.
	ErrInvalidVersion = errors.New("invalid schedule version")
)

// ReviewService records review outcomes against schedules.
type ReviewService interface {
	// RecordReview applies the grade to the schedule's persisted state
	// and advances it one review, provided the caller's expectedVersion
	// still matches the persisted version. On success the returned
	// schedule carries the new state and a version exactly one higher.
	//
	// Returns ErrVersionConflict if the persisted version differs from
	// expectedVersion, ErrScheduleNotFound if the schedule does not
	// exist or belongs to another user, ErrInvalidGrade or
	// ErrInvalidVersion for malformed input.
	RecordReview(
		ctx context.Context,
		userID uuid.UUID,
		scheduleID uuid.UUID,
		expectedVersion int64,
		grade domain.Grade,
	) (*domain.Schedule, error)

	// ResetProgress unconditionally returns the schedule to its initial
	// state. It takes no expected version because it is a deliberate
	// destructive override, but it still bumps the version so that
	// reviews in flight against the pre-reset state are rejected.
	//
	// Returns ErrScheduleNotFound if the schedule does not exist or
	// belongs to another user.
	ResetProgress(
		ctx context.Context,
		userID uuid.UUID,
		scheduleID uuid.UUID,
	) (*domain.Schedule, error)
}

// ServiceError wraps errors from the review service with the operation
// that failed, so consumers can differentiate using errors.As rather
// than string matching.
type ServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
