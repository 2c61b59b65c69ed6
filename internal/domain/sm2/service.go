// Package sm2 implements the SM-2 spaced-repetition algorithm: the pure
// state transition applied on every review and the calendar-day due
// predicate that decides when a schedule is presented again.
package sm2

import (
	"errors"
	"time"

	"github.com/rowanfell/mnemo-api/internal/domain"
)

// Common errors
var (
	ErrNilSchedule  = errors.New("schedule cannot be nil")
	ErrInvalidGrade = errors.New("invalid review grade")
)

// Service defines the interface for SM-2 scheduling operations.
// Both methods are pure with respect to their inputs, which keeps the
// review recorder free to call them inside a transaction.
type Service interface {
	// NextState computes the schedule state resulting from a review.
	NextState(schedule *domain.Schedule, grade domain.Grade, now time.Time) (*domain.Schedule, error)

	// IsDue reports whether the schedule should be presented at now.
	IsDue(schedule *domain.Schedule, now time.Time) bool
}

type defaultService struct {
	params *Params
}

// NewDefaultService creates an SM-2 service with default parameters.
func NewDefaultService() Service {
	return &defaultService{params: NewDefaultParams()}
}

// NewServiceWithParams creates an SM-2 service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{params: params}
}

// NextState implements the Service interface.
func (s *defaultService) NextState(
	schedule *domain.Schedule,
	grade domain.Grade,
	now time.Time,
) (*domain.Schedule, error) {
	if schedule == nil {
		return nil, ErrNilSchedule
	}

	if !grade.Valid() {
		return nil, ErrInvalidGrade
	}

	return NextState(schedule, grade, now, s.params), nil
}

// IsDue implements the Service interface.
func (s *defaultService) IsDue(schedule *domain.Schedule, now time.Time) bool {
	if schedule == nil {
		return false
	}

	return IsDue(schedule, now, s.params)
}
