package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Schedule-specific validation errors
var (
	// ErrScheduleIDEmpty is returned when a schedule ID is empty or nil.
	ErrScheduleIDEmpty = errors.New("schedule ID cannot be empty")

	// ErrScheduleCardIDEmpty is returned when a schedule's card ID is empty or nil.
	ErrScheduleCardIDEmpty = errors.New("schedule card ID cannot be empty")

	// ErrInvalidInterval is returned when an interval is below one day.
	ErrInvalidInterval = errors.New("interval must be at least 1 day")

	// ErrInvalidEasiness is returned when an easiness factor is below the floor.
	ErrInvalidEasiness = errors.New("easiness must be at least 1.3")

	// ErrInvalidRepetitionCount is returned when a repetition count is negative.
	ErrInvalidRepetitionCount = errors.New("repetition count cannot be negative")

	// ErrInvalidVersion is returned when a version is negative.
	ErrInvalidVersion = errors.New("version cannot be negative")
)

// Initial scheduling values for a schedule that has never been studied.
const (
	InitialEasiness = 2.5
	MinEasiness     = 1.3
	InitialInterval = 1
)

// Schedule is the unit of spaced-repetition state. Exactly one exists per
// (card, direction) pair and each evolves independently. The Version field
// is the optimistic-concurrency token: every mutating write increments it
// by one, and writers must present the version they read or their write is
// rejected with a conflict.
type Schedule struct {
	ID              uuid.UUID  `json:"id"`
	CardID          uuid.UUID  `json:"card_id"`
	Direction       Direction  `json:"direction"`
	Easiness        float64    `json:"easiness"`
	Interval        int        `json:"interval"`
	RepetitionCount int        `json:"repetition_count"`
	LastGrade       *Grade     `json:"last_grade,omitempty"`
	LastSeenAt      *time.Time `json:"last_seen_at,omitempty"`
	Version         int64      `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewSchedule creates a Schedule in its initial state for the given card
// and direction. A nil LastSeenAt marks the schedule as never studied,
// which makes it immediately due. Returns an error if validation fails.
func NewSchedule(cardID uuid.UUID, direction Direction) (*Schedule, error) {
	now := time.Now().UTC()
	schedule := &Schedule{
		ID:              uuid.New(),
		CardID:          cardID,
		Direction:       direction,
		Easiness:        InitialEasiness,
		Interval:        InitialInterval,
		RepetitionCount: 0,
		LastGrade:       nil,
		LastSeenAt:      nil,
		Version:         0,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := schedule.Validate(); err != nil {
		return nil, err
	}

	return schedule, nil
}

// Validate checks if the Schedule has valid data.
func (s *Schedule) Validate() error {
	if s.ID == uuid.Nil {
		return ErrScheduleIDEmpty
	}

	if s.CardID == uuid.Nil {
		return ErrScheduleCardIDEmpty
	}

	if !s.Direction.Valid() {
		return ErrInvalidDirection
	}

	if s.Interval < 1 {
		return ErrInvalidInterval
	}

	if s.Easiness < MinEasiness {
		return ErrInvalidEasiness
	}

	if s.RepetitionCount < 0 {
		return ErrInvalidRepetitionCount
	}

	if s.Version < 0 {
		return ErrInvalidVersion
	}

	if s.LastGrade != nil && !s.LastGrade.Valid() {
		return ErrInvalidGrade
	}

	return nil
}

// Studied reports whether the schedule has ever been reviewed.
func (s *Schedule) Studied() bool {
	return s.LastSeenAt != nil
}

// Clone returns a deep copy of the schedule. The sm2 package uses it to
// derive the next state without mutating the persisted one.
func (s *Schedule) Clone() *Schedule {
	clone := *s
	if s.LastGrade != nil {
		g := *s.LastGrade
		clone.LastGrade = &g
	}
	if s.LastSeenAt != nil {
		t := *s.LastSeenAt
		clone.LastSeenAt = &t
	}
	return &clone
}
