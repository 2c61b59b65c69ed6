package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rowanfell/mnemo-api/internal/api/shared"
	"github.com/rowanfell/mnemo-api/internal/domain"
	"github.com/rowanfell/mnemo-api/internal/service/review"
)

// ScheduleHandler serves review recording and progress reset.
type ScheduleHandler struct {
	reviewService review.ReviewService
	logger        *slog.Logger
}

// ReviewRequest is the payload for PUT /schedules/{id}.
type ReviewRequest struct {
	Grade   string `json:"grade"`
	Version int64  `json:"version"`
}

// ScheduleResponse is the schedule state returned after a write.
type ScheduleResponse struct {
	ID              string  `json:"id"`
	CardID          string  `json:"card_id"`
	Direction       string  `json:"direction"`
	Easiness        float64 `json:"easiness"`
	Interval        int     `json:"interval"`
	RepetitionCount int     `json:"repetition_count"`
	LastGrade       *string `json:"last_grade"`
	LastSeenAt      *string `json:"last_seen_at"`
	Version         int64   `json:"version"`
}

// NewScheduleHandler creates a ScheduleHandler. Panics on nil dependencies.
func NewScheduleHandler(reviewService review.ReviewService) *ScheduleHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil")
	}
	return &ScheduleHandler{
		reviewService: reviewService,
		logger:        slog.Default().With(slog.String("component", "schedule_handler")),
	}
}

// RecordReview handles PUT /schedules/{id}. The body carries the grade
// and the version the client last saw; a stale version yields 409 and
// the client should refetch before retrying.
func (h *ScheduleHandler) RecordReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}
	scheduleID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.CodeValidationError, "Invalid request body")
		return
	}

	grade, err := domain.ParseGrade(req.Grade)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.CodeValidationError, "Invalid grade")
		return
	}

	schedule, err := h.reviewService.RecordReview(r.Context(), userID, scheduleID, req.Version, grade)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toScheduleResponse(schedule))
}

// ResetProgress handles DELETE /schedules/{id}. The schedule survives
// with its history wiped; only card deletion removes schedules.
func (h *ScheduleHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}
	scheduleID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	schedule, err := h.reviewService.ResetProgress(r.Context(), userID, scheduleID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, toScheduleResponse(schedule))
}

func toScheduleResponse(s *domain.Schedule) ScheduleResponse {
	resp := ScheduleResponse{
		ID:              s.ID.String(),
		CardID:          s.CardID.String(),
		Direction:       string(s.Direction),
		Easiness:        s.Easiness,
		Interval:        s.Interval,
		RepetitionCount: s.RepetitionCount,
		Version:         s.Version,
	}
	if s.LastGrade != nil {
		grade := string(*s.LastGrade)
		resp.LastGrade = &grade
	}
	if s.LastSeenAt != nil {
		seen := s.LastSeenAt.UTC().Format(time.RFC3339)
		resp.LastSeenAt = &seen
	}
	return resp
}
