package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rowanfell/mnemo-api/internal/api/shared"
	"github.com/rowanfell/mnemo-api/internal/service/study"
)

// StudyHandler serves the next-item endpoint.
type StudyHandler struct {
	studyService study.StudyService
	logger       *slog.Logger
}

// NewStudyHandler creates a StudyHandler. Panics on nil dependencies.
func NewStudyHandler(studyService study.StudyService) *StudyHandler {
	if studyService == nil {
		panic("studyService cannot be nil")
	}
	return &StudyHandler{
		studyService: studyService,
		logger:       slog.Default().With(slog.String("component", "study_handler")),
	}
}

// NextItem handles GET /study/next. The scope narrows through optional
// query parameters: topic_id (single UUID) and deck_ids (comma-separated
// UUIDs). A 204 means nothing in the scope is due right now.
func (h *StudyHandler) NextItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	topicID := uuid.Nil
	if raw := r.URL.Query().Get("topic_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, shared.CodeValidationError, "Invalid topic_id format")
			return
		}
		topicID = parsed
	}

	var deckIDs []uuid.UUID
	if raw := r.URL.Query().Get("deck_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			parsed, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				shared.RespondWithError(w, r, http.StatusBadRequest, shared.CodeValidationError, "Invalid deck_ids format")
				return
			}
			deckIDs = append(deckIDs, parsed)
		}
	}

	item, err := h.studyService.NextItem(r.Context(), userID, topicID, deckIDs)
	if err != nil {
		if errors.Is(err, study.ErrNothingDue) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, item)
}
