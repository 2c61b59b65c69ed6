package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/rowanfell/mnemo-api/internal/api/shared"
	"github.com/rowanfell/mnemo-api/internal/service/stats"
)

// StatsHandler serves the dashboard rollup.
type StatsHandler struct {
	statsService stats.StatsService
	logger       *slog.Logger
}

// NewStatsHandler creates a StatsHandler. Panics on nil dependencies.
func NewStatsHandler(statsService stats.StatsService) *StatsHandler {
	if statsService == nil {
		panic("statsService cannot be nil")
	}
	return &StatsHandler{
		statsService: statsService,
		logger:       slog.Default().With(slog.String("component", "stats_handler")),
	}
}

// Summary handles GET /stats with an optional topic_id query parameter.
func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
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

	summary, err := h.statsService.Summarize(r.Context(), userID, topicID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
