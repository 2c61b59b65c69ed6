package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rowanfell/mnemo-api/internal/api/shared"
	"github.com/rowanfell/mnemo-api/internal/domain"
	"github.com/rowanfell/mnemo-api/internal/service/content"
)

// ContentHandler serves topic, deck, and card management.
type ContentHandler struct {
	contentService content.ContentService
	validator      *validator.Validate
	logger         *slog.Logger
}

// CreateTopicRequest is the payload for POST /topics.
type CreateTopicRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// CreateDeckRequest is the payload for POST /decks.
type CreateDeckRequest struct {
	TopicID       string `json:"topic_id" validate:"required,uuid"`
	Name          string `json:"name" validate:"required,max=200"`
	Bidirectional bool   `json:"bidirectional"`
	FrontLabel    string `json:"front_label" validate:"max=100"`
	BackLabel     string `json:"back_label" validate:"max=100"`
}

// CreateCardRequest is the payload for POST /cards.
type CreateCardRequest struct {
	DeckID   string   `json:"deck_id" validate:"required,uuid"`
	Front    string   `json:"front" validate:"required"`
	Back     string   `json:"back" validate:"required"`
	Note     string   `json:"note"`
	Priority string   `json:"priority"`
	Tags     []string `json:"tags"`
}

// UpdateDeckRequest is the payload for PATCH /decks/{id}. Only the
// bidirectional flag is mutable through this endpoint.
type UpdateDeckRequest struct {
	Bidirectional *bool `json:"bidirectional" validate:"required"`
}

// UpdateDeckResponse reports the outcome of a bidirectionality toggle.
type UpdateDeckResponse struct {
	DeckID        string `json:"deck_id"`
	Bidirectional bool   `json:"bidirectional"`
	Backfilled    int    `json:"backfilled"`
}

// NewContentHandler creates a ContentHandler. Panics on nil dependencies.
func NewContentHandler(contentService content.ContentService) *ContentHandler {
	if contentService == nil {
		panic("contentService cannot be nil")
	}
	return &ContentHandler{
		contentService: contentService,
		validator:      validator.New(),
		logger:         slog.Default().With(slog.String("component", "content_handler")),
	}
}

// CreateTopic handles POST /topics.
func (h *ContentHandler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	var req CreateTopicRequest
	if ok := h.decodeAndValidate(w, r, &req); !ok {
		return
	}

	topic, err := h.contentService.CreateTopic(r.Context(), userID, req.Name)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, topic)
}

// CreateDeck handles POST /decks.
func (h *ContentHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	var req CreateDeckRequest
	if ok := h.decodeAndValidate(w, r, &req); !ok {
		return
	}
	topicID, _ := uuid.Parse(req.TopicID)

	deck, err := h.contentService.CreateDeck(r.Context(), userID, content.NewDeckInput{
		TopicID:       topicID,
		Name:          req.Name,
		Bidirectional: req.Bidirectional,
		FrontLabel:    req.FrontLabel,
		BackLabel:     req.BackLabel,
	})
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, deck)
}

// CreateCard handles POST /cards. Creating a card also creates its
// schedules, so the card is immediately eligible for study.
func (h *ContentHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}

	var req CreateCardRequest
	if ok := h.decodeAndValidate(w, r, &req); !ok {
		return
	}
	deckID, _ := uuid.Parse(req.DeckID)

	priority := domain.Priority(req.Priority)
	if req.Priority != "" && !priority.Valid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.CodeValidationError, "Invalid priority")
		return
	}

	card, err := h.contentService.CreateCard(r.Context(), userID, content.NewCardInput{
		DeckID:   deckID,
		Front:    req.Front,
		Back:     req.Back,
		Note:     req.Note,
		Priority: priority,
		Tags:     req.Tags,
	})
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

// UpdateDeck handles PATCH /decks/{id}.
func (h *ContentHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}
	deckID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateDeckRequest
	if ok := h.decodeAndValidate(w, r, &req); !ok {
		return
	}

	backfilled, err := h.contentService.SetDeckBidirectional(r.Context(), userID, deckID, *req.Bidirectional)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UpdateDeckResponse{
		DeckID:        deckID.String(),
		Bidirectional: *req.Bidirectional,
		Backfilled:    backfilled,
	})
}

// DeleteCard handles DELETE /cards/{id}.
func (h *ContentHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(w, r)
	if !ok {
		return
	}
	cardID, ok := getPathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.contentService.DeleteCard(r.Context(), userID, cardID); err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ContentHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.CodeValidationError, "Invalid request body")
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.CodeValidationError, "Invalid request fields")
		return false
	}
	return true
}
