package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rowanfell/mnemo-api/internal/api/shared"
)

// getUserIDFromContext extracts the authenticated user ID the auth
// middleware placed on the context. A missing or malformed value means
// the route was mounted without the middleware, so respond 401 and
// report false.
func getUserIDFromContext(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, shared.CodeUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

// getPathUUID parses the named chi URL parameter as a UUID, responding
// with a validation error when it is absent or malformed.
func getPathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, shared.CodeValidationError, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
