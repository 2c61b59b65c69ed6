// Package api wires HTTP handlers to the scheduling services.
package api

import (
	"errors"
	"net/http"

	"github.com/rowanfell/mnemo-api/internal/api/shared"
	"github.com/rowanfell/mnemo-api/internal/domain"
	"github.com/rowanfell/mnemo-api/internal/service/auth"
	"github.com/rowanfell/mnemo-api/internal/service/content"
	"github.com/rowanfell/mnemo-api/internal/service/review"
	"github.com/rowanfell/mnemo-api/internal/store"
)

// MapErrorToStatusCode translates a service error into the HTTP status
// and machine-readable code the response envelope carries.
func MapErrorToStatusCode(err error) (int, string) {
	switch {
	case errors.Is(err, review.ErrVersionConflict):
		return http.StatusConflict, shared.CodeVersionConflict

	case errors.Is(err, review.ErrScheduleNotFound),
		errors.Is(err, content.ErrTopicNotFound),
		errors.Is(err, content.ErrDeckNotFound),
		errors.Is(err, content.ErrCardNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, shared.CodeNotFound

	case errors.Is(err, review.ErrInvalidGrade),
		errors.Is(err, review.ErrInvalidVersion),
		errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, shared.CodeValidationError

	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict, shared.CodeEmailExists

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized, shared.CodeUnauthorized

	default:
		return http.StatusInternalServerError, shared.CodeInternal
	}
}

// RespondWithMappedError maps err and writes the error envelope. The
// client-facing message comes from the mapping, never from err itself,
// so internal detail stays out of responses.
func RespondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := MapErrorToStatusCode(err)

	message := messageForCode(code)
	var validationErr *domain.ValidationError
	if code == shared.CodeValidationError && errors.As(err, &validationErr) {
		message = validationErr.Error()
	}

	shared.RespondWithErrorAndLog(w, r, status, code, message, err)
}

func messageForCode(code string) string {
	switch code {
	case shared.CodeVersionConflict:
		return "Schedule was modified by another request; fetch the latest version and retry"
	case shared.CodeNotFound:
		return "Resource not found"
	case shared.CodeValidationError:
		return "Invalid request"
	case shared.CodeEmailExists:
		return "Email address is already registered"
	case shared.CodeUnauthorized:
		return "Authentication failed"
	default:
		return "Internal server error"
	}
}
