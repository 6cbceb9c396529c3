package handlers

import (
	"errors"
	"net/http"

	"github.com/Fork0n/open-hoot/internal/services"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// statusFor maps service errors onto HTTP statuses. Unrecognized errors are
// treated as internal.
func statusFor(err error) int {
	var fetchErr *services.FetchError

	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidCode),
		errors.Is(err, services.ErrInvalidOption),
		errors.Is(err, services.ErrInvalidQuiz):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrAlreadyStarted),
		errors.Is(err, services.ErrNotAccepting),
		errors.Is(err, services.ErrIllegalTransition),
		errors.Is(err, services.ErrSessionFull):
		return http.StatusConflict
	case errors.Is(err, services.ErrAllocationExhausted),
		errors.Is(err, services.ErrStoreContention):
		return http.StatusServiceUnavailable
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
