package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jpradel/carshare/backend/internal/domain"
)

// ErrorResponse is the JSON body for every error the API returns.
// Callers branch on the stable Code; Message is for humans.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine-readable code and human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeDomainError maps a service-layer error onto the HTTP response.
// Each failure kind gets a distinct, stable code so clients can branch on it
// (e.g. offer a calendar view on "conflict", nothing on "forbidden").
// Unrecognized errors become an opaque 500 — internals never leak to callers.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorBody("not_found", reasonOf(err, domain.ErrNotFound)))
	case errors.Is(err, domain.ErrForbidden):
		respondJSON(w, http.StatusForbidden, errorBody("forbidden", reasonOf(err, domain.ErrForbidden)))
	case errors.Is(err, domain.ErrConflict):
		respondJSON(w, http.StatusConflict, errorBody("conflict", reasonOf(err, domain.ErrConflict)))
	case errors.Is(err, domain.ErrInvalidRange):
		respondJSON(w, http.StatusUnprocessableEntity, errorBody("invalid_range", reasonOf(err, domain.ErrInvalidRange)))
	case errors.Is(err, domain.ErrPastDate):
		respondJSON(w, http.StatusUnprocessableEntity, errorBody("past_date", reasonOf(err, domain.ErrPastDate)))
	case errors.Is(err, domain.ErrValidation):
		respondJSON(w, http.StatusUnprocessableEntity, errorBody("validation_error", reasonOf(err, domain.ErrValidation)))
	default:
		slog.Error("internal error", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody("internal_error", "internal server error"))
	}
}

// writeRequestError rejects a request before it reaches the service layer
// (malformed body, bad UUID in the path, unparsable date).
func writeRequestError(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusUnprocessableEntity, errorBody("validation_error", message))
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// reasonOf extracts the human-readable detail from a wrapped sentinel error.
// e.g. "service.ReservationService.Create: conflict: interval overlaps
// reservation 1234" with sentinel ErrConflict yields "interval overlaps
// reservation 1234". When the error carries no detail beyond the sentinel,
// the sentinel text itself is returned.
func reasonOf(err error, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}
