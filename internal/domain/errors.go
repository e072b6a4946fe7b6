package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrInvalidRange is returned by service functions when a date or time range
// is logically inconsistent (end before start, or an empty time window).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrInvalidRange = errors.New("invalid range")

// ErrPastDate is returned when a reservation's start date precedes the
// current calendar date. Retroactive bookings are never admitted.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrPastDate = errors.New("past date")

// ErrForbidden is returned when the caller lacks the required relationship:
// not a co-owner of the vehicle, or not the creator of the reservation being
// modified. Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a proposed reservation interval overlaps an
// existing reservation on the same vehicle. The wrapped message identifies
// the clashing reservation. Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrValidation is returned by service functions when input fails business
// rule validation not covered by the range/date errors above (e.g. missing
// required field, negative distance). Handlers should map this to HTTP 422.
var ErrValidation = errors.New("validation error")
