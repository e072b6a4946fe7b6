package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jpradel/carshare/backend/internal/domain"
	"github.com/jpradel/carshare/backend/internal/middleware"
)

// reservationRequest is the JSON body for creating or updating a reservation.
// Dates are "YYYY-MM-DD"; times are "HH:MM" on a 24-hour clock.
type reservationRequest struct {
	DateStart   string           `json:"date_start"`
	DateEnd     string           `json:"date_end"`
	TimeStart   domain.TimeOfDay `json:"time_start"`
	TimeEnd     domain.TimeOfDay `json:"time_end"`
	Motive      string           `json:"motive"`
	Description string           `json:"description"`
}

// reservationResponse is the JSON shape of a reservation.
type reservationResponse struct {
	ID          uuid.UUID `json:"id"`
	VehicleID   uuid.UUID `json:"vehicle_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	DateStart   string    `json:"date_start"`
	DateEnd     string    `json:"date_end"`
	TimeStart   string    `json:"time_start"`
	TimeEnd     string    `json:"time_end"`
	Motive      string    `json:"motive"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateReservation handles POST /vehicles/{vehicleID}/reservations.
func (s *Server) CreateReservation(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathUUID(r, "vehicleID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	var req reservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}

	res, err := requestToReservation(req)
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}
	res.VehicleID = vehicleID
	res.OwnerID = middleware.UserID(r.Context())

	created, err := s.reservations.Create(r.Context(), res)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, reservationToResponse(created))
}

// ListReservations handles GET /reservations.
// It returns the requester's own reservations, most recent date_start first.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20,
// max=100).
func (s *Server) ListReservations(w http.ResponseWriter, r *http.Request) {
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))

	reservations, total, err := s.reservations.ListByCreator(r.Context(), middleware.UserID(r.Context()), params)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	data := make([]reservationResponse, len(reservations))
	for i, res := range reservations {
		data[i] = reservationToResponse(res)
	}
	respondJSON(w, http.StatusOK, listResponse[reservationResponse]{
		Data: data,
		Pagination: pagination{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	})
}

// UpdateReservation handles PUT /reservations/{reservationID}.
func (s *Server) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "reservationID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	var req reservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}

	res, err := requestToReservation(req)
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}
	res.ID = id

	updated, err := s.reservations.Update(r.Context(), middleware.UserID(r.Context()), res)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, reservationToResponse(updated))
}

// DeleteReservation handles DELETE /reservations/{reservationID}.
func (s *Server) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "reservationID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	if err := s.reservations.Delete(r.Context(), middleware.UserID(r.Context()), id); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// listResponse is the envelope for paged collections.
type listResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination pagination `json:"pagination"`
}

type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// requestToReservation converts a request body into a domain.Reservation.
// Vehicle, owner, and id are filled in by the caller.
func requestToReservation(req reservationRequest) (domain.Reservation, error) {
	dateStart, err := parseDate(req.DateStart, "date_start")
	if err != nil {
		return domain.Reservation{}, err
	}
	dateEnd, err := parseDate(req.DateEnd, "date_end")
	if err != nil {
		return domain.Reservation{}, err
	}

	return domain.Reservation{
		DateStart:   dateStart,
		DateEnd:     dateEnd,
		TimeStart:   req.TimeStart,
		TimeEnd:     req.TimeEnd,
		Motive:      req.Motive,
		Description: req.Description,
	}, nil
}

// reservationToResponse converts a domain.Reservation into its JSON shape.
func reservationToResponse(res domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:          res.ID,
		VehicleID:   res.VehicleID,
		OwnerID:     res.OwnerID,
		DateStart:   res.DateStart.Format(dateLayout),
		DateEnd:     res.DateEnd.Format(dateLayout),
		TimeStart:   res.TimeStart.String(),
		TimeEnd:     res.TimeEnd.String(),
		Motive:      res.Motive,
		Description: res.Description,
		Status:      string(res.Status),
		CreatedAt:   res.CreatedAt,
		UpdatedAt:   res.UpdatedAt,
	}
}

const dateLayout = "2006-01-02"

// parseDate parses a required "YYYY-MM-DD" field.
func parseDate(s, field string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: expected YYYY-MM-DD", field)
	}
	return t, nil
}
