package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jpradel/carshare/backend/internal/domain"
	"github.com/jpradel/carshare/backend/internal/middleware"
)

// tripRequest is the JSON body for logging a completed trip.
// Timestamps are RFC 3339. distance_km may be omitted when the driver did
// not record it; it then aggregates as zero.
type tripRequest struct {
	DistanceKm float64   `json:"distance_km"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
}

// tripResponse is the JSON shape of a trip.
type tripResponse struct {
	ID         uuid.UUID `json:"id"`
	VehicleID  uuid.UUID `json:"vehicle_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	DistanceKm float64   `json:"distance_km"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateTrip handles POST /vehicles/{vehicleID}/trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathUUID(r, "vehicleID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	var req tripRequest
	if err := decodeJSON(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}

	trip := domain.Trip{
		VehicleID:  vehicleID,
		OwnerID:    middleware.UserID(r.Context()),
		DistanceKm: req.DistanceKm,
		StartedAt:  req.StartedAt,
		EndedAt:    req.EndedAt,
	}

	created, err := s.trips.Create(r.Context(), trip)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /vehicles/{vehicleID}/trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathUUID(r, "vehicleID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	trips, err := s.trips.ListByVehicle(r.Context(), vehicleID, middleware.UserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	data := make([]tripResponse, len(trips))
	for i, t := range trips {
		data[i] = tripToResponse(t)
	}
	respondJSON(w, http.StatusOK, map[string][]tripResponse{"data": data})
}

// tripToResponse converts a domain.Trip into its JSON shape.
func tripToResponse(t domain.Trip) tripResponse {
	return tripResponse{
		ID:         t.ID,
		VehicleID:  t.VehicleID,
		OwnerID:    t.OwnerID,
		DistanceKm: t.DistanceKm,
		StartedAt:  t.StartedAt,
		EndedAt:    t.EndedAt,
		CreatedAt:  t.CreatedAt,
	}
}
