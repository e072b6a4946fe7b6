// Package handler implements the HTTP handlers for the coordination engine
// API. All handlers are methods on Server; methods are split into
// domain-specific files (reservation.go, trip.go, etc.) but all share the
// same Server struct so they can access its dependencies.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jpradel/carshare/backend/internal/domain"
)

// ReservationServicer defines the business operations the reservation
// handlers depend on. Defining the interface here (in the consumer package)
// follows the Go convention: "accept interfaces, return concrete types". It
// lets handler tests inject a mock without touching the database or service
// layer.
type ReservationServicer interface {
	Create(ctx context.Context, res domain.Reservation) (domain.Reservation, error)
	ListByCreator(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Reservation, int64, error)
	Update(ctx context.Context, requesterID uuid.UUID, res domain.Reservation) (domain.Reservation, error)
	Delete(ctx context.Context, requesterID, id uuid.UUID) error
}

// TripServicer defines the business operations the trip handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	ListByVehicle(ctx context.Context, vehicleID, requesterID uuid.UUID) ([]domain.Trip, error)
}

// RefuelingServicer defines the business operations the refueling handlers
// depend on.
type RefuelingServicer interface {
	Create(ctx context.Context, ref domain.Refueling) (domain.Refueling, error)
	ListByVehicle(ctx context.Context, vehicleID, requesterID uuid.UUID) ([]domain.Refueling, error)
}

// SettlementServicer defines the settlement operation the handler depends on.
type SettlementServicer interface {
	Settle(ctx context.Context, vehicleID uuid.UUID) (domain.Settlement, error)
}

// Server holds the service dependencies for all API endpoints.
// Wire it in main.go via Routes().
type Server struct {
	reservations ReservationServicer
	trips        TripServicer
	refuelings   RefuelingServicer
	settlements  SettlementServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(reservations ReservationServicer, trips TripServicer, refuelings RefuelingServicer, settlements SettlementServicer) *Server {
	return &Server{
		reservations: reservations,
		trips:        trips,
		refuelings:   refuelings,
		settlements:  settlements,
	}
}

// Routes returns the authenticated API route tree. The caller mounts it
// behind the auth middleware; public endpoints (health, metrics, the OpenAPI
// document) are wired separately in main.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/vehicles/{vehicleID}", func(r chi.Router) {
		r.Post("/reservations", s.CreateReservation)
		r.Post("/trips", s.CreateTrip)
		r.Get("/trips", s.ListTrips)
		r.Post("/refuelings", s.CreateRefueling)
		r.Get("/refuelings", s.ListRefuelings)
		r.Get("/settlement", s.SettleVehicle)
	})

	r.Get("/reservations", s.ListReservations)
	r.Put("/reservations/{reservationID}", s.UpdateReservation)
	r.Delete("/reservations/{reservationID}", s.DeleteReservation)

	return r
}

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields so
// typos in field names surface as errors instead of silently defaulting.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// pathUUID parses a UUID from a chi URL parameter.
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return id, nil
}

// queryInt parses an optional positive integer query parameter, returning
// nil when absent or malformed.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	var n int
	if _, err := fmt.Sscanf(raw, "%d", &n); err != nil {
		return nil
	}
	return &n
}
