package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jpradel/carshare/backend/internal/domain"
	"github.com/jpradel/carshare/backend/internal/repo"
)

// TripService implements business logic for Trip operations. Trips are
// append-only: a co-owner logs a completed use of the vehicle and the record
// is never changed afterwards.
type TripService struct {
	trips   repo.TripRepo
	members repo.MembershipRepo
}

// NewTripService constructs a TripService backed by the provided repos.
func NewTripService(trips repo.TripRepo, members repo.MembershipRepo) *TripService {
	return &TripService{trips: trips, members: members}
}

// Create validates and persists a completed trip.
// Returns domain.ErrValidation for a negative distance or an end before the
// start, domain.ErrForbidden when the requester is not a co-owner.
func (s *TripService) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if trip.DistanceKm < 0 {
		return domain.Trip{}, fmt.Errorf("%w: distance_km must not be negative", domain.ErrValidation)
	}
	if trip.EndedAt.Before(trip.StartedAt) {
		return domain.Trip{}, fmt.Errorf("%w: ended_at must not be before started_at", domain.ErrValidation)
	}
	if err := s.requireCoOwner(ctx, trip.VehicleID, trip.OwnerID); err != nil {
		return domain.Trip{}, err
	}

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// ListByVehicle returns a vehicle's full trip history, oldest first.
// Only co-owners may read a vehicle's history.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListByVehicle(ctx context.Context, vehicleID, requesterID uuid.UUID) ([]domain.Trip, error) {
	if err := s.requireCoOwner(ctx, vehicleID, requesterID); err != nil {
		return nil, err
	}

	trips, err := s.trips.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListByVehicle: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

func (s *TripService) requireCoOwner(ctx context.Context, vehicleID, userID uuid.UUID) error {
	ok, err := s.members.IsCoOwner(ctx, vehicleID, userID)
	if err != nil {
		return fmt.Errorf("service.TripService: membership lookup: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: requester is not a co-owner of the vehicle", domain.ErrForbidden)
	}
	return nil
}
