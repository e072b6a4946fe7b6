package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jpradel/carshare/backend/internal/domain"
	"github.com/jpradel/carshare/backend/internal/repo"
)

// RefuelingService implements business logic for Refueling operations.
// Refuelings are append-only. The reported total price is trusted as the
// amount actually paid; it is never checked against volume × unit price.
type RefuelingService struct {
	refuelings repo.RefuelingRepo
	members    repo.MembershipRepo
}

// NewRefuelingService constructs a RefuelingService backed by the provided
// repos.
func NewRefuelingService(refuelings repo.RefuelingRepo, members repo.MembershipRepo) *RefuelingService {
	return &RefuelingService{refuelings: refuelings, members: members}
}

// Create validates and persists a fuel purchase.
// Returns domain.ErrValidation for negative amounts, domain.ErrForbidden
// when the payer is not a co-owner of the vehicle.
func (s *RefuelingService) Create(ctx context.Context, ref domain.Refueling) (domain.Refueling, error) {
	if ref.VolumeLiters < 0 {
		return domain.Refueling{}, fmt.Errorf("%w: volume_liters must not be negative", domain.ErrValidation)
	}
	if ref.UnitPrice < 0 {
		return domain.Refueling{}, fmt.Errorf("%w: unit_price must not be negative", domain.ErrValidation)
	}
	if ref.TotalPrice < 0 {
		return domain.Refueling{}, fmt.Errorf("%w: total_price must not be negative", domain.ErrValidation)
	}
	if err := s.requireCoOwner(ctx, ref.VehicleID, ref.OwnerID); err != nil {
		return domain.Refueling{}, err
	}

	created, err := s.refuelings.Create(ctx, ref)
	if err != nil {
		return domain.Refueling{}, fmt.Errorf("service.RefuelingService.Create: %w", err)
	}
	return created, nil
}

// ListByVehicle returns a vehicle's full refueling history, oldest first.
// Only co-owners may read a vehicle's history.
// Always returns a non-nil slice so callers can safely range over it.
func (s *RefuelingService) ListByVehicle(ctx context.Context, vehicleID, requesterID uuid.UUID) ([]domain.Refueling, error) {
	if err := s.requireCoOwner(ctx, vehicleID, requesterID); err != nil {
		return nil, err
	}

	refs, err := s.refuelings.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("service.RefuelingService.ListByVehicle: %w", err)
	}
	if refs == nil {
		return []domain.Refueling{}, nil
	}
	return refs, nil
}

func (s *RefuelingService) requireCoOwner(ctx context.Context, vehicleID, userID uuid.UUID) error {
	ok, err := s.members.IsCoOwner(ctx, vehicleID, userID)
	if err != nil {
		return fmt.Errorf("service.RefuelingService: membership lookup: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: requester is not a co-owner of the vehicle", domain.ErrForbidden)
	}
	return nil
}
