package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jpradel/carshare/backend/internal/domain"
	"github.com/jpradel/carshare/backend/internal/repo"
)

// LedgerService is the usage ledger: a pure read-aggregation over a vehicle's
// recorded trips and refuelings. It holds no state between calls, so a
// summary is always consistent with the store at the moment it was computed.
type LedgerService struct {
	trips      repo.TripRepo
	refuelings repo.RefuelingRepo
}

// NewLedgerService constructs a LedgerService backed by the provided repos.
func NewLedgerService(trips repo.TripRepo, refuelings repo.RefuelingRepo) *LedgerService {
	return &LedgerService{trips: trips, refuelings: refuelings}
}

// Aggregate totals distance driven and fuel spend per co-owner over the
// vehicle's entire recorded history. An owner appears in the summary if they
// have at least one trip or one refueling. Unrecorded trip distances count
// as zero, not as an error.
func (s *LedgerService) Aggregate(ctx context.Context, vehicleID uuid.UUID) (domain.UsageSummary, error) {
	trips, err := s.trips.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return domain.UsageSummary{}, fmt.Errorf("service.LedgerService.Aggregate: %w", err)
	}
	refuelings, err := s.refuelings.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return domain.UsageSummary{}, fmt.Errorf("service.LedgerService.Aggregate: %w", err)
	}

	summary := domain.UsageSummary{PerOwner: make(map[uuid.UUID]domain.OwnerUsage)}

	for _, t := range trips {
		usage := summary.PerOwner[t.OwnerID]
		usage.KmDriven += t.DistanceKm
		summary.PerOwner[t.OwnerID] = usage
		summary.TotalKm += t.DistanceKm
	}

	for _, ref := range refuelings {
		usage := summary.PerOwner[ref.OwnerID]
		usage.AmountPaid += ref.TotalPrice
		summary.PerOwner[ref.OwnerID] = usage
		summary.TotalSpent += ref.TotalPrice
		summary.RefuelingCount++
	}

	return summary, nil
}
