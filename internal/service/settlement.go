package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/jpradel/carshare/backend/internal/domain"
	"github.com/jpradel/carshare/backend/internal/repo"
)

// UsageAggregator is the slice of the usage ledger the settlement calculator
// consumes. Defined here so tests can feed the calculator a canned summary.
type UsageAggregator interface {
	Aggregate(ctx context.Context, vehicleID uuid.UUID) (domain.UsageSummary, error)
}

// SettlementService is the fair-share settlement calculator. Given a
// vehicle's usage ledger it computes each co-owner's balance, names the next
// payer, and estimates the next refueling cost.
type SettlementService struct {
	ledger UsageAggregator
	users  repo.UserRepo
}

// NewSettlementService constructs a SettlementService backed by the ledger
// and the user identity store.
func NewSettlementService(ledger UsageAggregator, users repo.UserRepo) *SettlementService {
	return &SettlementService{ledger: ledger, users: users}
}

// Settle computes the fair-share settlement for a vehicle.
//
// Each co-owner's expected contribution is their distance-proportional share
// of total fuel spend (zero share when no distance is recorded at all);
// balance = actual paid − expected share. The next payer is the owner with
// the most negative balance; equal minima are broken by lexical order of the
// owner id, so the result is stable across calls. Even when nobody is in
// debt the least-ahead owner is named, so callers never have to handle a
// "no one owes" case while history exists.
//
// The expected contribution estimate is the arithmetic mean of all recorded
// refueling totals. Monetary results are rounded half-up to 2 decimals.
//
// A vehicle with no trips and no refuelings settles to a nil next payer and
// a zero estimate — a valid terminal result, not an error.
func (s *SettlementService) Settle(ctx context.Context, vehicleID uuid.UUID) (domain.Settlement, error) {
	summary, err := s.ledger.Aggregate(ctx, vehicleID)
	if err != nil {
		return domain.Settlement{}, fmt.Errorf("service.SettlementService.Settle: %w", err)
	}

	settlement := domain.Settlement{Balances: []domain.OwnerBalance{}}
	if summary.RefuelingCount > 0 {
		settlement.ExpectedContribution = round2(summary.TotalSpent / float64(summary.RefuelingCount))
	}
	if len(summary.PerOwner) == 0 {
		return settlement, nil
	}

	// Iterate owners in lexical id order: this fixes both the response
	// ordering and the tie-break for equal minimum balances.
	ownerIDs := make([]uuid.UUID, 0, len(summary.PerOwner))
	for id := range summary.PerOwner {
		ownerIDs = append(ownerIDs, id)
	}
	sort.Slice(ownerIDs, func(i, j int) bool {
		return ownerIDs[i].String() < ownerIDs[j].String()
	})

	var nextPayerID uuid.UUID
	minBalance := math.Inf(1)
	for _, id := range ownerIDs {
		usage := summary.PerOwner[id]

		var share float64
		if summary.TotalKm > 0 {
			share = usage.KmDriven / summary.TotalKm * summary.TotalSpent
		}

		bal := domain.OwnerBalance{
			OwnerID:       id,
			KmDriven:      usage.KmDriven,
			AmountPaid:    round2(usage.AmountPaid),
			ExpectedShare: round2(share),
			Balance:       round2(usage.AmountPaid - share),
		}
		settlement.Balances = append(settlement.Balances, bal)

		if bal.Balance < minBalance {
			minBalance = bal.Balance
			nextPayerID = id
		}
	}

	payer, err := s.users.GetByID(ctx, nextPayerID)
	if err != nil {
		return domain.Settlement{}, fmt.Errorf("service.SettlementService.Settle: next payer identity: %w", err)
	}
	settlement.NextPayer = &payer

	return settlement, nil
}

// round2 rounds to 2 decimal places, halves away from zero.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
