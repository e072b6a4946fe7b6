// Package service contains the business logic for the shared-vehicle
// coordination engine: the booking scheduler, the usage ledger, and the
// fair-share settlement calculator. Services validate inputs, enforce
// business rules, and orchestrate repo calls. No SQL lives here — services
// depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jpradel/carshare/backend/internal/domain"
	"github.com/jpradel/carshare/backend/internal/repo"
)

// ReservationService is the booking scheduler. It decides whether a proposed
// reservation may be admitted for a vehicle and, if so, persists it.
type ReservationService struct {
	reservations repo.ReservationRepo
	members      repo.MembershipRepo
	locks        *vehicleLocks

	// now is injected so tests can pin the current date for the
	// no-retroactive-booking check.
	now func() time.Time
}

// NewReservationService constructs a ReservationService backed by the
// provided repos.
func NewReservationService(reservations repo.ReservationRepo, members repo.MembershipRepo) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		members:      members,
		locks:        newVehicleLocks(),
		now:          time.Now,
	}
}

// Create admits or rejects a reservation request.
//
// Preconditions are checked in order, short-circuiting on the first failure:
// motive present, DateEnd >= DateStart, TimeEnd > TimeStart, DateStart not in
// the past, requester is a co-owner, and no overlap with any existing
// reservation on the vehicle (regardless of who created it — the vehicle is
// singular and exclusive while reserved).
//
// The list-check-insert sequence runs under the per-vehicle lock so that two
// concurrent requests for overlapping intervals cannot both pass the overlap
// check. Requests for different vehicles proceed in parallel.
func (s *ReservationService) Create(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	if strings.TrimSpace(res.Motive) == "" {
		return domain.Reservation{}, fmt.Errorf("%w: motive is required", domain.ErrValidation)
	}
	if err := validateRanges(res); err != nil {
		return domain.Reservation{}, err
	}
	if domain.DateOnly(res.DateStart).Before(domain.DateOnly(s.now())) {
		return domain.Reservation{}, fmt.Errorf("%w: date_start precedes today", domain.ErrPastDate)
	}

	ok, err := s.members.IsCoOwner(ctx, res.VehicleID, res.OwnerID)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Create: %w", err)
	}
	if !ok {
		return domain.Reservation{}, fmt.Errorf("%w: requester is not a co-owner of the vehicle", domain.ErrForbidden)
	}

	unlock := s.locks.lock(res.VehicleID)
	defer unlock()

	if err := s.checkOverlap(ctx, res, uuid.Nil); err != nil {
		return domain.Reservation{}, err
	}

	res.Status = domain.StatusConfirmed
	created, err := s.reservations.Create(ctx, res)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single reservation by ID.
func (s *ReservationService) GetByID(ctx context.Context, id uuid.UUID) (domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.GetByID: %w", err)
	}
	return res, nil
}

// ListByCreator returns one page of the requester's own reservations, most
// recent date_start first. Always returns a non-nil slice.
func (s *ReservationService) ListByCreator(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Reservation, int64, error) {
	out, total, err := s.reservations.ListByCreatorPaged(ctx, ownerID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ReservationService.ListByCreator: %w", err)
	}
	if out == nil {
		out = []domain.Reservation{}
	}
	return out, total, nil
}

// Update modifies the date/time window, motive, or description of an
// existing reservation. Only the creator may update; the range checks re-run
// and the overlap check re-runs excluding the reservation itself. The
// past-date rule applies to creation only, so an old reservation can still be
// edited.
func (s *ReservationService) Update(ctx context.Context, requesterID uuid.UUID, res domain.Reservation) (domain.Reservation, error) {
	current, err := s.reservations.GetByID(ctx, res.ID)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Update: %w", err)
	}
	if current.OwnerID != requesterID {
		return domain.Reservation{}, fmt.Errorf("%w: only the creator may update a reservation", domain.ErrForbidden)
	}
	if strings.TrimSpace(res.Motive) == "" {
		return domain.Reservation{}, fmt.Errorf("%w: motive is required", domain.ErrValidation)
	}
	if err := validateRanges(res); err != nil {
		return domain.Reservation{}, err
	}

	// Vehicle and creator are immutable; carry them from the stored row.
	res.VehicleID = current.VehicleID
	res.OwnerID = current.OwnerID

	unlock := s.locks.lock(res.VehicleID)
	defer unlock()

	if err := s.checkOverlap(ctx, res, res.ID); err != nil {
		return domain.Reservation{}, err
	}

	updated, err := s.reservations.Update(ctx, res)
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("service.ReservationService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a reservation. Only the creator may delete.
func (s *ReservationService) Delete(ctx context.Context, requesterID, id uuid.UUID) error {
	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.ReservationService.Delete: %w", err)
	}
	if current.OwnerID != requesterID {
		return fmt.Errorf("%w: only the creator may delete a reservation", domain.ErrForbidden)
	}
	if err := s.reservations.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.ReservationService.Delete: %w", err)
	}
	return nil
}

// checkOverlap rejects res if its interval overlaps any existing reservation
// on the same vehicle. exclude skips one reservation id (the one being
// updated); pass uuid.Nil to check against all.
// Callers must hold the vehicle lock.
func (s *ReservationService) checkOverlap(ctx context.Context, res domain.Reservation, exclude uuid.UUID) error {
	existing, err := s.reservations.ListByVehicle(ctx, res.VehicleID)
	if err != nil {
		return fmt.Errorf("service.ReservationService: list for overlap check: %w", err)
	}
	proposed := res.Interval()
	for _, e := range existing {
		if e.ID == exclude {
			continue
		}
		if proposed.Overlaps(e.Interval()) {
			return fmt.Errorf("%w: interval overlaps reservation %s", domain.ErrConflict, e.ID)
		}
	}
	return nil
}

// validateRanges enforces the temporal-validity invariants shared by Create
// and Update: the date range may be a single day or longer, and the time
// window must be non-empty.
func validateRanges(res domain.Reservation) error {
	if domain.DateOnly(res.DateEnd).Before(domain.DateOnly(res.DateStart)) {
		return fmt.Errorf("%w: date_end precedes date_start", domain.ErrInvalidRange)
	}
	if res.TimeEnd <= res.TimeStart {
		return fmt.Errorf("%w: time_end must be after time_start", domain.ErrInvalidRange)
	}
	return nil
}
