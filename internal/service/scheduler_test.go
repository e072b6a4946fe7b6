package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpradel/carshare/backend/internal/domain"
	"github.com/jpradel/carshare/backend/internal/repo"
)

// These tests live in the service package (not service_test) so they can pin
// the injected clock and exercise the admission rules against a fixed "today".

// mockReservationRepo is a hand-written test double for repo.ReservationRepo.
// Each method is a function field — set only the ones your test needs.
type mockReservationRepo struct {
	create             func(ctx context.Context, res domain.Reservation) (domain.Reservation, error)
	getByID            func(ctx context.Context, id uuid.UUID) (domain.Reservation, error)
	listByVehicle      func(ctx context.Context, vehicleID uuid.UUID) ([]domain.Reservation, error)
	listByCreatorPaged func(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Reservation, int64, error)
	update             func(ctx context.Context, res domain.Reservation) (domain.Reservation, error)
	delete             func(ctx context.Context, id uuid.UUID) error
}

func (m *mockReservationRepo) Create(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	return m.create(ctx, res)
}
func (m *mockReservationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Reservation, error) {
	return m.getByID(ctx, id)
}
func (m *mockReservationRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Reservation, error) {
	return m.listByVehicle(ctx, vehicleID)
}
func (m *mockReservationRepo) ListByCreatorPaged(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Reservation, int64, error) {
	return m.listByCreatorPaged(ctx, ownerID, p)
}
func (m *mockReservationRepo) Update(ctx context.Context, res domain.Reservation) (domain.Reservation, error) {
	return m.update(ctx, res)
}
func (m *mockReservationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.ReservationRepo = (*mockReservationRepo)(nil)

// membershipFunc adapts a plain function to repo.MembershipRepo.
type membershipFunc func(ctx context.Context, vehicleID, userID uuid.UUID) (bool, error)

func (f membershipFunc) IsCoOwner(ctx context.Context, vehicleID, userID uuid.UUID) (bool, error) {
	return f(ctx, vehicleID, userID)
}

var _ repo.MembershipRepo = (membershipFunc)(nil)

// ---- helpers ---------------------------------------------------------------

// today is the pinned "current date" for every scheduler test.
var today = time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)

func alwaysCoOwner(_ context.Context, _, _ uuid.UUID) (bool, error) { return true, nil }
func neverCoOwner(_ context.Context, _, _ uuid.UUID) (bool, error)  { return false, nil }

func newScheduler(reservations *mockReservationRepo, members membershipFunc) *ReservationService {
	svc := NewReservationService(reservations, members)
	svc.now = func() time.Time { return today }
	return svc
}

// echoReservationRepo echoes Create/Update input back and reports an empty
// vehicle calendar — useful for tests that only care about validation.
func echoReservationRepo() *mockReservationRepo {
	return &mockReservationRepo{
		create: func(_ context.Context, res domain.Reservation) (domain.Reservation, error) {
			res.ID = uuid.New()
			return res, nil
		},
		update: func(_ context.Context, res domain.Reservation) (domain.Reservation, error) {
			return res, nil
		},
		listByVehicle: func(_ context.Context, _ uuid.UUID) ([]domain.Reservation, error) {
			return nil, nil
		},
	}
}

func validReservation() domain.Reservation {
	return domain.Reservation{
		VehicleID: uuid.New(),
		OwnerID:   uuid.New(),
		DateStart: time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC),
		DateEnd:   time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
		TimeStart: 8 * 60,  // 08:00
		TimeEnd:   12 * 60, // 12:00
		Motive:    "weekend trip",
	}
}

// ---- Create tests ----------------------------------------------------------

func TestReservationService_Create_Valid(t *testing.T) {
	svc := newScheduler(echoReservationRepo(), alwaysCoOwner)

	got, err := svc.Create(context.Background(), validReservation())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
}

func TestReservationService_Create_MissingMotive(t *testing.T) {
	svc := newScheduler(echoReservationRepo(), alwaysCoOwner)

	res := validReservation()
	res.Motive = "   "

	_, err := svc.Create(context.Background(), res)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestReservationService_Create_DateEndBeforeDateStart(t *testing.T) {
	svc := newScheduler(echoReservationRepo(), alwaysCoOwner)

	res := validReservation()
	res.DateEnd = res.DateStart.AddDate(0, 0, -1)

	_, err := svc.Create(context.Background(), res)

	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestReservationService_Create_SingleDayRange(t *testing.T) {
	svc := newScheduler(echoReservationRepo(), alwaysCoOwner)

	res := validReservation()
	res.DateEnd = res.DateStart // one-day reservation is valid

	_, err := svc.Create(context.Background(), res)

	assert.NoError(t, err)
}

func TestReservationService_Create_EmptyTimeWindow(t *testing.T) {
	svc := newScheduler(echoReservationRepo(), alwaysCoOwner)

	res := validReservation()
	res.TimeEnd = res.TimeStart

	_, err := svc.Create(context.Background(), res)

	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestReservationService_Create_PastDate(t *testing.T) {
	svc := newScheduler(echoReservationRepo(), alwaysCoOwner)

	res := validReservation()
	res.DateStart = today.AddDate(0, 0, -1)
	res.DateEnd = today.AddDate(0, 0, 1)

	_, err := svc.Create(context.Background(), res)

	assert.ErrorIs(t, err, domain.ErrPastDate)
}

func TestReservationService_Create_StartingToday(t *testing.T) {
	svc := newScheduler(echoReservationRepo(), alwaysCoOwner)

	res := validReservation()
	res.DateStart = today // same calendar day is not "past"
	res.DateEnd = today.AddDate(0, 0, 1)

	_, err := svc.Create(context.Background(), res)

	assert.NoError(t, err)
}

// TestReservationService_Create_RangeCheckedBeforePastDate pins the
// precondition order: a request that is both badly ranged and in the past
// reports the range error.
func TestReservationService_Create_RangeCheckedBeforePastDate(t *testing.T) {
	svc := newScheduler(echoReservationRepo(), alwaysCoOwner)

	res := validReservation()
	res.DateStart = today.AddDate(0, 0, -1)
	res.DateEnd = today.AddDate(0, 0, -2)

	_, err := svc.Create(context.Background(), res)

	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

// TestReservationService_Create_PastDateCheckedBeforeMembership pins that the
// membership lookup is not even attempted for a past-dated request.
func TestReservationService_Create_PastDateCheckedBeforeMembership(t *testing.T) {
	members := membershipFunc(func(_ context.Context, _, _ uuid.UUID) (bool, error) {
		t.Fatal("membership must not be checked for a past-dated request")
		return false, nil
	})
	svc := newScheduler(echoReservationRepo(), members)

	res := validReservation()
	res.DateStart = today.AddDate(0, 0, -1)

	_, err := svc.Create(context.Background(), res)

	assert.ErrorIs(t, err, domain.ErrPastDate)
}

func TestReservationService_Create_NotCoOwner(t *testing.T) {
	svc := newScheduler(echoReservationRepo(), neverCoOwner)

	_, err := svc.Create(context.Background(), validReservation())

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReservationService_Create_Conflict(t *testing.T) {
	res := validReservation()

	existing := validReservation()
	existing.ID = uuid.New()
	existing.VehicleID = res.VehicleID
	existing.OwnerID = uuid.New() // someone else's booking blocks too
	existing.TimeStart = 11 * 60
	existing.TimeEnd = 15 * 60

	r := echoReservationRepo()
	r.listByVehicle = func(_ context.Context, _ uuid.UUID) ([]domain.Reservation, error) {
		return []domain.Reservation{existing}, nil
	}
	svc := newScheduler(r, alwaysCoOwner)

	_, err := svc.Create(context.Background(), res)

	assert.ErrorIs(t, err, domain.ErrConflict)
}

// TestReservationService_Create_TouchingWindowsAdmitted verifies the half-open
// window rule end to end: a booking ending at 12:00 and one starting at 12:00
// coexist on the same day.
func TestReservationService_Create_TouchingWindowsAdmitted(t *testing.T) {
	res := validReservation()
	res.TimeStart = 12 * 60
	res.TimeEnd = 16 * 60

	existing := validReservation()
	existing.ID = uuid.New()
	existing.VehicleID = res.VehicleID
	existing.TimeStart = 8 * 60
	existing.TimeEnd = 12 * 60

	r := echoReservationRepo()
	r.listByVehicle = func(_ context.Context, _ uuid.UUID) ([]domain.Reservation, error) {
		return []domain.Reservation{existing}, nil
	}
	svc := newScheduler(r, alwaysCoOwner)

	_, err := svc.Create(context.Background(), res)

	assert.NoError(t, err)
}

func TestReservationService_Create_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")
	r := echoReservationRepo()
	r.create = func(_ context.Context, _ domain.Reservation) (domain.Reservation, error) {
		return domain.Reservation{}, repoErr
	}
	svc := newScheduler(r, alwaysCoOwner)

	_, err := svc.Create(context.Background(), validReservation())

	assert.ErrorIs(t, err, repoErr)
}

// ---- Update tests ----------------------------------------------------------

func TestReservationService_Update_Valid(t *testing.T) {
	stored := validReservation()
	stored.ID = uuid.New()

	r := echoReservationRepo()
	r.getByID = func(_ context.Context, _ uuid.UUID) (domain.Reservation, error) {
		return stored, nil
	}
	svc := newScheduler(r, alwaysCoOwner)

	changed := stored
	changed.TimeStart = 14 * 60
	changed.TimeEnd = 18 * 60

	got, err := svc.Update(context.Background(), stored.OwnerID, changed)

	require.NoError(t, err)
	assert.Equal(t, domain.TimeOfDay(14*60), got.TimeStart)
}

func TestReservationService_Update_NotFound(t *testing.T) {
	r := echoReservationRepo()
	r.getByID = func(_ context.Context, _ uuid.UUID) (domain.Reservation, error) {
		return domain.Reservation{}, domain.ErrNotFound
	}
	svc := newScheduler(r, alwaysCoOwner)

	_, err := svc.Update(context.Background(), uuid.New(), validReservation())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReservationService_Update_NotCreator(t *testing.T) {
	stored := validReservation()
	stored.ID = uuid.New()

	r := echoReservationRepo()
	r.getByID = func(_ context.Context, _ uuid.UUID) (domain.Reservation, error) {
		return stored, nil
	}
	svc := newScheduler(r, alwaysCoOwner)

	_, err := svc.Update(context.Background(), uuid.New(), stored)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// TestReservationService_Update_ExcludesSelfFromOverlap verifies that a
// reservation does not conflict with its own stored window when rescheduled.
func TestReservationService_Update_ExcludesSelfFromOverlap(t *testing.T) {
	stored := validReservation()
	stored.ID = uuid.New()

	r := echoReservationRepo()
	r.getByID = func(_ context.Context, _ uuid.UUID) (domain.Reservation, error) {
		return stored, nil
	}
	r.listByVehicle = func(_ context.Context, _ uuid.UUID) ([]domain.Reservation, error) {
		return []domain.Reservation{stored}, nil
	}
	svc := newScheduler(r, alwaysCoOwner)

	changed := stored
	changed.TimeEnd = stored.TimeEnd + 60 // still overlaps its old self

	_, err := svc.Update(context.Background(), stored.OwnerID, changed)

	assert.NoError(t, err)
}

func TestReservationService_Update_Conflict(t *testing.T) {
	stored := validReservation()
	stored.ID = uuid.New()

	other := validReservation()
	other.ID = uuid.New()
	other.VehicleID = stored.VehicleID
	other.TimeStart = 14 * 60
	other.TimeEnd = 18 * 60

	r := echoReservationRepo()
	r.getByID = func(_ context.Context, _ uuid.UUID) (domain.Reservation, error) {
		return stored, nil
	}
	r.listByVehicle = func(_ context.Context, _ uuid.UUID) ([]domain.Reservation, error) {
		return []domain.Reservation{stored, other}, nil
	}
	svc := newScheduler(r, alwaysCoOwner)

	changed := stored
	changed.TimeStart = 15 * 60
	changed.TimeEnd = 17 * 60

	_, err := svc.Update(context.Background(), stored.OwnerID, changed)

	assert.ErrorIs(t, err, domain.ErrConflict)
}

// TestReservationService_Update_PastDateAllowed: the no-retroactive rule
// applies to creation only, so an old reservation can still be edited.
func TestReservationService_Update_PastDateAllowed(t *testing.T) {
	stored := validReservation()
	stored.ID = uuid.New()
	stored.DateStart = today.AddDate(0, 0, -10)
	stored.DateEnd = today.AddDate(0, 0, -9)

	r := echoReservationRepo()
	r.getByID = func(_ context.Context, _ uuid.UUID) (domain.Reservation, error) {
		return stored, nil
	}
	svc := newScheduler(r, alwaysCoOwner)

	changed := stored
	changed.Motive = "corrected motive"

	_, err := svc.Update(context.Background(), stored.OwnerID, changed)

	assert.NoError(t, err)
}

// TestReservationService_Update_VehicleAndOwnerImmutable verifies that a
// request cannot move a reservation to another vehicle or reassign its creator.
func TestReservationService_Update_VehicleAndOwnerImmutable(t *testing.T) {
	stored := validReservation()
	stored.ID = uuid.New()

	var persisted domain.Reservation
	r := echoReservationRepo()
	r.getByID = func(_ context.Context, _ uuid.UUID) (domain.Reservation, error) {
		return stored, nil
	}
	r.update = func(_ context.Context, res domain.Reservation) (domain.Reservation, error) {
		persisted = res
		return res, nil
	}
	svc := newScheduler(r, alwaysCoOwner)

	changed := stored
	changed.VehicleID = uuid.New()
	changed.OwnerID = uuid.New()

	_, err := svc.Update(context.Background(), stored.OwnerID, changed)

	require.NoError(t, err)
	assert.Equal(t, stored.VehicleID, persisted.VehicleID)
	assert.Equal(t, stored.OwnerID, persisted.OwnerID)
}

// ---- Delete tests ----------------------------------------------------------

func TestReservationService_Delete_OK(t *testing.T) {
	stored := validReservation()
	stored.ID = uuid.New()

	r := echoReservationRepo()
	r.getByID = func(_ context.Context, _ uuid.UUID) (domain.Reservation, error) {
		return stored, nil
	}
	r.delete = func(_ context.Context, _ uuid.UUID) error { return nil }
	svc := newScheduler(r, alwaysCoOwner)

	err := svc.Delete(context.Background(), stored.OwnerID, stored.ID)

	assert.NoError(t, err)
}

func TestReservationService_Delete_NotCreator(t *testing.T) {
	stored := validReservation()
	stored.ID = uuid.New()

	r := echoReservationRepo()
	r.getByID = func(_ context.Context, _ uuid.UUID) (domain.Reservation, error) {
		return stored, nil
	}
	svc := newScheduler(r, alwaysCoOwner)

	err := svc.Delete(context.Background(), uuid.New(), stored.ID)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReservationService_Delete_NotFound(t *testing.T) {
	r := echoReservationRepo()
	r.getByID = func(_ context.Context, _ uuid.UUID) (domain.Reservation, error) {
		return domain.Reservation{}, domain.ErrNotFound
	}
	svc := newScheduler(r, alwaysCoOwner)

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- List tests ------------------------------------------------------------

func TestReservationService_ListByCreator_EmptyNonNil(t *testing.T) {
	r := echoReservationRepo()
	r.listByCreatorPaged = func(_ context.Context, _ uuid.UUID, _ domain.PaginationParams) ([]domain.Reservation, int64, error) {
		return nil, 0, nil
	}
	svc := newScheduler(r, alwaysCoOwner)

	got, total, err := svc.ListByCreator(context.Background(), uuid.New(), domain.PaginationParams{Page: 1, Limit: 20})

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, total)
}
