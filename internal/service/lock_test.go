package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpradel/carshare/backend/internal/domain"
)

func TestVehicleLocks_SameVehicleSerializes(t *testing.T) {
	locks := newVehicleLocks()
	id := uuid.New()

	unlock := locks.lock(id)

	acquired := make(chan struct{})
	go func() {
		u := locks.lock(id)
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first still held")
	default:
	}

	unlock()
	<-acquired // must complete now
}

func TestVehicleLocks_DifferentVehiclesIndependent(t *testing.T) {
	locks := newVehicleLocks()

	unlockA := locks.lock(uuid.New())
	defer unlockA()

	// Locking a different vehicle must not block.
	unlockB := locks.lock(uuid.New())
	unlockB()
}

// TestReservationService_Create_ConcurrentOverlap races two identical
// admission requests against an in-memory calendar. The per-vehicle lock
// makes the list-check-insert sequence atomic, so exactly one must win.
func TestReservationService_Create_ConcurrentOverlap(t *testing.T) {
	var (
		mu       sync.Mutex
		calendar []domain.Reservation
	)
	r := &mockReservationRepo{
		listByVehicle: func(_ context.Context, _ uuid.UUID) ([]domain.Reservation, error) {
			mu.Lock()
			defer mu.Unlock()
			out := make([]domain.Reservation, len(calendar))
			copy(out, calendar)
			return out, nil
		},
		create: func(_ context.Context, res domain.Reservation) (domain.Reservation, error) {
			mu.Lock()
			defer mu.Unlock()
			res.ID = uuid.New()
			calendar = append(calendar, res)
			return res, nil
		},
	}
	svc := newScheduler(r, alwaysCoOwner)

	res := validReservation()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), res)
		}(i)
	}
	wg.Wait()

	var conflicts, successes int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, successes)
	require.Equal(t, 1, conflicts)
	assert.Len(t, calendar, 1)
}
