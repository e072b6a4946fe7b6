package service

import (
	"sync"

	"github.com/google/uuid"
)

// vehicleLocks serializes reservation admission per vehicle. The scheduler's
// list-check-insert sequence is a check-then-act race without it: two
// concurrent requests for overlapping intervals could both pass the overlap
// check before either writes.
//
// Locks are keyed by vehicle id, so requests against different vehicles
// never contend. This guards a single API process; running multiple
// instances against one database requires moving the exclusion into the
// store (e.g. pg_advisory_xact_lock on the vehicle id).
type vehicleLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func newVehicleLocks() *vehicleLocks {
	return &vehicleLocks{locks: make(map[uuid.UUID]*sync.Mutex)}
}

// lock acquires the mutex for the given vehicle, creating it on first use,
// and returns the matching unlock function.
func (v *vehicleLocks) lock(id uuid.UUID) (unlock func()) {
	v.mu.Lock()
	m, ok := v.locks[id]
	if !ok {
		m = &sync.Mutex{}
		v.locks[id] = m
	}
	v.mu.Unlock()

	m.Lock()
	return m.Unlock
}
