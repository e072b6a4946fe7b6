// Package domain contains the core data types for the shared-vehicle
// coordination engine. This package has zero internal dependencies and is
// imported by every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus is the lifecycle state of a reservation.
// Today a reservation that exists is always confirmed; the explicit enum
// exists so a cancelled state can be added without reinterpreting row
// presence as a status signal.
type ReservationStatus string

// StatusConfirmed is the only reservation status currently in use.
const StatusConfirmed ReservationStatus = "confirmed"

// Reservation is a co-owner's claim of exclusive vehicle use over a
// date/time interval. The time window [TimeStart, TimeEnd) applies to every
// day between DateStart and DateEnd inclusive.
type Reservation struct {
	ID          uuid.UUID         `json:"id"`
	VehicleID   uuid.UUID         `json:"vehicle_id"`
	OwnerID     uuid.UUID         `json:"owner_id"` // the co-owner who created it
	DateStart   time.Time         `json:"date_start"`
	DateEnd     time.Time         `json:"date_end"`
	TimeStart   TimeOfDay         `json:"time_start"`
	TimeEnd     TimeOfDay         `json:"time_end"`
	Motive      string            `json:"motive"`
	Description string            `json:"description,omitempty"`
	Status      ReservationStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Interval returns the reservation's claim as a comparable Interval.
func (r Reservation) Interval() Interval {
	return Interval{
		DateStart: r.DateStart,
		DateEnd:   r.DateEnd,
		TimeStart: r.TimeStart,
		TimeEnd:   r.TimeEnd,
	}
}
