package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is a completed use of the vehicle logged by a co-owner.
// Trips are immutable once created; they feed the usage ledger and are never
// updated or deleted.
type Trip struct {
	ID         uuid.UUID `json:"id"`
	VehicleID  uuid.UUID `json:"vehicle_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	DistanceKm float64   `json:"distance_km"` // 0 when the driver did not record it
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
	CreatedAt  time.Time `json:"created_at"`
}
