package domain

import (
	"time"

	"github.com/google/uuid"
)

// Refueling is a fuel purchase paid for by a co-owner.
// TotalPrice is the amount actually paid as reported by the purchaser; it is
// trusted as-is and never recomputed from VolumeLiters × UnitPrice (pump
// discounts and loyalty cards make the product unreliable).
// Refuelings are immutable once created.
type Refueling struct {
	ID           uuid.UUID `json:"id"`
	VehicleID    uuid.UUID `json:"vehicle_id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Date         time.Time `json:"date"`
	VolumeLiters float64   `json:"volume_liters"`
	UnitPrice    float64   `json:"unit_price"`
	TotalPrice   float64   `json:"total_price"`
	CreatedAt    time.Time `json:"created_at"`
}
