package domain

import "github.com/google/uuid"

// OwnerUsage is one co-owner's slice of a vehicle's recorded history.
type OwnerUsage struct {
	KmDriven   float64 `json:"km_driven"`
	AmountPaid float64 `json:"amount_paid"`
}

// UsageSummary is the usage ledger's aggregate for one vehicle: per-owner
// distance and fuel spend plus grand totals. It is recomputed fresh on every
// settlement request and never persisted.
type UsageSummary struct {
	PerOwner       map[uuid.UUID]OwnerUsage
	TotalKm        float64
	TotalSpent     float64
	RefuelingCount int
}

// OwnerBalance is one co-owner's position in the fair-share scheme.
// Balance = AmountPaid − ExpectedShare: positive means the owner has paid
// more than their distance-proportional share, negative means they owe.
type OwnerBalance struct {
	OwnerID       uuid.UUID `json:"owner_id"`
	KmDriven      float64   `json:"km_driven"`
	AmountPaid    float64   `json:"amount_paid"`
	ExpectedShare float64   `json:"expected_share"`
	Balance       float64   `json:"balance"`
}

// Settlement is the result of a fair-share computation for one vehicle.
// NextPayer is nil only when the vehicle has no recorded history at all;
// otherwise it always names a co-owner, even if nobody is strictly in debt.
type Settlement struct {
	NextPayer            *User          `json:"next_payer,omitempty"`
	Balances             []OwnerBalance `json:"balances"`
	ExpectedContribution float64        `json:"expected_contribution"`
}
