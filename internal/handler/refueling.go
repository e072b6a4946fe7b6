package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jpradel/carshare/backend/internal/domain"
	"github.com/jpradel/carshare/backend/internal/middleware"
)

// refuelingRequest is the JSON body for recording a fuel purchase.
// total_price is what the co-owner actually paid; it is recorded as reported
// and never recomputed from volume × unit price.
type refuelingRequest struct {
	Date         string  `json:"date"`
	VolumeLiters float64 `json:"volume_liters"`
	UnitPrice    float64 `json:"unit_price"`
	TotalPrice   float64 `json:"total_price"`
}

// refuelingResponse is the JSON shape of a refueling.
type refuelingResponse struct {
	ID           uuid.UUID `json:"id"`
	VehicleID    uuid.UUID `json:"vehicle_id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Date         string    `json:"date"`
	VolumeLiters float64   `json:"volume_liters"`
	UnitPrice    float64   `json:"unit_price"`
	TotalPrice   float64   `json:"total_price"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateRefueling handles POST /vehicles/{vehicleID}/refuelings.
func (s *Server) CreateRefueling(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathUUID(r, "vehicleID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	var req refuelingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}

	date, err := parseDate(req.Date, "date")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	ref := domain.Refueling{
		VehicleID:    vehicleID,
		OwnerID:      middleware.UserID(r.Context()),
		Date:         date,
		VolumeLiters: req.VolumeLiters,
		UnitPrice:    req.UnitPrice,
		TotalPrice:   req.TotalPrice,
	}

	created, err := s.refuelings.Create(r.Context(), ref)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, refuelingToResponse(created))
}

// ListRefuelings handles GET /vehicles/{vehicleID}/refuelings.
func (s *Server) ListRefuelings(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathUUID(r, "vehicleID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	refs, err := s.refuelings.ListByVehicle(r.Context(), vehicleID, middleware.UserID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	data := make([]refuelingResponse, len(refs))
	for i, ref := range refs {
		data[i] = refuelingToResponse(ref)
	}
	respondJSON(w, http.StatusOK, map[string][]refuelingResponse{"data": data})
}

// refuelingToResponse converts a domain.Refueling into its JSON shape.
func refuelingToResponse(ref domain.Refueling) refuelingResponse {
	return refuelingResponse{
		ID:           ref.ID,
		VehicleID:    ref.VehicleID,
		OwnerID:      ref.OwnerID,
		Date:         ref.Date.Format(dateLayout),
		VolumeLiters: ref.VolumeLiters,
		UnitPrice:    ref.UnitPrice,
		TotalPrice:   ref.TotalPrice,
		CreatedAt:    ref.CreatedAt,
	}
}
