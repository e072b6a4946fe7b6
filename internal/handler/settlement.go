package handler

import (
	"net/http"
)

// SettleVehicle handles GET /vehicles/{vehicleID}/settlement.
// It always succeeds for a well-formed vehicle id: a vehicle with no
// recorded history settles to a null next payer and a zero estimate.
func (s *Server) SettleVehicle(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := pathUUID(r, "vehicleID")
	if err != nil {
		writeRequestError(w, err.Error())
		return
	}

	settlement, err := s.settlements.Settle(r.Context(), vehicleID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, settlement)
}
