package handlers

import (
	"ev-route-service/internal/api/dto"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"
	"net/http"

	"go.uber.org/zap"
)

// VehicleHandler exposes read-only vehicle retrieval endpoints.
type VehicleHandler struct {
	Vehicles ports.VehicleRepository
}

func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	vehicles, err := h.Vehicles.ListVehicles(r.Context())
	if err != nil {
		obs.Logger(r.Context()).Error("list vehicles failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListVehiclesResponse{
		Vehicles: make([]dto.VehicleResponse, 0, len(vehicles)),
	}
	for _, v := range vehicles {
		res.Vehicles = append(res.Vehicles, dto.VehicleResponse{
			ID:                  v.VehicleID,
			Name:                v.Name,
			BatteryKWh:          v.BatteryKWh,
			ConsumptionKmPerSOC: v.ConsumptionKmPerSOC,
			ChargeRateSOCPerMin: v.ChargeRateSOCPerMin,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
