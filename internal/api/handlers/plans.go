package handlers

import (
	"errors"
	"ev-route-service/internal/api/dto"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/metrics"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"
	"ev-route-service/internal/services"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultStartSOC   = 80.0
	defaultArrivalSOC = 20.0
)

type PlanHandler struct {
	Routes   ports.RouteProvider
	Stations ports.StationProvider
	Vehicles ports.VehicleRepository
	Plans    ports.PlanRepository // optional
	Corridor services.CorridorParams
	Profile  string
	Metrics  *metrics.Metrics
}

// Plan computes fastest and cheapest charging plans for one trip.
// A missing route is answered with 200 and both variants set to NoRoute.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PlanRequest
	if !decodeBody(w, r, &req) {
		return
	}

	start, err := parseLonLat("start", req.Start)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseLonLat("end", req.End)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	startSOC := defaultStartSOC
	if req.StartSOC != nil {
		startSOC = *req.StartSOC
	}
	arrivalSOC := defaultArrivalSOC
	if req.ArrivalSOC != nil {
		arrivalSOC = *req.ArrivalSOC
	}

	vehicle, err := h.resolveVehicle(r, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	ctx := r.Context()
	plan, err := services.PlanTrip(ctx, services.PlanTripRequest{
		Start:      start,
		End:        end,
		StartSOC:   startSOC,
		ArrivalSOC: arrivalSOC,
		Vehicle:    vehicle,
		Profile:    h.Profile,
		Corridor:   h.Corridor,
	}, h.Routes, h.Stations)
	if errors.Is(err, domain.ErrNoRoute) {
		h.Metrics.RecordPlan(domain.ErrorCode(err))
		writeJSON(w, r, http.StatusOK, dto.PlanResponse{
			Fastest:  dto.PlanVariantResponse{Error: domain.ErrorCode(err)},
			Cheapest: dto.PlanVariantResponse{Error: domain.ErrorCode(err)},
		})
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.Metrics.RecordPlan(plan.Selection.Decision.String())
	if plan.StationsStatus == domain.StationsProviderUnavailable {
		h.Metrics.RecordDegraded()
	}

	res := dto.PlanResponse{
		Fastest:        variantResponse(plan.Fastest),
		Cheapest:       variantResponse(plan.Cheapest),
		Decision:       plan.Selection.Decision.String(),
		StationsStatus: string(plan.StationsStatus),
	}

	if h.Plans != nil {
		query := domain.PlanQuery{
			CreatedAt:  time.Now().UTC(),
			Start:      start,
			End:        end,
			StartSOC:   startSOC,
			ArrivalSOC: arrivalSOC,
		}
		if vehicle.VehicleID > 0 {
			id := vehicle.VehicleID
			query.VehicleID = &id
		}
		queryID, err := h.Plans.SavePlan(ctx, query, plan)
		if err != nil {
			obs.Logger(ctx).Warn("save plan failed", zap.Error(err))
		} else {
			res.QueryID = queryID
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}

// resolveVehicle prefers inline parameters over a stored vehicle id.
func (h *PlanHandler) resolveVehicle(r *http.Request, req dto.PlanRequest) (domain.Vehicle, error) {
	switch {
	case req.Vehicle != nil:
		return domain.Vehicle{
			Name:                "custom",
			BatteryKWh:          req.Vehicle.BatteryKWh,
			ConsumptionKmPerSOC: req.Vehicle.ConsumptionKmPerSOC,
			ChargeRateSOCPerMin: req.Vehicle.ChargeRateSOCPerMin,
		}, nil
	case req.VehicleID != nil:
		if h.Vehicles == nil {
			return domain.Vehicle{}, fmt.Errorf("vehicle %d: %w", *req.VehicleID, domain.ErrVehicleNotFound)
		}
		v, err := h.Vehicles.GetVehicle(r.Context(), *req.VehicleID)
		if err != nil {
			return domain.Vehicle{}, err
		}
		return *v, nil
	}
	return domain.Vehicle{}, fmt.Errorf("vehicle or vehicle_id is required: %w", domain.ErrInvalidVehicle)
}

func (h *PlanHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	code := domain.ErrorCode(err)
	if code == "" {
		h.Metrics.RecordPlan("internal")
		obs.Logger(r.Context()).Error("plan trip failed", zap.Error(err))
		writeError(w, r, status, "internal server error")
		return
	}

	h.Metrics.RecordPlan(code)
	if status >= http.StatusInternalServerError {
		obs.Logger(r.Context()).Warn("plan trip failed", zap.String("code", code), zap.Error(err))
	}
	writeCodedError(w, r, status, code, err)
}

func variantResponse(v domain.PlanVariant) dto.PlanVariantResponse {
	stops := make([]dto.StationResponse, 0, len(v.Stops))
	for _, s := range v.Stops {
		stops = append(stops, stationResponse(s))
	}
	route := lineString(v.Route)
	return dto.PlanVariantResponse{
		Summary: &dto.PlanSummary{
			DriveMin:     v.DriveMin,
			ChargeMin:    v.ChargeMin,
			TotalTimeMin: v.TotalTimeMin,
		},
		Route: &route,
		Stops: stops,
	}
}
