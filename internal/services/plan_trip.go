package services

import (
	"context"
	"errors"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"
	"fmt"

	"go.uber.org/zap"
)

const DefaultProfile = "driving"

type PlanTripRequest struct {
	Start      domain.Coordinates
	End        domain.Coordinates
	StartSOC   float64
	ArrivalSOC float64
	Vehicle    domain.Vehicle
	Profile    string
	Corridor   CorridorParams
}

// PlanTrip plans an EV trip: route lookup, corridor station search, stop
// selection and variant computation, strictly in that order.
//
// Vehicle and SOC inputs are validated before any provider call. A missing
// route is returned as domain.ErrNoRoute; a station provider failure only
// empties the candidate set and is reported in TripPlan.StationsStatus.
func PlanTrip(
	ctx context.Context,
	req PlanTripRequest,
	routes ports.RouteProvider,
	stations ports.StationProvider,
) (_ *domain.TripPlan, err error) {
	defer obs.Time(ctx, "plan.PlanTrip")(&err)

	if routes == nil || stations == nil {
		return nil, errors.New("plan trip: route and station providers must be non-nil")
	}

	if err := req.Vehicle.Validate(); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}
	if err := domain.ValidateSOC("start_soc", req.StartSOC); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}
	if err := domain.ValidateSOC("arrival_soc", req.ArrivalSOC); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	profile := req.Profile
	if profile == "" {
		profile = DefaultProfile
	}

	route, err := routes.GetRoute(ctx, req.Start, req.End, profile)
	if err != nil {
		return nil, fmt.Errorf("plan trip: get route: %w", err)
	}

	corridor, err := FindCorridorCandidates(ctx, route, req.Corridor, stations)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}
	if corridor.Degraded() {
		obs.Logger(ctx).Warn("station provider degraded, planning without candidates", zap.Error(corridor.ProviderErr))
	}

	sel, err := SelectStops(route.DistanceKm, req.StartSOC, req.ArrivalSOC, req.Vehicle, corridor.Candidates)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	fastest, cheapest := ComputeVariants(route, sel)

	return &domain.TripPlan{
		Fastest:        fastest,
		Cheapest:       cheapest,
		Selection:      sel,
		CandidateCount: len(corridor.Candidates),
		StationsStatus: corridor.Status(),
	}, nil
}
