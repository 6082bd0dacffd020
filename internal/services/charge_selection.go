package services

import (
	"cmp"
	"ev-route-service/internal/domain"
	"fmt"
	"slices"
)

// Most SOC a single charging session can add.
const MaxSessionSOC = 100.0

// SelectStops decides whether the trip needs zero, one or two charging stops.
//
// The energy model is aggregate: consumption over the whole route is compared
// against the start and arrival SOC, and any deficit is resolved at up to two
// stops. Stations are chosen by highest rated power (stable, so corridor order
// breaks ties). Two-stop deficits are split evenly and charge time uses the
// vehicle's charge rate only; station power affects selection, not duration.
// Stop positions along the route are not checked, so two stops may sit close
// together.
func SelectStops(
	routeKm float64,
	startSOC float64,
	arrivalSOC float64,
	vehicle domain.Vehicle,
	candidates []domain.ChargingCandidate,
) (domain.ChargeSelection, error) {
	if err := vehicle.Validate(); err != nil {
		return domain.ChargeSelection{}, fmt.Errorf("select stops: %w", err)
	}
	if err := domain.ValidateSOC("start_soc", startSOC); err != nil {
		return domain.ChargeSelection{}, fmt.Errorf("select stops: %w", err)
	}
	if err := domain.ValidateSOC("arrival_soc", arrivalSOC); err != nil {
		return domain.ChargeSelection{}, fmt.Errorf("select stops: %w", err)
	}

	needTotal := vehicle.SOCNeeded(routeKm)

	if startSOC-needTotal >= arrivalSOC {
		return domain.ChargeSelection{
			Decision:   domain.NoStop,
			Stops:      []domain.ChargingCandidate{},
			PerStopSOC: []float64{},
			SOCNeeded:  needTotal,
			ChargeMin:  0,
		}, nil
	}

	deltaNeeded := arrivalSOC + needTotal - startSOC
	ranked := rankByPower(candidates)

	if deltaNeeded <= MaxSessionSOC {
		if len(ranked) == 0 {
			return domain.ChargeSelection{}, fmt.Errorf(
				"select stops: one stop needs %.1f SOC points, no corridor candidates: %w",
				deltaNeeded, domain.ErrNoChargingStation,
			)
		}
		return domain.ChargeSelection{
			Decision:    domain.OneStop,
			Stops:       []domain.ChargingCandidate{ranked[0]},
			PerStopSOC:  []float64{deltaNeeded},
			SOCNeeded:   needTotal,
			DeltaNeeded: deltaNeeded,
			ChargeMin:   vehicle.ChargeMinutes(deltaNeeded),
		}, nil
	}

	if len(ranked) < 2 {
		return domain.ChargeSelection{}, fmt.Errorf(
			"select stops: two stops need %.1f SOC points, %d corridor candidates: %w",
			deltaNeeded, len(ranked), domain.ErrNoChargingStation,
		)
	}

	perStop := deltaNeeded / 2
	return domain.ChargeSelection{
		Decision:    domain.TwoStop,
		Stops:       []domain.ChargingCandidate{ranked[0], ranked[1]},
		PerStopSOC:  []float64{perStop, perStop},
		SOCNeeded:   needTotal,
		DeltaNeeded: deltaNeeded,
		ChargeMin:   vehicle.ChargeMinutes(perStop) + vehicle.ChargeMinutes(perStop),
	}, nil
}

// rankByPower returns a copy sorted by descending power; equal powers keep input order.
func rankByPower(candidates []domain.ChargingCandidate) []domain.ChargingCandidate {
	ranked := slices.Clone(candidates)
	slices.SortStableFunc(ranked, func(a, b domain.ChargingCandidate) int {
		return cmp.Compare(b.PowerKW, a.PowerKW)
	})
	return ranked
}
