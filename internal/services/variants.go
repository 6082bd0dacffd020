package services

import (
	"ev-route-service/internal/domain"
)

// Charge time multiplier for the cheapest variant when any stop is a DC charger.
const CheapSlowFactor = 1.3

// SlowFactor returns 1.0 when every stop is already an AC-class charger,
// CheapSlowFactor otherwise.
func SlowFactor(stops []domain.ChargingCandidate) float64 {
	for _, s := range stops {
		if !s.IsAC() {
			return CheapSlowFactor
		}
	}
	return 1.0
}

// ComputeVariants derives the fastest and cheapest summaries from one selection.
//
// Both variants share the same stops. The cheapest variant only rescales the
// charge time; it does not search for cheaper stations.
func ComputeVariants(route domain.Route, sel domain.ChargeSelection) (fastest, cheapest domain.PlanVariant) {
	drive := route.DurationMin

	fastest = domain.PlanVariant{
		Kind:         domain.Fastest,
		DriveMin:     drive,
		ChargeMin:    sel.ChargeMin,
		TotalTimeMin: drive + sel.ChargeMin,
		SlowFactor:   1.0,
		Route:        route,
		Stops:        sel.Stops,
	}

	factor := SlowFactor(sel.Stops)
	cheapCharge := sel.ChargeMin * factor
	cheapest = domain.PlanVariant{
		Kind:         domain.Cheapest,
		DriveMin:     drive,
		ChargeMin:    cheapCharge,
		TotalTimeMin: drive + cheapCharge,
		SlowFactor:   factor,
		Route:        route,
		Stops:        sel.Stops,
	}

	return fastest, cheapest
}
