package domain

import "time"

// StopDecision tags the outcome of stop selection.
type StopDecision int

const (
	NoStop StopDecision = iota
	OneStop
	TwoStop
)

func (d StopDecision) String() string {
	switch d {
	case NoStop:
		return "no_stop"
	case OneStop:
		return "one_stop"
	case TwoStop:
		return "two_stop"
	}
	return "unknown"
}

// ChargeSelection is the result of stop selection for one planning request.
// Stops holds 0, 1 or 2 candidates matching Decision. PerStopSOC[i] is the
// number of percentage points charged at Stops[i].
type ChargeSelection struct {
	Decision    StopDecision
	Stops       []ChargingCandidate
	PerStopSOC  []float64
	SOCNeeded   float64 // whole-trip consumption in percentage points
	DeltaNeeded float64 // points that must be added; 0 when no stop is required
	ChargeMin   float64
}

// VariantKind names a plan variant.
type VariantKind string

const (
	Fastest  VariantKind = "fastest"
	Cheapest VariantKind = "cheapest"
)

// PlanVariant summarizes one way of executing a charge selection.
type PlanVariant struct {
	Kind         VariantKind
	DriveMin     float64
	ChargeMin    float64
	TotalTimeMin float64
	SlowFactor   float64
	Route        Route
	Stops        []ChargingCandidate
}

// StationsStatus distinguishes an empty corridor from a degraded station provider.
type StationsStatus string

const (
	StationsOK                  StationsStatus = "ok"
	StationsProviderUnavailable StationsStatus = "provider_unavailable"
)

// TripPlan is the finished output of one planning request.
type TripPlan struct {
	Fastest        PlanVariant
	Cheapest       PlanVariant
	Selection      ChargeSelection
	CandidateCount int
	StationsStatus StationsStatus
}

// PlanQuery records the inputs of a planning request for storage.
type PlanQuery struct {
	QueryID    int64
	CreatedAt  time.Time
	Start      Coordinates
	End        Coordinates
	StartSOC   float64
	ArrivalSOC float64
	VehicleID  *int
}
