package domain

// Rated power assumed when a station record does not report one.
const DefaultPowerKW = 22.0

// Charging stations at or below this power are treated as AC (slow, cheap) chargers.
const ACMaxPowerKW = 22.0

// A charging station normalized into the planner's uniform shape.
// Candidates are fetched fresh per planning request and never persisted by the planner.
type ChargingCandidate struct {
	ID      int
	Name    string
	Coord   Coordinates
	PowerKW float64
	Network string
}

// IsAC reports whether the station is an AC-class charger.
func (c ChargingCandidate) IsAC() bool { return c.PowerKW <= ACMaxPowerKW }
