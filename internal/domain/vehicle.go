package domain

import (
	"fmt"
	"math"
)

// Electric vehicle energy parameters used by the charge planner.
// SOC quantities are percentage points of battery capacity.
type Vehicle struct {
	VehicleID           int
	Name                string
	BatteryKWh          float64
	ConsumptionKmPerSOC float64 // km driven per 1 percentage point of SOC
	ChargeRateSOCPerMin float64 // percentage points gained per minute of charging
}

// Validate rejects missing or non-positive parameters.
func (v Vehicle) Validate() error {
	if !(v.BatteryKWh > 0) {
		return fmt.Errorf("battery_kwh must be positive, got %v: %w", v.BatteryKWh, ErrInvalidVehicle)
	}
	if !(v.ConsumptionKmPerSOC > 0) {
		return fmt.Errorf("consumption_km_per_soc must be positive, got %v: %w", v.ConsumptionKmPerSOC, ErrInvalidVehicle)
	}
	if !(v.ChargeRateSOCPerMin > 0) {
		return fmt.Errorf("charge_rate_soc_per_min must be positive, got %v: %w", v.ChargeRateSOCPerMin, ErrInvalidVehicle)
	}
	return nil
}

// SOCNeeded returns the percentage points consumed driving distanceKm.
func (v Vehicle) SOCNeeded(distanceKm float64) float64 {
	return distanceKm / v.ConsumptionKmPerSOC
}

// ChargeMinutes returns the time to add deltaSOC points; negative deltas cost nothing.
func (v Vehicle) ChargeMinutes(deltaSOC float64) float64 {
	if deltaSOC < 0 {
		deltaSOC = 0
	}
	return deltaSOC / v.ChargeRateSOCPerMin
}

// ValidateSOC checks that a state of charge lies in [0, 100].
func ValidateSOC(name string, soc float64) error {
	if math.IsNaN(soc) || soc < 0 || soc > 100 {
		return fmt.Errorf("%s=%v: %w", name, soc, ErrInvalidSOC)
	}
	return nil
}
