package domain

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVehicleValidate(t *testing.T) {
	valid := Vehicle{BatteryKWh: 64, ConsumptionKmPerSOC: 5, ChargeRateSOCPerMin: 1}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(v *Vehicle)
	}{
		{"zero battery", func(v *Vehicle) { v.BatteryKWh = 0 }},
		{"negative consumption", func(v *Vehicle) { v.ConsumptionKmPerSOC = -2 }},
		{"zero charge rate", func(v *Vehicle) { v.ChargeRateSOCPerMin = 0 }},
		{"nan consumption", func(v *Vehicle) { v.ConsumptionKmPerSOC = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := valid
			tt.mutate(&v)
			assert.ErrorIs(t, v.Validate(), ErrInvalidVehicle)
		})
	}
}

func TestVehicleEnergyModel(t *testing.T) {
	v := Vehicle{BatteryKWh: 77, ConsumptionKmPerSOC: 6, ChargeRateSOCPerMin: 1.5}

	assert.InDelta(t, 50.0, v.SOCNeeded(300), 1e-9)
	assert.InDelta(t, 20.0, v.ChargeMinutes(30), 1e-9)
	assert.Zero(t, v.ChargeMinutes(-10))
}

func TestValidateSOC(t *testing.T) {
	for _, soc := range []float64{0, 20, 100} {
		assert.NoError(t, ValidateSOC("start_soc", soc))
	}
	for _, soc := range []float64{-0.1, 100.5, math.NaN()} {
		assert.ErrorIs(t, ValidateSOC("start_soc", soc), ErrInvalidSOC)
	}
}

func TestErrorCode(t *testing.T) {
	wrapped := func(err error) error { return fmt.Errorf("plan trip: get route: %w", err) }

	assert.Equal(t, "NoRoute", ErrorCode(wrapped(ErrNoRoute)))
	assert.Equal(t, "NoChargingStation", ErrorCode(ErrNoChargingStation))
	assert.Equal(t, "InvalidVehicle", ErrorCode(ErrInvalidVehicle))
	assert.Equal(t, "InvalidSOC", ErrorCode(ErrInvalidSOC))
	assert.Equal(t, "VehicleNotFound", ErrorCode(ErrVehicleNotFound))
	assert.Equal(t, "ProviderUnavailable", ErrorCode(wrapped(ErrProviderUnavailable)))
	assert.Empty(t, ErrorCode(assert.AnError))
}
