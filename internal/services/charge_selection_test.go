package services

import (
	"ev-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVehicle() domain.Vehicle {
	return domain.Vehicle{
		VehicleID:           1,
		Name:                "test",
		BatteryKWh:          77,
		ConsumptionKmPerSOC: 6.0,
		ChargeRateSOCPerMin: 1.5,
	}
}

func testCandidates() []domain.ChargingCandidate {
	return []domain.ChargingCandidate{
		{ID: 1, Name: "slow", PowerKW: 11},
		{ID: 2, Name: "fast", PowerKW: 150},
		{ID: 3, Name: "medium", PowerKW: 50},
	}
}

func TestSelectStopsNoStop(t *testing.T) {
	sel, err := SelectStops(300, 80, 20, testVehicle(), testCandidates())
	require.NoError(t, err)

	assert.Equal(t, domain.NoStop, sel.Decision)
	assert.Empty(t, sel.Stops)
	assert.NotNil(t, sel.Stops)
	assert.InDelta(t, 50.0, sel.SOCNeeded, 1e-9)
	assert.Zero(t, sel.ChargeMin)
}

func TestSelectStopsNoStopIgnoresCandidates(t *testing.T) {
	// Arrival exactly at the reserve still needs no stop, even with nothing available.
	sel, err := SelectStops(300, 70, 20, testVehicle(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.NoStop, sel.Decision)
}

func TestSelectStopsOneStop(t *testing.T) {
	v := testVehicle()

	sel, err := SelectStops(300, 40, 20, v, testCandidates())
	require.NoError(t, err)

	assert.Equal(t, domain.OneStop, sel.Decision)
	require.Len(t, sel.Stops, 1)
	assert.Equal(t, "fast", sel.Stops[0].Name)
	assert.InDelta(t, 30.0, sel.DeltaNeeded, 1e-9)
	assert.Equal(t, []float64{30}, sel.PerStopSOC)
	assert.InDelta(t, 30/v.ChargeRateSOCPerMin, sel.ChargeMin, 1e-9)
}

func TestSelectStopsOneStopAtThreshold(t *testing.T) {
	// delta of exactly 100 points is still one stop.
	sel, err := SelectStops(600, 20, 20, testVehicle(), testCandidates())
	require.NoError(t, err)

	assert.Equal(t, domain.OneStop, sel.Decision)
	assert.InDelta(t, 100.0, sel.DeltaNeeded, 1e-9)
}

func TestSelectStopsTwoStops(t *testing.T) {
	v := testVehicle()

	sel, err := SelectStops(600, 20, 30, v, testCandidates())
	require.NoError(t, err)

	assert.Equal(t, domain.TwoStop, sel.Decision)
	require.Len(t, sel.Stops, 2)
	assert.Equal(t, "fast", sel.Stops[0].Name)
	assert.Equal(t, "medium", sel.Stops[1].Name)
	assert.InDelta(t, 110.0, sel.DeltaNeeded, 1e-9)
	assert.Equal(t, []float64{55, 55}, sel.PerStopSOC)
	assert.InDelta(t, 110/v.ChargeRateSOCPerMin, sel.ChargeMin, 1e-9)
}

func TestSelectStopsNoChargingStation(t *testing.T) {
	tests := []struct {
		name       string
		routeKm    float64
		startSOC   float64
		arrivalSOC float64
		candidates []domain.ChargingCandidate
	}{
		{"one stop without candidates", 300, 40, 20, nil},
		{"two stops without candidates", 600, 20, 30, []domain.ChargingCandidate{}},
		{"two stops with one candidate", 600, 20, 30, []domain.ChargingCandidate{{ID: 1, PowerKW: 50}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SelectStops(tt.routeKm, tt.startSOC, tt.arrivalSOC, testVehicle(), tt.candidates)
			assert.ErrorIs(t, err, domain.ErrNoChargingStation)
		})
	}
}

func TestSelectStopsTieKeepsCorridorOrder(t *testing.T) {
	cands := []domain.ChargingCandidate{
		{ID: 10, PowerKW: 50},
		{ID: 11, PowerKW: 150},
		{ID: 12, PowerKW: 150},
		{ID: 13, PowerKW: 150},
	}

	sel, err := SelectStops(600, 20, 30, testVehicle(), cands)
	require.NoError(t, err)

	require.Len(t, sel.Stops, 2)
	assert.Equal(t, 11, sel.Stops[0].ID)
	assert.Equal(t, 12, sel.Stops[1].ID)
	// Input slice is not reordered.
	assert.Equal(t, 10, cands[0].ID)
}

func TestSelectStopsInvalidInput(t *testing.T) {
	bad := testVehicle()
	bad.ConsumptionKmPerSOC = 0

	_, err := SelectStops(100, 80, 20, bad, testCandidates())
	assert.ErrorIs(t, err, domain.ErrInvalidVehicle)

	_, err = SelectStops(100, 120, 20, testVehicle(), testCandidates())
	assert.ErrorIs(t, err, domain.ErrInvalidSOC)

	_, err = SelectStops(100, 80, -1, testVehicle(), testCandidates())
	assert.ErrorIs(t, err, domain.ErrInvalidSOC)
}
