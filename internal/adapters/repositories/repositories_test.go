package repositories

import (
	"context"
	"encoding/json"
	"ev-route-service/internal/domain"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVehicleSeeds(t *testing.T) {
	data := []byte(`[
		{"id": 1, "name": " Hatchback ", "battery_kwh": 55, "consumption_km_per_soc": 4.2, "charge_rate_soc_per_min": 1.2},
		{"id": 2, "name": "SUV", "battery_kwh": 82, "consumption_km_per_soc": 5.1, "charge_rate_soc_per_min": 1.1}
	]`)

	seeds, err := ParseVehicleSeeds(data)
	require.NoError(t, err)
	require.Len(t, seeds, 2)
	assert.Equal(t, "Hatchback", seeds[0].Name)
	assert.Equal(t, domain.Vehicle{
		VehicleID:           2,
		Name:                "SUV",
		BatteryKWh:          82,
		ConsumptionKmPerSOC: 5.1,
		ChargeRateSOCPerMin: 1.1,
	}, seeds[1].Vehicle())
}

func TestParseVehicleSeedsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"bad id", `[{"id": 0, "name": "x", "battery_kwh": 1, "consumption_km_per_soc": 1, "charge_rate_soc_per_min": 1}]`},
		{"empty name", `[{"id": 1, "name": " ", "battery_kwh": 1, "consumption_km_per_soc": 1, "charge_rate_soc_per_min": 1}]`},
		{"zero consumption", `[{"id": 1, "name": "x", "battery_kwh": 1, "consumption_km_per_soc": 0, "charge_rate_soc_per_min": 1}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseVehicleSeeds([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestReadVehicleSeeds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vehicles.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`[{"id": 3, "name": "Sedan", "battery_kwh": 77, "consumption_km_per_soc": 6, "charge_rate_soc_per_min": 1.5}]`), 0o600))

	seeds, err := ReadVehicleSeeds(path)
	require.NoError(t, err)
	require.Len(t, seeds, 1)
	assert.Equal(t, 3, seeds[0].ID)

	_, err = ReadVehicleSeeds(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func testPlan() *domain.TripPlan {
	route := domain.Route{
		Polyline:    []domain.Coordinates{{Lon: 10, Lat: 50}, {Lon: 11, Lat: 50.5}},
		DistanceKm:  300,
		DurationMin: 180,
	}
	stop := domain.ChargingCandidate{ID: 9, Name: "Hub", Coord: domain.Coordinates{Lon: 10.5, Lat: 50.2}, PowerKW: 150, Network: "Ionity"}
	return &domain.TripPlan{
		Fastest: domain.PlanVariant{
			Kind: domain.Fastest, DriveMin: 180, ChargeMin: 20, TotalTimeMin: 200, SlowFactor: 1,
			Route: route, Stops: []domain.ChargingCandidate{stop},
		},
		Cheapest: domain.PlanVariant{
			Kind: domain.Cheapest, DriveMin: 180, ChargeMin: 26, TotalTimeMin: 206, SlowFactor: 1.3,
			Route: route, Stops: []domain.ChargingCandidate{stop},
		},
		Selection: domain.ChargeSelection{Decision: domain.OneStop},
	}
}

func TestBuildPlanRows(t *testing.T) {
	rows, err := buildPlanRows(testPlan())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "fastest", rows[0].planType)
	assert.Equal(t, "cheapest", rows[1].planType)
	assert.Equal(t, 206.0, rows[1].totalTimeMin)

	var line lineString
	require.NoError(t, json.Unmarshal(rows[0].route, &line))
	assert.Equal(t, "LineString", line.Type)
	assert.Equal(t, [][]float64{{10, 50}, {11, 50.5}}, line.Coordinates)

	var steps stepsRecord
	require.NoError(t, json.Unmarshal(rows[1].steps, &steps))
	assert.Equal(t, "one_stop", steps.Decision)
	assert.Equal(t, 1.3, steps.SlowFactor)
	require.Len(t, steps.Stops, 1)
	assert.Equal(t, stopRecord{ID: 9, Name: "Hub", Lon: 10.5, Lat: 50.2, PowerKW: 150, Network: "Ionity"}, steps.Stops[0])
}

func TestMemoryVehicleRepository(t *testing.T) {
	repo := NewMemoryVehicleRepository(
		domain.Vehicle{VehicleID: 2, Name: "b"},
		domain.Vehicle{VehicleID: 1, Name: "a"},
	)

	v, err := repo.GetVehicle(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "b", v.Name)

	_, err = repo.GetVehicle(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrVehicleNotFound)

	list, err := repo.ListVehicles(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].VehicleID)
	assert.Equal(t, 2, list[1].VehicleID)
}

func TestMemoryPlanRepository(t *testing.T) {
	repo := NewMemoryPlanRepository(0)

	id1, err := repo.SavePlan(context.Background(), domain.PlanQuery{StartSOC: 80}, testPlan())
	require.NoError(t, err)
	id2, err := repo.SavePlan(context.Background(), domain.PlanQuery{StartSOC: 40}, testPlan())
	require.NoError(t, err)

	assert.Equal(t, int64(1), id1)
	assert.Equal(t, int64(2), id2)
	assert.Equal(t, 2, repo.Count())
	assert.Equal(t, int64(2), repo.Saved[1].Query.QueryID)

	_, err = repo.SavePlan(context.Background(), domain.PlanQuery{}, nil)
	assert.Error(t, err)
}

func TestMemoryPlanRepositoryEvictsOldest(t *testing.T) {
	repo := NewMemoryPlanRepository(2)

	for i := 0; i < 5; i++ {
		_, err := repo.SavePlan(context.Background(), domain.PlanQuery{}, testPlan())
		require.NoError(t, err)
	}

	assert.Equal(t, 2, repo.Count())
	assert.Equal(t, int64(4), repo.Saved[0].Query.QueryID)
	assert.Equal(t, int64(5), repo.Saved[1].Query.QueryID)

	id, err := repo.SavePlan(context.Background(), domain.PlanQuery{}, testPlan())
	require.NoError(t, err)
	assert.Equal(t, int64(6), id)
	assert.Equal(t, 2, repo.Count())
}

func TestPostgresRepositoriesRequireDB(t *testing.T) {
	_, err := NewPostgresPlanRepository(nil).SavePlan(context.Background(), domain.PlanQuery{}, testPlan())
	assert.Error(t, err)

	assert.Error(t, InitSchema(context.Background(), nil))
}
