package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"ev-route-service/internal/domain"
	"fmt"
	"os"
	"strings"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createVehiclesQuery := `
	CREATE TABLE IF NOT EXISTS vehicles (
		id SERIAL PRIMARY KEY,
		name VARCHAR(64) NOT NULL,
		battery_kwh DOUBLE PRECISION NOT NULL,
		consumption_km_per_soc DOUBLE PRECISION NOT NULL,
		charge_rate_soc_per_min DOUBLE PRECISION NOT NULL
	);
	`

	createQueriesQuery := `
	CREATE TABLE IF NOT EXISTS queries (
		id BIGSERIAL PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		start_lon DOUBLE PRECISION NOT NULL,
		start_lat DOUBLE PRECISION NOT NULL,
		end_lon DOUBLE PRECISION NOT NULL,
		end_lat DOUBLE PRECISION NOT NULL,
		start_soc DOUBLE PRECISION NOT NULL,
		arrival_soc DOUBLE PRECISION NOT NULL,
		vehicle_id INTEGER REFERENCES vehicles(id)
	);
	`

	createPlansQuery := `
	CREATE TABLE IF NOT EXISTS plans (
		id BIGSERIAL PRIMARY KEY,
		query_id BIGINT NOT NULL REFERENCES queries(id) ON DELETE CASCADE,
		plan_type VARCHAR(32) NOT NULL,
		total_time_min DOUBLE PRECISION NOT NULL,
		total_cost_eur DOUBLE PRECISION,
		route_geojson JSONB NOT NULL,
		steps JSONB NOT NULL
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		start_lon DOUBLE PRECISION NOT NULL,
		start_lat DOUBLE PRECISION NOT NULL,
		end_lon DOUBLE PRECISION NOT NULL,
		end_lat DOUBLE PRECISION NOT NULL,
		profile TEXT NOT NULL,
		distance_km DOUBLE PRECISION NOT NULL,
		duration_min DOUBLE PRECISION NOT NULL,
		polyline JSONB NOT NULL,
		PRIMARY KEY (start_lon, start_lat, end_lon, end_lat, profile)
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		query TEXT NOT NULL,
		result_limit INTEGER NOT NULL,
		places JSONB NOT NULL,
		PRIMARY KEY (query, result_limit)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_plans_query_id
	ON plans(query_id);
	`

	statements := []string{
		createVehiclesQuery,
		createQueriesQuery,
		createPlansQuery,
		createRouteCacheQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type VehicleSeed struct {
	ID                  int     `json:"id"`
	Name                string  `json:"name"`
	BatteryKWh          float64 `json:"battery_kwh"`
	ConsumptionKmPerSOC float64 `json:"consumption_km_per_soc"`
	ChargeRateSOCPerMin float64 `json:"charge_rate_soc_per_min"`
}

// ParseVehicleSeeds decodes and validates a vehicle seed file.
func ParseVehicleSeeds(data []byte) ([]VehicleSeed, error) {
	var seeds []VehicleSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("seed vehicles: parse json: %w", err)
	}

	for i, s := range seeds {
		if s.ID <= 0 {
			return nil, fmt.Errorf("seed vehicles: invalid id at index %d: %d", i+1, s.ID)
		}
		seeds[i].Name = strings.TrimSpace(s.Name)
		if seeds[i].Name == "" {
			return nil, fmt.Errorf("seed vehicles: item at index %d: name cannot be empty", i+1)
		}
		if err := s.Vehicle().Validate(); err != nil {
			return nil, fmt.Errorf("seed vehicles: item at index %d: %w", i+1, err)
		}
	}

	return seeds, nil
}

func (s VehicleSeed) Vehicle() domain.Vehicle {
	return domain.Vehicle{
		VehicleID:           s.ID,
		Name:                s.Name,
		BatteryKWh:          s.BatteryKWh,
		ConsumptionKmPerSOC: s.ConsumptionKmPerSOC,
		ChargeRateSOCPerMin: s.ChargeRateSOCPerMin,
	}
}

// ReadVehicleSeeds loads and validates a vehicle seed file.
func ReadVehicleSeeds(jsonPath string) ([]VehicleSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed vehicles: read %q: %w", jsonPath, err)
	}
	return ParseVehicleSeeds(bytes)
}

// Populate the vehicles table from a JSON file.
func SeedVehiclesFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	seeds, err := ReadVehicleSeeds(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed vehicles: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO vehicles (id, name, battery_kwh, consumption_km_per_soc, charge_rate_soc_per_min)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		battery_kwh = EXCLUDED.battery_kwh,
		consumption_km_per_soc = EXCLUDED.consumption_km_per_soc,
		charge_rate_soc_per_min = EXCLUDED.charge_rate_soc_per_min;
	`)
	if err != nil {
		return fmt.Errorf("seed vehicles: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range seeds {
		if _, err := stmt.ExecContext(ctx, s.ID, s.Name, s.BatteryKWh, s.ConsumptionKmPerSOC, s.ChargeRateSOCPerMin); err != nil {
			return fmt.Errorf("seed vehicles: insert id=%d: %w", s.ID, err)
		}
	}

	// Keep the serial ahead of explicitly seeded ids.
	if _, err := tx.ExecContext(ctx, `
	SELECT setval(pg_get_serial_sequence('vehicles', 'id'), COALESCE(MAX(id), 1))
	FROM vehicles;
	`); err != nil {
		return fmt.Errorf("seed vehicles: sync id sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed vehicles: commit tx: %w", err)
	}

	return nil
}
