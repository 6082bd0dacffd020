package repositories

import (
	"context"
	"database/sql"
	"errors"
	"ev-route-service/internal/domain"
	"fmt"
)

// Postgres-backed implementation of the VehicleRepository port.
type PostgresVehicleRepository struct{ DB *sql.DB }

func NewPostgresVehicleRepository(db *sql.DB) *PostgresVehicleRepository {
	return &PostgresVehicleRepository{DB: db}
}

func (s *PostgresVehicleRepository) GetVehicle(ctx context.Context, id int) (*domain.Vehicle, error) {
	if s.DB == nil {
		return nil, errors.New("postgres vehicle repository: DB is nil")
	}

	query := `
	SELECT
		id,
		name,
		battery_kwh,
		consumption_km_per_soc,
		charge_rate_soc_per_min
	FROM vehicles
	WHERE id = $1;
	`
	var v domain.Vehicle
	err := s.DB.QueryRowContext(ctx, query, id).Scan(
		&v.VehicleID, &v.Name, &v.BatteryKWh, &v.ConsumptionKmPerSOC, &v.ChargeRateSOCPerMin,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get vehicle id=%d: %w", id, domain.ErrVehicleNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get vehicle id=%d: %w", id, err)
	}

	return &v, nil
}

// Return all vehicles stored in the database.
func (s *PostgresVehicleRepository) ListVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	if s.DB == nil {
		return nil, errors.New("postgres vehicle repository: DB is nil")
	}

	query := `
	SELECT
		id,
		name,
		battery_kwh,
		consumption_km_per_soc,
		charge_rate_soc_per_min
	FROM vehicles
	ORDER BY id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicles: query vehicles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0, 16)
	for rows.Next() {
		var v domain.Vehicle
		if err := rows.Scan(&v.VehicleID, &v.Name, &v.BatteryKWh, &v.ConsumptionKmPerSOC, &v.ChargeRateSOCPerMin); err != nil {
			return nil, fmt.Errorf("list vehicles: scan row: %w", err)
		}
		vehicles = append(vehicles, &v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicles: row iteration: %w", err)
	}

	return vehicles, nil
}
