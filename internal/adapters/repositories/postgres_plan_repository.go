package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"ev-route-service/internal/domain"
	"fmt"
)

// Postgres-backed implementation of the PlanRepository port.
type PostgresPlanRepository struct{ DB *sql.DB }

func NewPostgresPlanRepository(db *sql.DB) *PostgresPlanRepository {
	return &PostgresPlanRepository{DB: db}
}

type lineString struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

type stopRecord struct {
	ID      int     `json:"ocm_id"`
	Name    string  `json:"name"`
	Lon     float64 `json:"lon"`
	Lat     float64 `json:"lat"`
	PowerKW float64 `json:"power_kw"`
	Network string  `json:"network,omitempty"`
}

type stepsRecord struct {
	Decision     string       `json:"decision"`
	DriveMin     float64      `json:"drive_min"`
	ChargeMin    float64      `json:"charge_min"`
	TotalTimeMin float64      `json:"total_time_min"`
	SlowFactor   float64      `json:"slow_factor"`
	Stops        []stopRecord `json:"stops"`
}

type planRow struct {
	planType     string
	totalTimeMin float64
	route        []byte
	steps        []byte
}

// buildPlanRows serializes both variants into plan table rows.
func buildPlanRows(plan *domain.TripPlan) ([]planRow, error) {
	rows := make([]planRow, 0, 2)
	for _, v := range []domain.PlanVariant{plan.Fastest, plan.Cheapest} {
		coords := make([][]float64, 0, len(v.Route.Polyline))
		for _, c := range v.Route.Polyline {
			coords = append(coords, c.CoordsToList())
		}
		route, err := json.Marshal(lineString{Type: "LineString", Coordinates: coords})
		if err != nil {
			return nil, fmt.Errorf("encode %s route: %w", v.Kind, err)
		}

		stops := make([]stopRecord, 0, len(v.Stops))
		for _, s := range v.Stops {
			stops = append(stops, stopRecord{
				ID:      s.ID,
				Name:    s.Name,
				Lon:     s.Coord.Lon,
				Lat:     s.Coord.Lat,
				PowerKW: s.PowerKW,
				Network: s.Network,
			})
		}
		steps, err := json.Marshal(stepsRecord{
			Decision:     plan.Selection.Decision.String(),
			DriveMin:     v.DriveMin,
			ChargeMin:    v.ChargeMin,
			TotalTimeMin: v.TotalTimeMin,
			SlowFactor:   v.SlowFactor,
			Stops:        stops,
		})
		if err != nil {
			return nil, fmt.Errorf("encode %s steps: %w", v.Kind, err)
		}

		rows = append(rows, planRow{
			planType:     string(v.Kind),
			totalTimeMin: v.TotalTimeMin,
			route:        route,
			steps:        steps,
		})
	}
	return rows, nil
}

// SavePlan stores the query row and one plan row per variant in a single transaction.
func (s *PostgresPlanRepository) SavePlan(ctx context.Context, query domain.PlanQuery, plan *domain.TripPlan) (int64, error) {
	if s.DB == nil {
		return 0, errors.New("postgres plan repository: DB is nil")
	}
	if plan == nil {
		return 0, errors.New("save plan: plan must be non-nil")
	}

	rows, err := buildPlanRows(plan)
	if err != nil {
		return 0, fmt.Errorf("save plan: %w", err)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("save plan: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var queryID int64
	err = tx.QueryRowContext(ctx, `
	INSERT INTO queries (start_lon, start_lat, end_lon, end_lat, start_soc, arrival_soc, vehicle_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id;
	`,
		query.Start.Lon, query.Start.Lat, query.End.Lon, query.End.Lat,
		query.StartSOC, query.ArrivalSOC, query.VehicleID,
	).Scan(&queryID)
	if err != nil {
		return 0, fmt.Errorf("save plan: insert query: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO plans (query_id, plan_type, total_time_min, total_cost_eur, route_geojson, steps)
	VALUES ($1, $2, $3, NULL, $4, $5);
	`)
	if err != nil {
		return 0, fmt.Errorf("save plan: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, queryID, r.planType, r.totalTimeMin, string(r.route), string(r.steps)); err != nil {
			return 0, fmt.Errorf("save plan: insert %s plan: %w", r.planType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("save plan: commit tx: %w", err)
	}

	return queryID, nil
}
