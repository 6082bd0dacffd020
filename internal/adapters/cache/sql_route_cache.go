package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"fmt"
	"math"
)

// RouteKey identifies a cached route. Coordinates are rounded to 1e-5 degrees
// (about a metre) so equivalent requests share an entry.
type RouteKey struct {
	Start   domain.Coordinates
	End     domain.Coordinates
	Profile string
}

func (k RouteKey) rounded() RouteKey {
	r := func(v float64) float64 { return math.Round(v*1e5) / 1e5 }
	return RouteKey{
		Start:   domain.Coordinates{Lon: r(k.Start.Lon), Lat: r(k.Start.Lat)},
		End:     domain.Coordinates{Lon: r(k.End.Lon), Lat: r(k.End.Lat)},
		Profile: k.Profile,
	}
}

// SQLRouteCache is a SQL-backed cache for route provider results.
type SQLRouteCache struct {
	DB *sql.DB
}

func NewSQLRouteCache(db *sql.DB) *SQLRouteCache {
	return &SQLRouteCache{DB: db}
}

// Fetch a cached route. ok is false on a cache miss.
func (s *SQLRouteCache) Get(ctx context.Context, key RouteKey) (_ domain.Route, ok bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return domain.Route{}, false, errors.New("route cache: db is nil")
	}
	k := key.rounded()

	q := `
	SELECT distance_km, duration_min, polyline
	FROM route_cache
	WHERE start_lon = $1 AND start_lat = $2
		AND end_lon = $3 AND end_lat = $4
		AND profile = $5;
	`

	var (
		distanceKm  float64
		durationMin float64
		raw         []byte
	)
	err = s.DB.QueryRowContext(ctx, q, k.Start.Lon, k.Start.Lat, k.End.Lon, k.End.Lat, k.Profile).
		Scan(&distanceKm, &durationMin, &raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	var pairs [][]float64
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: decode polyline: %w", err)
	}

	vertices := make([]domain.Coordinates, 0, len(pairs))
	for i, p := range pairs {
		if len(p) != 2 {
			return domain.Route{}, false, fmt.Errorf("get route cache: vertex %d has %d values", i, len(p))
		}
		vertices = append(vertices, domain.Coordinates{Lon: p[0], Lat: p[1]})
	}

	return domain.Route{Polyline: vertices, DistanceKm: distanceKm, DurationMin: durationMin}, true, nil
}

// Store a route, replacing any existing entry for the key.
func (s *SQLRouteCache) Put(ctx context.Context, key RouteKey, route domain.Route) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}
	k := key.rounded()

	pairs := make([][]float64, 0, len(route.Polyline))
	for _, v := range route.Polyline {
		pairs = append(pairs, v.CoordsToList())
	}
	raw, err := json.Marshal(pairs)
	if err != nil {
		return fmt.Errorf("insert route cache: encode polyline: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO route_cache (start_lon, start_lat, end_lon, end_lat, profile, distance_km, duration_min, polyline)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (start_lon, start_lat, end_lon, end_lat, profile) DO UPDATE
	SET distance_km = EXCLUDED.distance_km,
		duration_min = EXCLUDED.duration_min,
		polyline = EXCLUDED.polyline;
	`, k.Start.Lon, k.Start.Lat, k.End.Lon, k.End.Lat, k.Profile, route.DistanceKm, route.DurationMin, string(raw))
	if err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	return nil
}
