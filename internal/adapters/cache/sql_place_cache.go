package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"fmt"
	"strings"
)

// SQLPlaceCache is a SQL-backed cache mapping autocomplete queries to places.
// Query keys are expected to be normalized by the caller.
type SQLPlaceCache struct {
	DB *sql.DB
}

func NewSQLPlaceCache(db *sql.DB) *SQLPlaceCache {
	return &SQLPlaceCache{DB: db}
}

type placeRow struct {
	Label string  `json:"label"`
	Lon   float64 `json:"lon"`
	Lat   float64 `json:"lat"`
}

// Fetch cached places for a query. ok is false on a cache miss.
func (s *SQLPlaceCache) Get(ctx context.Context, query string, limit int) (_ []domain.Place, ok bool, err error) {
	defer obs.Time(ctx, "place.cache.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("place cache: db is nil")
	}
	if strings.TrimSpace(query) == "" {
		return nil, false, errors.New("get place cache: query must not be empty")
	}

	var raw []byte
	err = s.DB.QueryRowContext(ctx, `
	SELECT places
	FROM geocode_cache
	WHERE query = $1 AND result_limit = $2;
	`, query, limit).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get place cache: query geocode_cache table: %w", err)
	}

	var rows []placeRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, false, fmt.Errorf("get place cache: decode places: %w", err)
	}

	out := make([]domain.Place, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Place{Label: r.Label, Coord: domain.Coordinates{Lon: r.Lon, Lat: r.Lat}})
	}
	return out, true, nil
}

// Store the places for a query.
func (s *SQLPlaceCache) Put(ctx context.Context, query string, limit int, places []domain.Place) error {
	if s.DB == nil {
		return errors.New("place cache: db is nil")
	}
	if strings.TrimSpace(query) == "" {
		return errors.New("insert place cache: empty query key")
	}

	rows := make([]placeRow, 0, len(places))
	for _, p := range places {
		rows = append(rows, placeRow{Label: p.Label, Lon: p.Coord.Lon, Lat: p.Coord.Lat})
	}
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("insert place cache: encode places: %w", err)
	}

	if _, err := s.DB.ExecContext(ctx, `
	INSERT INTO geocode_cache (query, result_limit, places)
	VALUES ($1, $2, $3)
	ON CONFLICT (query, result_limit) DO UPDATE
	SET places = EXCLUDED.places;
	`, query, limit, string(raw)); err != nil {
		return fmt.Errorf("insert place cache query=%q: %w", query, err)
	}

	return nil
}
