package dto

type RouteRequest struct {
	Start   []float64 `json:"start"`
	End     []float64 `json:"end"`
	Profile string    `json:"profile"`
}

// LineString is a GeoJSON geometry of [lon, lat] positions.
type LineString struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

type RouteResponse struct {
	DistanceKm  float64    `json:"distance_km"`
	DurationMin float64    `json:"duration_min"`
	Line        LineString `json:"line"`
}
