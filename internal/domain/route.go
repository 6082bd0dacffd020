package domain

// Represents a driving route returned by the route provider.
// Polyline vertices are ordered (lon, lat) pairs from start to end.
// A Route is immutable once produced; planning code only reads it.
type Route struct {
	Polyline    []Coordinates
	DistanceKm  float64
	DurationMin float64
}

// Place is a geocoding candidate for free-text location input.
type Place struct {
	Label string
	Coord Coordinates
}
