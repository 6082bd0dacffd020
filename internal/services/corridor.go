package services

import (
	"errors"
	"ev-route-service/internal/domain"
	"math"
)

const (
	kmPerDegree = 111.0
	// Floor on cos(latitude) so the longitude buffer stays bounded near the poles.
	minLonCosine = 0.2
)

// BufferedBoundingBox returns the bounding box of vertices expanded by bufferKm.
//
// This is a flat-plane approximation: latitude degrees are 111 km, longitude
// degrees are 111 km scaled by the cosine of the mean vertex latitude.
// Corridor thresholds downstream are tuned against this approximation, so it
// is intentionally not a geodesic buffer.
func BufferedBoundingBox(vertices []domain.Coordinates, bufferKm float64) (domain.BoundingBox, error) {
	if len(vertices) == 0 {
		return domain.BoundingBox{}, errors.New("buffered bounding box: vertices must not be empty")
	}
	if bufferKm < 0 || math.IsNaN(bufferKm) {
		bufferKm = 0
	}

	box := domain.BoundingBox{
		MinLon: vertices[0].Lon,
		MinLat: vertices[0].Lat,
		MaxLon: vertices[0].Lon,
		MaxLat: vertices[0].Lat,
	}
	sumLat := 0.0
	for _, v := range vertices {
		box.MinLon = math.Min(box.MinLon, v.Lon)
		box.MinLat = math.Min(box.MinLat, v.Lat)
		box.MaxLon = math.Max(box.MaxLon, v.Lon)
		box.MaxLat = math.Max(box.MaxLat, v.Lat)
		sumLat += v.Lat
	}

	meanLat := sumLat / float64(len(vertices))
	dLat := bufferKm / kmPerDegree
	dLon := bufferKm / (kmPerDegree * math.Max(minLonCosine, math.Cos(meanLat*math.Pi/180)))

	box.MinLon -= dLon
	box.MaxLon += dLon
	box.MinLat -= dLat
	box.MaxLat += dLat
	return box, nil
}

// PointToPolylineDistance returns the minimum planar distance, in degrees,
// from p to the straight segments joining vertices.
// It is a thresholding tool only and never a physical distance.
func PointToPolylineDistance(p domain.Coordinates, vertices []domain.Coordinates) float64 {
	switch len(vertices) {
	case 0:
		return math.Inf(1)
	case 1:
		return math.Hypot(p.Lon-vertices[0].Lon, p.Lat-vertices[0].Lat)
	}

	best := math.Inf(1)
	for i := 1; i < len(vertices); i++ {
		if d := pointToSegmentDistance(p, vertices[i-1], vertices[i]); d < best {
			best = d
		}
	}
	return best
}

func pointToSegmentDistance(p, a, b domain.Coordinates) float64 {
	abx, aby := b.Lon-a.Lon, b.Lat-a.Lat
	apx, apy := p.Lon-a.Lon, p.Lat-a.Lat

	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return math.Hypot(apx, apy)
	}

	// Project p onto ab and clamp to the segment.
	t := (apx*abx + apy*aby) / lenSq
	t = math.Max(0, math.Min(1, t))

	return math.Hypot(p.Lon-(a.Lon+t*abx), p.Lat-(a.Lat+t*aby))
}
