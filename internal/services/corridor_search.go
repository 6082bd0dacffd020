package services

import (
	"context"
	"errors"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/ports"
	"fmt"
)

// Defaults for corridor search.
const (
	DefaultBufferKm        = 7.5
	DefaultCorridorDegrees = 0.05 // roughly 5 km at mid latitudes
	DefaultMaxResults      = 120
)

// CorridorParams controls how wide the station search around a route is.
type CorridorParams struct {
	BufferKm        float64
	CorridorDegrees float64
	MaxResults      int
}

func DefaultCorridorParams() CorridorParams {
	return CorridorParams{
		BufferKm:        DefaultBufferKm,
		CorridorDegrees: DefaultCorridorDegrees,
		MaxResults:      DefaultMaxResults,
	}
}

// withDefaults fills zero fields with package defaults.
func (p CorridorParams) withDefaults() CorridorParams {
	d := DefaultCorridorParams()
	if p.BufferKm <= 0 {
		p.BufferKm = d.BufferKm
	}
	if p.CorridorDegrees <= 0 {
		p.CorridorDegrees = d.CorridorDegrees
	}
	if p.MaxResults <= 0 {
		p.MaxResults = d.MaxResults
	}
	return p
}

// CorridorResult carries the corridor candidates, or the station provider
// failure that left the candidate set empty.
type CorridorResult struct {
	Candidates  []domain.ChargingCandidate
	ProviderErr error
}

// Degraded reports whether the candidate set is empty because the provider failed.
func (r CorridorResult) Degraded() bool { return r.ProviderErr != nil }

func (r CorridorResult) Status() domain.StationsStatus {
	if r.Degraded() {
		return domain.StationsProviderUnavailable
	}
	return domain.StationsOK
}

// FindCorridorCandidates looks up charging stations within the corridor around route.
//
// A station provider failure does not abort planning: it yields an empty
// candidate set with ProviderErr set. The returned error is reserved for
// invalid input and caller cancellation.
func FindCorridorCandidates(
	ctx context.Context,
	route domain.Route,
	params CorridorParams,
	provider ports.StationProvider,
) (CorridorResult, error) {
	if provider == nil {
		return CorridorResult{}, errors.New("find corridor candidates: station provider must be non-nil")
	}
	params = params.withDefaults()

	bbox, err := BufferedBoundingBox(route.Polyline, params.BufferKm)
	if err != nil {
		return CorridorResult{}, fmt.Errorf("find corridor candidates: %w", err)
	}

	raw, err := provider.StationsInBoundingBox(ctx, bbox, params.MaxResults)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return CorridorResult{}, fmt.Errorf("find corridor candidates: %w", ctxErr)
		}
		if !errors.Is(err, domain.ErrProviderUnavailable) {
			err = fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
		}
		return CorridorResult{Candidates: []domain.ChargingCandidate{}, ProviderErr: err}, nil
	}

	candidates := NormalizeStations(raw)
	candidates = FilterCorridor(candidates, route.Polyline, params.CorridorDegrees)
	candidates = DedupeCandidates(candidates)

	return CorridorResult{Candidates: candidates}, nil
}

// FilterCorridor keeps candidates within maxDegrees (planar) of the polyline, preserving order.
func FilterCorridor(
	candidates []domain.ChargingCandidate,
	vertices []domain.Coordinates,
	maxDegrees float64,
) []domain.ChargingCandidate {
	out := make([]domain.ChargingCandidate, 0, len(candidates))
	for _, c := range candidates {
		if PointToPolylineDistance(c.Coord, vertices) <= maxDegrees {
			out = append(out, c)
		}
	}
	return out
}

// DedupeCandidates drops repeated ids; the first occurrence wins.
// Candidates without an id (0) are never treated as duplicates.
func DedupeCandidates(candidates []domain.ChargingCandidate) []domain.ChargingCandidate {
	seen := make(map[int]struct{}, len(candidates))
	out := make([]domain.ChargingCandidate, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == 0 {
			out = append(out, c)
			continue
		}
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}
