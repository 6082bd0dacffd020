package services

import (
	"context"
	"errors"
	"ev-route-service/internal/adapters/stations"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/ports"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func straightRoute() domain.Route {
	return domain.Route{
		Polyline: []domain.Coordinates{
			{Lon: 10.0, Lat: 50.0},
			{Lon: 11.0, Lat: 50.0},
			{Lon: 12.0, Lat: 50.0},
		},
		DistanceKm:  143,
		DurationMin: 90,
	}
}

func TestFindCorridorCandidates(t *testing.T) {
	provider := stations.NewMockStationProvider([]ports.RawStation{
		stations.Station(1, "near start", 10.1, 50.01, 50),
		stations.Station(2, "too far", 11.0, 50.2, 150),
		{ID: 3}, // no coordinates
		stations.Station(4, "near end", 11.9, 49.98, 0),
		stations.Station(1, "duplicate", 11.5, 50.0, 300),
	})

	res, err := FindCorridorCandidates(context.Background(), straightRoute(), DefaultCorridorParams(), provider)
	require.NoError(t, err)

	assert.False(t, res.Degraded())
	assert.Equal(t, domain.StationsOK, res.Status())
	require.Len(t, res.Candidates, 2)
	assert.Equal(t, "near start", res.Candidates[0].Name)
	assert.Equal(t, "near end", res.Candidates[1].Name)
	assert.Equal(t, domain.DefaultPowerKW, res.Candidates[1].PowerKW)

	assert.Equal(t, 1, provider.Calls)
	assert.Equal(t, DefaultMaxResults, provider.LastMaxRes)
	assert.True(t, inBox(provider.LastBBox, domain.Coordinates{Lon: 10.0, Lat: 50.0}))
	assert.True(t, inBox(provider.LastBBox, domain.Coordinates{Lon: 12.0, Lat: 50.0}))
}

func TestFindCorridorCandidatesIdempotent(t *testing.T) {
	provider := stations.NewMockStationProvider([]ports.RawStation{
		stations.Station(7, "a", 10.5, 50.0, 22),
		stations.Station(8, "b", 11.5, 50.0, 50),
	})

	first, err := FindCorridorCandidates(context.Background(), straightRoute(), CorridorParams{}, provider)
	require.NoError(t, err)
	second, err := FindCorridorCandidates(context.Background(), straightRoute(), CorridorParams{}, provider)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFilterCorridorIdempotent(t *testing.T) {
	line := straightRoute().Polyline
	cands := []domain.ChargingCandidate{
		{ID: 1, Coord: domain.Coordinates{Lon: 10.2, Lat: 50.03}},
		{ID: 2, Coord: domain.Coordinates{Lon: 11.0, Lat: 50.3}},
		{ID: 3, Coord: domain.Coordinates{Lon: 11.7, Lat: 49.97}},
		{ID: 4, Coord: domain.Coordinates{Lon: 9.97, Lat: 50.0}},
		{ID: 5, Coord: domain.Coordinates{Lon: 12.2, Lat: 50.0}},
	}

	once := FilterCorridor(cands, line, 0.05)
	twice := FilterCorridor(once, line, 0.05)

	assert.Equal(t, once, twice)
	require.Len(t, once, 3)
	assert.Equal(t, []int{1, 3, 4}, []int{once[0].ID, once[1].ID, once[2].ID})
}

func TestFindCorridorCandidatesProviderFailure(t *testing.T) {
	provider := stations.NewMockStationProvider(nil)
	provider.Err = errors.New("connection refused")

	res, err := FindCorridorCandidates(context.Background(), straightRoute(), DefaultCorridorParams(), provider)
	require.NoError(t, err)

	assert.True(t, res.Degraded())
	assert.Equal(t, domain.StationsProviderUnavailable, res.Status())
	assert.Empty(t, res.Candidates)
	assert.ErrorIs(t, res.ProviderErr, domain.ErrProviderUnavailable)
}

func TestFindCorridorCandidatesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider := stations.NewMockStationProvider(nil)
	provider.Err = context.Canceled

	_, err := FindCorridorCandidates(ctx, straightRoute(), DefaultCorridorParams(), provider)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFindCorridorCandidatesEmptyRoute(t *testing.T) {
	provider := stations.NewMockStationProvider(nil)

	_, err := FindCorridorCandidates(context.Background(), domain.Route{}, DefaultCorridorParams(), provider)
	assert.Error(t, err)
	assert.Zero(t, provider.Calls)
}

func TestFilterCorridorBoundary(t *testing.T) {
	line := []domain.Coordinates{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}}
	cands := []domain.ChargingCandidate{
		{ID: 1, Coord: domain.Coordinates{Lon: 0.5, Lat: 0.05}},
		{ID: 2, Coord: domain.Coordinates{Lon: 0.5, Lat: 0.0500001}},
		{ID: 3, Coord: domain.Coordinates{Lon: 0.2, Lat: -0.01}},
	}

	out := FilterCorridor(cands, line, 0.05)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].ID)
	assert.Equal(t, 3, out[1].ID)
}

func TestDedupeCandidatesFirstWins(t *testing.T) {
	cands := []domain.ChargingCandidate{
		{ID: 5, Name: "first"},
		{ID: 6, Name: "other"},
		{ID: 5, Name: "second"},
	}

	out := DedupeCandidates(cands)
	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0].Name)
	assert.Equal(t, "other", out[1].Name)
}

func TestDedupeCandidatesKeepsStationsWithoutID(t *testing.T) {
	cands := []domain.ChargingCandidate{
		{ID: 0, Name: "unnamed a"},
		{ID: 9, Name: "known"},
		{ID: 0, Name: "unnamed b"},
		{ID: 9, Name: "known again"},
	}

	out := DedupeCandidates(cands)
	require.Len(t, out, 3)
	assert.Equal(t, "unnamed a", out[0].Name)
	assert.Equal(t, "known", out[1].Name)
	assert.Equal(t, "unnamed b", out[2].Name)
}
