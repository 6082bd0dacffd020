package routing

import (
	"context"
	"ev-route-service/internal/domain"
	"fmt"
)

// MockRouteProvider returns a fixed route (or error) and counts calls.
type MockRouteProvider struct {
	Route domain.Route
	Err   error
	Calls int
}

func NewMockRouteProvider(route domain.Route) *MockRouteProvider {
	return &MockRouteProvider{Route: route}
}

func (p *MockRouteProvider) GetRoute(ctx context.Context, start, end domain.Coordinates, profile string) (domain.Route, error) {
	p.Calls++
	if p.Err != nil {
		return domain.Route{}, p.Err
	}
	if len(p.Route.Polyline) == 0 {
		return domain.Route{}, fmt.Errorf("mock route %v -> %v: %w", start, end, domain.ErrNoRoute)
	}
	return p.Route, nil
}
