package ports

import (
	"context"
	"ev-route-service/internal/domain"
)

// Contract for retrieving a driving route between two coordinates.
type RouteProvider interface {
	// Return the best route, domain.ErrNoRoute when none exists, or an error
	// wrapping domain.ErrProviderUnavailable on transport/status failures.
	GetRoute(ctx context.Context, start, end domain.Coordinates, profile string) (domain.Route, error)
}
