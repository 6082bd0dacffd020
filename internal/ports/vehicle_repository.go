package ports

import (
	"context"
	"ev-route-service/internal/domain"
)

// Port: a boundary for retrieving stored vehicle profiles.
type VehicleRepository interface {
	// Return the vehicle or an error wrapping domain.ErrVehicleNotFound.
	GetVehicle(ctx context.Context, id int) (*domain.Vehicle, error)
	ListVehicles(ctx context.Context) ([]*domain.Vehicle, error)
}
