package ports

import (
	"context"
	"ev-route-service/internal/domain"
)

// Contract for free-text location autocomplete.
type Geocoder interface {
	Autocomplete(ctx context.Context, query string, limit int) ([]domain.Place, error)
}
