package ports

import (
	"context"
	"ev-route-service/internal/domain"
)

// Port: hook for persisting finished plans. The planner never reads them back.
type PlanRepository interface {
	// Store the query and both plan variants, returning the stored query id.
	SavePlan(ctx context.Context, query domain.PlanQuery, plan *domain.TripPlan) (int64, error)
}
