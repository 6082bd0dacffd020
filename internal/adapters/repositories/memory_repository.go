package repositories

import (
	"context"
	"errors"
	"ev-route-service/internal/domain"
	"fmt"
	"sort"
	"sync"
)

// MemoryVehicleRepository serves vehicles from memory. Used when no database
// is configured and in tests.
type MemoryVehicleRepository struct {
	mu       sync.RWMutex
	vehicles map[int]domain.Vehicle
}

func NewMemoryVehicleRepository(vehicles ...domain.Vehicle) *MemoryVehicleRepository {
	m := make(map[int]domain.Vehicle, len(vehicles))
	for _, v := range vehicles {
		m[v.VehicleID] = v
	}
	return &MemoryVehicleRepository{vehicles: m}
}

func (r *MemoryVehicleRepository) GetVehicle(ctx context.Context, id int) (*domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vehicles[id]
	if !ok {
		return nil, fmt.Errorf("get vehicle id=%d: %w", id, domain.ErrVehicleNotFound)
	}
	return &v, nil
}

func (r *MemoryVehicleRepository) ListVehicles(ctx context.Context) ([]*domain.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		out = append(out, &v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VehicleID < out[j].VehicleID })
	return out, nil
}

// DefaultPlanLimit bounds how many plans a MemoryPlanRepository retains.
const DefaultPlanLimit = 256

// MemoryPlanRepository keeps the most recent plans in memory; older ones are evicted.
type MemoryPlanRepository struct {
	mu     sync.Mutex
	nextID int64
	limit  int
	Saved  []SavedPlan
}

type SavedPlan struct {
	Query domain.PlanQuery
	Plan  domain.TripPlan
}

// NewMemoryPlanRepository returns a store holding at most limit plans.
// A non-positive limit selects DefaultPlanLimit.
func NewMemoryPlanRepository(limit int) *MemoryPlanRepository {
	if limit <= 0 {
		limit = DefaultPlanLimit
	}
	return &MemoryPlanRepository{limit: limit}
}

func (r *MemoryPlanRepository) SavePlan(ctx context.Context, query domain.PlanQuery, plan *domain.TripPlan) (int64, error) {
	if plan == nil {
		return 0, errors.New("save plan: plan must be non-nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	query.QueryID = r.nextID
	if len(r.Saved) >= r.limit {
		n := copy(r.Saved, r.Saved[len(r.Saved)-r.limit+1:])
		clear(r.Saved[n:])
		r.Saved = r.Saved[:n]
	}
	r.Saved = append(r.Saved, SavedPlan{Query: query, Plan: *plan})
	return r.nextID, nil
}

// Count returns the number of saved plans.
func (r *MemoryPlanRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Saved)
}
