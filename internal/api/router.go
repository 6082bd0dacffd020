package api

import (
	"ev-route-service/internal/api/handlers"
	"ev-route-service/internal/platform/metrics"
	"ev-route-service/internal/ports"
	"ev-route-service/internal/services"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RouterDeps carries everything the HTTP layer needs. Plans and Geocoder may be nil.
type RouterDeps struct {
	Routes   ports.RouteProvider
	Stations ports.StationProvider
	Geocoder ports.Geocoder
	Vehicles ports.VehicleRepository
	Plans    ports.PlanRepository

	Corridor services.CorridorParams
	Profile  string

	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	planHandler := &handlers.PlanHandler{
		Routes:   deps.Routes,
		Stations: deps.Stations,
		Vehicles: deps.Vehicles,
		Plans:    deps.Plans,
		Corridor: deps.Corridor,
		Profile:  deps.Profile,
		Metrics:  deps.Metrics,
	}
	routeHandler := &handlers.RouteHandler{Routes: deps.Routes, Profile: deps.Profile}
	stationHandler := &handlers.StationHandler{Stations: deps.Stations}
	placeHandler := &handlers.AutocompleteHandler{Geocoder: deps.Geocoder}
	vehicleHandler := &handlers.VehicleHandler{Vehicles: deps.Vehicles}

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/api/v1/route", routeHandler.Route)
	mux.HandleFunc("/api/v1/charging-stations", stationHandler.List)
	mux.HandleFunc("/api/v1/autocomplete", placeHandler.Autocomplete)
	mux.HandleFunc("/api/v1/vehicles", vehicleHandler.List)
	mux.HandleFunc("/api/v1/ev-plan", planHandler.Plan)

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return requestMiddleware(logger, deps.Metrics, mux)
}
