package main

import (
	"context"
	"database/sql"
	"errors"
	"ev-route-service/internal/adapters/cache"
	"ev-route-service/internal/adapters/geocoding"
	"ev-route-service/internal/adapters/repositories"
	"ev-route-service/internal/adapters/routing"
	"ev-route-service/internal/adapters/stations"
	"ev-route-service/internal/api"
	"ev-route-service/internal/config"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/db"
	"ev-route-service/internal/platform/logging"
	"ev-route-service/internal/platform/metrics"
	"ev-route-service/internal/platform/redis"
	"ev-route-service/internal/ports"
	"ev-route-service/internal/services"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// main is the application composition root.
// It wires concrete adapters (Postgres, redis, OSRM, OCM, Photon) behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		sqlDB      *sql.DB
		routeCache *cache.SQLRouteCache
		placeCache *cache.SQLPlaceCache
		vehicles   ports.VehicleRepository
		plans      ports.PlanRepository
	)

	if strings.TrimSpace(cfg.Database.URL) != "" {
		conn, err := db.Open(cfg.Database.URL)
		if err != nil {
			return err
		}
		defer conn.Close()
		sqlDB = conn

		if err := repositories.InitSchema(ctx, sqlDB); err != nil {
			return err
		}
		routeCache = cache.NewSQLRouteCache(sqlDB)
		placeCache = cache.NewSQLPlaceCache(sqlDB)
		vehicles = repositories.NewPostgresVehicleRepository(sqlDB)
		plans = repositories.NewPostgresPlanRepository(sqlDB)
	} else {
		// Without a database, vehicles come from the seed file and plans stay in memory.
		seedPath := config.Get("SEED_PATH", "data/seeds/vehicles.json")
		var seeded []domain.Vehicle
		seeds, err := repositories.ReadVehicleSeeds(seedPath)
		if err != nil {
			logger.Warn("no vehicle seeds loaded", zap.String("path", seedPath), zap.Error(err))
		}
		for _, s := range seeds {
			seeded = append(seeded, s.Vehicle())
		}
		vehicles = repositories.NewMemoryVehicleRepository(seeded...)
		plans = repositories.NewMemoryPlanRepository(repositories.DefaultPlanLimit)
		logger.Info("database not configured, using in-memory repositories", zap.Int("vehicles", len(seeded)))
	}

	timeout := cfg.ProviderTimeout()

	routeProvider, err := routing.NewOSRMRouteProvider(cfg.Providers.OSRMBaseURL, timeout, routeCache)
	if err != nil {
		return err
	}

	var stationProvider ports.StationProvider
	ocm, err := stations.NewOCMStationProvider(
		cfg.Providers.OCMBaseURL, cfg.Providers.OCMAPIKey, cfg.Providers.OCMCountryCode, timeout)
	if err != nil {
		return err
	}
	stationProvider = ocm

	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		client, err := redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password)
		if err != nil {
			return err
		}
		defer client.Close()

		cached, err := cache.NewRedisStationCache(client, ocm, cfg.StationCacheTTL())
		if err != nil {
			return err
		}
		stationProvider = cached
	}

	geocoder, err := geocoding.NewPhotonGeocoder(cfg.Providers.PhotonBaseURL, timeout, placeCache)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.RouterDeps{
		Routes:   routeProvider,
		Stations: stationProvider,
		Geocoder: geocoder,
		Vehicles: vehicles,
		Plans:    plans,
		Corridor: services.CorridorParams{
			BufferKm:        cfg.Planner.BufferKm,
			CorridorDegrees: cfg.Planner.CorridorDegrees,
			MaxResults:      cfg.Planner.MaxResults,
		},
		Profile:  cfg.Planner.Profile,
		Metrics:  m,
		Gatherer: reg,
		Logger:   logger,
	})

	// Timeouts are tuned for cold-cache planning (external API latency).
	srv := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
