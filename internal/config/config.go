package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	configFileEnv = "CONFIG_FILE"
	envPrefix     = "EVR_"
)

type HTTPConfig struct {
	Port                string `koanf:"port"`
	WriteTimeoutSeconds int    `koanf:"write_timeout_seconds"`
}

type DatabaseConfig struct {
	URL string `koanf:"url"`
}

type RedisConfig struct {
	Addr              string `koanf:"addr"`
	Password          string `koanf:"password"`
	StationTTLSeconds int    `koanf:"station_ttl_seconds"`
}

// ProvidersConfig holds external service endpoints. It is read-only after startup.
type ProvidersConfig struct {
	OSRMBaseURL    string `koanf:"osrm_base_url"`
	PhotonBaseURL  string `koanf:"photon_base_url"`
	OCMBaseURL     string `koanf:"ocm_base_url"`
	OCMAPIKey      string `koanf:"ocm_api_key"`
	OCMCountryCode string `koanf:"ocm_country_code"`
	TimeoutSeconds int    `koanf:"timeout_seconds"`
}

type PlannerConfig struct {
	BufferKm        float64 `koanf:"buffer_km"`
	CorridorDegrees float64 `koanf:"corridor_degrees"`
	MaxResults      int     `koanf:"max_results"`
	Profile         string  `koanf:"profile"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

type Config struct {
	HTTP      HTTPConfig      `koanf:"http"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Providers ProvidersConfig `koanf:"providers"`
	Planner   PlannerConfig   `koanf:"planner"`
	Log       LogConfig       `koanf:"log"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Port:                "8080",
			WriteTimeoutSeconds: 120,
		},
		Redis: RedisConfig{
			StationTTLSeconds: 600,
		},
		Providers: ProvidersConfig{
			OSRMBaseURL:    "https://router.project-osrm.org",
			PhotonBaseURL:  "https://photon.komoot.io",
			OCMBaseURL:     "https://api.openchargemap.io/v3/poi",
			TimeoutSeconds: 15,
		},
		Planner: PlannerConfig{
			BufferKm:        7.5,
			CorridorDegrees: 0.05,
			MaxResults:      120,
			Profile:         "driving",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and EVR_ environment variables (EVR_PROVIDERS__OCM_API_KEY sets
// providers.ocm_api_key). A .env file is loaded first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")

	if path := strings.TrimSpace(os.Getenv(configFileEnv)); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: load %q: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("config: load env: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate rejects values the planner and provider clients cannot work with.
func (c Config) Validate() error {
	var errs []error
	if c.Planner.BufferKm <= 0 {
		errs = append(errs, fmt.Errorf("planner.buffer_km must be positive, got %v", c.Planner.BufferKm))
	}
	if c.Planner.CorridorDegrees <= 0 {
		errs = append(errs, fmt.Errorf("planner.corridor_degrees must be positive, got %v", c.Planner.CorridorDegrees))
	}
	if c.Planner.MaxResults <= 0 {
		errs = append(errs, fmt.Errorf("planner.max_results must be positive, got %d", c.Planner.MaxResults))
	}
	if c.Providers.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("providers.timeout_seconds must be positive, got %d", c.Providers.TimeoutSeconds))
	}
	for _, u := range []struct{ name, value string }{
		{"providers.osrm_base_url", c.Providers.OSRMBaseURL},
		{"providers.ocm_base_url", c.Providers.OCMBaseURL},
		{"providers.photon_base_url", c.Providers.PhotonBaseURL},
	} {
		if strings.TrimSpace(u.value) == "" {
			errs = append(errs, fmt.Errorf("%s is required", u.name))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// ProviderTimeout is the per-call timeout for route, station and geocoding providers.
func (c Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Providers.TimeoutSeconds) * time.Second
}

func (c Config) StationCacheTTL() time.Duration {
	return time.Duration(c.Redis.StationTTLSeconds) * time.Second
}

// HTTPAddress returns the listen address in :port form.
func (c Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// Get returns the environment value for key or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
