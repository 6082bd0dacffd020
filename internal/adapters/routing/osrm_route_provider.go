package routing

import (
	"context"
	"encoding/json"
	"errors"
	"ev-route-service/internal/adapters/cache"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

const osrmNoRoute = "NoRoute"

// OSRMRouteProvider implements RouteProvider using an OSRM server.
//
// Successful routes are optionally persisted in a SQL route cache keyed by
// start, end and profile. The provider is safe for concurrent use.
type OSRMRouteProvider struct {
	session    *http.Client
	baseURL    string
	routeCache *cache.SQLRouteCache
}

func NewOSRMRouteProvider(
	baseURL string,
	timeout time.Duration,
	routeCache *cache.SQLRouteCache,
) (*OSRMRouteProvider, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("OSRM base url is empty")
	}
	if timeout <= 0 {
		return nil, errors.New("OSRM timeout must be positive")
	}

	return &OSRMRouteProvider{
		session:    &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		routeCache: routeCache,
	}, nil
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry string  `json:"geometry"`
	} `json:"routes"`
}

// GetRoute returns the first OSRM route between start and end.
func (o *OSRMRouteProvider) GetRoute(
	ctx context.Context,
	start domain.Coordinates,
	end domain.Coordinates,
	profile string,
) (_ domain.Route, err error) {
	defer obs.Time(ctx, "osrm.GetRoute")(&err)

	if profile == "" {
		profile = "driving"
	}
	key := cache.RouteKey{Start: start, End: end, Profile: profile}

	// Check persistent route cache before issuing external API calls.
	if o.routeCache != nil {
		cached, ok, err := o.routeCache.Get(ctx, key)
		if err != nil {
			obs.Logger(ctx).Warn("route cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	route, err := o.fetchRoute(ctx, start, end, profile)
	if err != nil {
		return domain.Route{}, err
	}

	if o.routeCache != nil {
		if err := o.routeCache.Put(ctx, key, route); err != nil {
			obs.Logger(ctx).Warn("route cache write failed", zap.Error(err))
		}
	}

	return route, nil
}

func (o *OSRMRouteProvider) fetchRoute(
	ctx context.Context,
	start domain.Coordinates,
	end domain.Coordinates,
	profile string,
) (domain.Route, error) {
	coords := formatCoord(start) + ";" + formatCoord(end)
	endpoint := fmt.Sprintf("%s/route/v1/%s/%s", o.baseURL, url.PathEscape(profile), coords)

	req, err := o.newRequest(ctx, endpoint)
	if err != nil {
		return domain.Route{}, fmt.Errorf("osrm route: %w", err)
	}
	q := req.URL.Query()
	q.Set("overview", "full")
	q.Set("geometries", "polyline")
	q.Set("steps", "false")
	req.URL.RawQuery = q.Encode()

	resp, err := o.do(req)
	if err != nil {
		var he *httpStatusError
		// OSRM reports unroutable pairs as 400 with code NoRoute.
		if errors.As(err, &he) && he.Code == http.StatusBadRequest && strings.Contains(he.Body, osrmNoRoute) {
			return domain.Route{}, fmt.Errorf("osrm route: %w", domain.ErrNoRoute)
		}
		return domain.Route{}, fmt.Errorf("osrm route: %w: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Route{}, fmt.Errorf("osrm route: decode response: %w: %w", domain.ErrProviderUnavailable, err)
	}

	if decoded.Code == osrmNoRoute || len(decoded.Routes) == 0 {
		return domain.Route{}, fmt.Errorf("osrm route: %w", domain.ErrNoRoute)
	}

	r0 := decoded.Routes[0]
	vertices, err := decodePolyline(r0.Geometry)
	if err != nil {
		return domain.Route{}, fmt.Errorf("osrm route: %w: %w", domain.ErrProviderUnavailable, err)
	}

	return domain.Route{
		Polyline:    vertices,
		DistanceKm:  r0.Distance / 1000.0,
		DurationMin: r0.Duration / 60.0,
	}, nil
}

// decodePolyline turns an encoded polyline (lat, lon pairs) into (lon, lat) vertices.
func decodePolyline(geometry string) ([]domain.Coordinates, error) {
	coords, _, err := polyline.DecodeCoords([]byte(geometry))
	if err != nil {
		return nil, fmt.Errorf("decode polyline: %w", err)
	}
	if len(coords) < 2 {
		return nil, fmt.Errorf("decode polyline: expected at least 2 vertices, got %d", len(coords))
	}

	out := make([]domain.Coordinates, 0, len(coords))
	for _, c := range coords {
		out = append(out, domain.Coordinates{Lon: c[1], Lat: c[0]})
	}
	return out, nil
}

func formatCoord(c domain.Coordinates) string {
	return strconv.FormatFloat(c.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lat, 'f', -1, 64)
}
