package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"ev-route-service/internal/adapters/cache"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// PhotonGeocoder implements Geocoder using the Photon search API.
// Results are optionally cached per normalized query.
type PhotonGeocoder struct {
	session    *http.Client
	baseURL    string
	placeCache *cache.SQLPlaceCache
}

func NewPhotonGeocoder(baseURL string, timeout time.Duration, placeCache *cache.SQLPlaceCache) (*PhotonGeocoder, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("photon base url is empty")
	}
	if timeout <= 0 {
		return nil, errors.New("photon timeout must be positive")
	}
	return &PhotonGeocoder{
		session:    &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		placeCache: placeCache,
	}, nil
}

type photonResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties map[string]any `json:"properties"`
	} `json:"features"`
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func (p *PhotonGeocoder) Autocomplete(ctx context.Context, query string, limit int) (_ []domain.Place, err error) {
	defer obs.Time(ctx, "photon.Autocomplete")(&err)

	norm := normalize(query)
	if norm == "" {
		return nil, errors.New("autocomplete: query must be non-empty")
	}

	if p.placeCache != nil {
		cached, ok, err := p.placeCache.Get(ctx, norm, limit)
		if err != nil {
			obs.Logger(ctx).Warn("place cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api", nil)
	if err != nil {
		return nil, fmt.Errorf("autocomplete: create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("q", query)
	q.Set("limit", strconv.Itoa(limit))
	req.URL.RawQuery = q.Encode()

	resp, err := p.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("autocomplete: %w: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("autocomplete: %w: status %d: %s",
			domain.ErrProviderUnavailable, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var decoded photonResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("autocomplete: decode response: %w", err)
	}

	out := make([]domain.Place, 0, len(decoded.Features))
	for _, f := range decoded.Features {
		coords := f.Geometry.Coordinates
		if len(coords) != 2 {
			continue
		}
		out = append(out, domain.Place{
			Label: displayLabel(f.Properties),
			Coord: domain.Coordinates{Lon: coords[0], Lat: coords[1]},
		})
	}

	if p.placeCache != nil {
		if err := p.placeCache.Put(ctx, norm, limit, out); err != nil {
			obs.Logger(ctx).Warn("place cache write failed", zap.Error(err))
		}
	}

	return out, nil
}

// displayLabel joins the best available name with city and country.
func displayLabel(props map[string]any) string {
	label := firstString(props, "name", "label", "street")
	if label == "" {
		label = "Result"
	}
	parts := []string{label}
	if city := firstString(props, "city", "county"); city != "" {
		parts = append(parts, city)
	}
	if country := firstString(props, "country"); country != "" {
		parts = append(parts, country)
	}
	return strings.Join(parts, ", ")
}

func firstString(props map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := props[k].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
