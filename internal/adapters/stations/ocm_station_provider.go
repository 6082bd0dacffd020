package stations

import (
	"context"
	"encoding/json"
	"errors"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// OCMStationProvider implements StationProvider using the Open Charge Map POI API.
type OCMStationProvider struct {
	session     *http.Client
	baseURL     string
	apiKey      string
	countryCode string
}

func NewOCMStationProvider(baseURL, apiKey, countryCode string, timeout time.Duration) (*OCMStationProvider, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("OCM base url is empty")
	}
	if timeout <= 0 {
		return nil, errors.New("OCM timeout must be positive")
	}

	return &OCMStationProvider{
		session:     &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		apiKey:      strings.TrimSpace(apiKey),
		countryCode: strings.TrimSpace(countryCode),
	}, nil
}

type ocmPOI struct {
	ID          int `json:"ID"`
	AddressInfo *struct {
		Title     string   `json:"Title"`
		Latitude  *float64 `json:"Latitude"`
		Longitude *float64 `json:"Longitude"`
	} `json:"AddressInfo"`
	Connections []struct {
		PowerKW *float64 `json:"PowerKW"`
	} `json:"Connections"`
	OperatorInfo *struct {
		Title string `json:"Title"`
	} `json:"OperatorInfo"`
}

// StationsInBoundingBox returns raw POIs inside bbox in provider order.
// Transport failures and non-2xx statuses wrap domain.ErrProviderUnavailable.
func (o *OCMStationProvider) StationsInBoundingBox(
	ctx context.Context,
	bbox domain.BoundingBox,
	maxResults int,
) (_ []ports.RawStation, err error) {
	defer obs.Time(ctx, "ocm.StationsInBoundingBox")(&err)

	req, err := o.newRequest(ctx, o.baseURL)
	if err != nil {
		return nil, fmt.Errorf("ocm stations: %w", err)
	}

	q := req.URL.Query()
	q.Set("output", "json")
	q.Set("boundingbox", fmt.Sprintf("(%s,%s),(%s,%s)",
		ftoa(bbox.MinLat), ftoa(bbox.MinLon), ftoa(bbox.MaxLat), ftoa(bbox.MaxLon)))
	q.Set("maxresults", strconv.Itoa(maxResults))
	q.Set("compact", "true")
	q.Set("verbose", "false")
	if o.countryCode != "" {
		q.Set("countrycode", o.countryCode)
	}
	req.URL.RawQuery = q.Encode()

	resp, err := o.do(req)
	if err != nil {
		return nil, fmt.Errorf("ocm stations: %w: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	var pois []ocmPOI
	if err := json.NewDecoder(resp.Body).Decode(&pois); err != nil {
		return nil, fmt.Errorf("ocm stations: decode response: %w: %w", domain.ErrProviderUnavailable, err)
	}

	out := make([]ports.RawStation, 0, len(pois))
	for _, p := range pois {
		rec := ports.RawStation{ID: p.ID}
		if p.AddressInfo != nil {
			rec.AddressInfo = &ports.RawAddress{
				Title:     p.AddressInfo.Title,
				Latitude:  p.AddressInfo.Latitude,
				Longitude: p.AddressInfo.Longitude,
			}
		}
		for _, c := range p.Connections {
			rec.Connections = append(rec.Connections, ports.RawConnection{PowerKW: c.PowerKW})
		}
		if p.OperatorInfo != nil {
			rec.OperatorInfo = &ports.RawOperator{Title: p.OperatorInfo.Title}
		}
		out = append(out, rec)
	}

	return out, nil
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
