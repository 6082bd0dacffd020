package stations

import (
	"context"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ocmBody = `[
  {"ID": 101, "AddressInfo": {"Title": "Rastplatz", "Latitude": 50.1, "Longitude": 8.7},
   "Connections": [{"PowerKW": 150}], "OperatorInfo": {"Title": "EnBW"}},
  {"ID": 102, "AddressInfo": {"Title": "No coords"}, "Connections": []},
  {"ID": 103, "AddressInfo": {"Title": "Unknown power", "Latitude": 50.2, "Longitude": 8.8},
   "Connections": [{"PowerKW": null}]}
]`

func TestOCMStationsInBoundingBox(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(ocmBody))
	}))
	t.Cleanup(srv.Close)

	p, err := NewOCMStationProvider(srv.URL, "secret", "DE", time.Second)
	require.NoError(t, err)

	bbox := domain.BoundingBox{MinLon: 8.5, MinLat: 50.0, MaxLon: 9.0, MaxLat: 50.5}
	recs, err := p.StationsInBoundingBox(context.Background(), bbox, 120)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "secret", got.Header.Get("X-API-Key"))
	q := got.URL.Query()
	assert.Equal(t, "(50.000000,8.500000),(50.500000,9.000000)", q.Get("boundingbox"))
	assert.Equal(t, "120", q.Get("maxresults"))
	assert.Equal(t, "json", q.Get("output"))
	assert.Equal(t, "true", q.Get("compact"))
	assert.Equal(t, "false", q.Get("verbose"))
	assert.Equal(t, "DE", q.Get("countrycode"))

	require.Len(t, recs, 3)
	assert.Equal(t, 101, recs[0].ID)
	require.NotNil(t, recs[0].AddressInfo)
	assert.Equal(t, "Rastplatz", recs[0].AddressInfo.Title)
	require.NotNil(t, recs[0].Connections[0].PowerKW)
	assert.Equal(t, 150.0, *recs[0].Connections[0].PowerKW)
	assert.Equal(t, "EnBW", recs[0].OperatorInfo.Title)

	assert.Nil(t, recs[1].AddressInfo.Latitude)
	assert.Nil(t, recs[2].Connections[0].PowerKW)
	assert.Nil(t, recs[2].OperatorInfo)
}

func TestOCMStationsProviderUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusServiceUnavailable, "down"},
		{"forbidden", http.StatusForbidden, "bad key"},
		{"malformed", http.StatusOK, "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(srv.Close)

			p, err := NewOCMStationProvider(srv.URL, "", "", time.Second)
			require.NoError(t, err)

			_, err = p.StationsInBoundingBox(context.Background(), domain.BoundingBox{}, 10)
			assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
		})
	}
}

func TestOCMStationsStatusErrorAndRequestID(t *testing.T) {
	var gotID, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("  invalid key \n"))
	}))
	t.Cleanup(srv.Close)

	p, err := NewOCMStationProvider(srv.URL, "k", "", time.Second)
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), obs.RequestIDKey, "req-7")
	_, err = p.StationsInBoundingBox(ctx, domain.BoundingBox{}, 10)
	require.ErrorIs(t, err, domain.ErrProviderUnavailable)

	var he *httpStatusError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Code)
	assert.Equal(t, "invalid key", he.Body)
	assert.Equal(t, "req-7", gotID)
	assert.Equal(t, "application/json", gotAccept)
}

func TestMockStationProviderTruncates(t *testing.T) {
	p := NewMockStationProvider([]ports.RawStation{
		Station(1, "a", 1, 1, 50),
		Station(2, "b", 2, 2, 0),
		Station(3, "c", 3, 3, 11),
	})

	recs, err := p.StationsInBoundingBox(context.Background(), domain.BoundingBox{MaxLon: 5, MaxLat: 5}, 2)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	assert.Nil(t, recs[1].Connections[0].PowerKW)
	assert.Equal(t, 2, p.LastMaxRes)
}
