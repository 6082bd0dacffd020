package stations

import (
	"context"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/ports"
)

// MockStationProvider returns fixed records (or an error) and remembers the last query.
type MockStationProvider struct {
	Records    []ports.RawStation
	Err        error
	Calls      int
	LastBBox   domain.BoundingBox
	LastMaxRes int
}

func NewMockStationProvider(records []ports.RawStation) *MockStationProvider {
	return &MockStationProvider{Records: records}
}

func (p *MockStationProvider) StationsInBoundingBox(ctx context.Context, bbox domain.BoundingBox, maxResults int) ([]ports.RawStation, error) {
	p.Calls++
	p.LastBBox = bbox
	p.LastMaxRes = maxResults
	if p.Err != nil {
		return nil, p.Err
	}

	out := p.Records
	if maxResults > 0 && len(out) > maxResults {
		out = out[:maxResults]
	}
	return out, nil
}

// Station builds a raw record with coordinates and a single connection.
// A zero powerKW leaves the connection power unset.
func Station(id int, title string, lon, lat, powerKW float64) ports.RawStation {
	rec := ports.RawStation{
		ID:          id,
		AddressInfo: &ports.RawAddress{Title: title, Longitude: &lon, Latitude: &lat},
	}
	conn := ports.RawConnection{}
	if powerKW > 0 {
		conn.PowerKW = &powerKW
	}
	rec.Connections = []ports.RawConnection{conn}
	return rec
}
