package services

import (
	"ev-route-service/internal/domain"
	"ev-route-service/internal/ports"
	"strings"
)

const defaultStationName = "Charger"

// NormalizeStation maps a raw provider record into a ChargingCandidate.
// Records without coordinates yield ok=false; partial provider data is expected.
func NormalizeStation(rec ports.RawStation) (domain.ChargingCandidate, bool) {
	addr := rec.AddressInfo
	if addr == nil || addr.Latitude == nil || addr.Longitude == nil {
		return domain.ChargingCandidate{}, false
	}

	name := strings.TrimSpace(addr.Title)
	if name == "" {
		name = defaultStationName
	}

	// Only the first connection is consulted, matching the provider's compact output.
	power := domain.DefaultPowerKW
	if len(rec.Connections) > 0 {
		if p := rec.Connections[0].PowerKW; p != nil && *p > 0 {
			power = *p
		}
	}

	network := ""
	if rec.OperatorInfo != nil {
		network = strings.TrimSpace(rec.OperatorInfo.Title)
	}

	return domain.ChargingCandidate{
		ID:      rec.ID,
		Name:    name,
		Coord:   domain.Coordinates{Lon: *addr.Longitude, Lat: *addr.Latitude},
		PowerKW: power,
		Network: network,
	}, true
}

// NormalizeStations normalizes records in order, silently dropping unusable ones.
func NormalizeStations(recs []ports.RawStation) []domain.ChargingCandidate {
	out := make([]domain.ChargingCandidate, 0, len(recs))
	for _, r := range recs {
		if c, ok := NormalizeStation(r); ok {
			out = append(out, c)
		}
	}
	return out
}
