package handlers

import (
	"encoding/json"
	"errors"
	"ev-route-service/internal/api/dto"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"fmt"
	"io"
	"math"
	"net/http"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		obs.Logger(r.Context()).Warn("encode failed",
			zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}

// writeCodedError reports a planning failure by its wire code.
func writeCodedError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	writeJSON(w, r, status, errorResponse{Error: code, Message: err.Error()})
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// decodeBody reads exactly one JSON object, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

// parseLonLat converts a [lon, lat] pair.
func parseLonLat(field string, v []float64) (domain.Coordinates, error) {
	if len(v) != 2 {
		return domain.Coordinates{}, fmt.Errorf("%s must be [lon, lat]", field)
	}
	lon, lat := v[0], v[1]
	if math.IsNaN(lon) || math.IsNaN(lat) || lon < -180 || lon > 180 || lat < -90 || lat > 90 {
		return domain.Coordinates{}, fmt.Errorf("%s is out of range", field)
	}
	return domain.Coordinates{Lon: lon, Lat: lat}, nil
}

// errorStatus maps a planning failure to its HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidVehicle), errors.Is(err, domain.ErrInvalidSOC):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrVehicleNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoChargingStation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrProviderUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func lineString(route domain.Route) dto.LineString {
	coords := make([][]float64, 0, len(route.Polyline))
	for _, c := range route.Polyline {
		coords = append(coords, c.CoordsToList())
	}
	return dto.LineString{Type: "LineString", Coordinates: coords}
}

func stationResponse(c domain.ChargingCandidate) dto.StationResponse {
	return dto.StationResponse{
		ID:      c.ID,
		Name:    c.Name,
		Lon:     c.Coord.Lon,
		Lat:     c.Coord.Lat,
		PowerKW: c.PowerKW,
		Network: c.Network,
	}
}
