package handlers

import (
	"errors"
	"ev-route-service/internal/api/dto"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"
	"ev-route-service/internal/services"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	defaultStationResults = 80
	maxStationResults     = 500
)

// StationHandler lists normalized charging stations inside a bounding box.
type StationHandler struct {
	Stations ports.StationProvider
}

func (h *StationHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	bbox, err := parseBBox(q.Get("bbox"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	maxResults := defaultStationResults
	if raw := strings.TrimSpace(q.Get("maxresults")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxStationResults {
			writeError(w, r, http.StatusBadRequest,
				fmt.Sprintf("maxresults must be between 1 and %d", maxStationResults))
			return
		}
		maxResults = n
	}

	recs, err := h.Stations.StationsInBoundingBox(r.Context(), bbox, maxResults)
	if err != nil {
		if code := domain.ErrorCode(err); code != "" {
			writeCodedError(w, r, errorStatus(err), code, err)
			return
		}
		obs.Logger(r.Context()).Error("list stations failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	cands := services.NormalizeStations(recs)
	res := dto.ListStationsResponse{
		Count: len(cands),
		Items: make([]dto.StationResponse, 0, len(cands)),
	}
	for _, c := range cands {
		res.Items = append(res.Items, stationResponse(c))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// parseBBox reads "minLon,minLat,maxLon,maxLat".
func parseBBox(raw string) (domain.BoundingBox, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return domain.BoundingBox{}, errors.New("bbox must be minLon,minLat,maxLon,maxLat")
	}
	vals := make([]float64, 4)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.BoundingBox{}, fmt.Errorf("bbox value %q is not a number", p)
		}
		vals[i] = v
	}
	bbox := domain.BoundingBox{MinLon: vals[0], MinLat: vals[1], MaxLon: vals[2], MaxLat: vals[3]}
	if bbox.MinLon > bbox.MaxLon || bbox.MinLat > bbox.MaxLat {
		return domain.BoundingBox{}, errors.New("bbox minimums must not exceed maximums")
	}
	return bbox, nil
}
