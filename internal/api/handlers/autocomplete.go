package handlers

import (
	"ev-route-service/internal/api/dto"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	defaultPlaceLimit = 5
	maxPlaceLimit     = 20
	minQueryLength    = 2
)

type AutocompleteHandler struct {
	Geocoder ports.Geocoder
}

func (h *AutocompleteHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	if h.Geocoder == nil {
		writeError(w, r, http.StatusServiceUnavailable, "autocomplete is not configured")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if utf8.RuneCountInString(query) < minQueryLength {
		writeError(w, r, http.StatusBadRequest, "q must be at least 2 characters")
		return
	}

	limit := defaultPlaceLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPlaceLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 20")
			return
		}
		limit = n
	}

	places, err := h.Geocoder.Autocomplete(r.Context(), query, limit)
	if err != nil {
		if code := domain.ErrorCode(err); code != "" {
			writeCodedError(w, r, errorStatus(err), code, err)
			return
		}
		obs.Logger(r.Context()).Error("autocomplete failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := make([]dto.PlaceResponse, 0, len(places))
	for _, p := range places {
		res = append(res, dto.PlaceResponse{Label: p.Label, Coord: p.Coord.CoordsToList()})
	}
	writeJSON(w, r, http.StatusOK, res)
}
