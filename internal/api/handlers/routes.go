package handlers

import (
	"errors"
	"ev-route-service/internal/api/dto"
	"ev-route-service/internal/domain"
	"ev-route-service/internal/platform/obs"
	"ev-route-service/internal/ports"
	"ev-route-service/internal/services"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// RouteHandler exposes plain route lookups without charging.
type RouteHandler struct {
	Routes  ports.RouteProvider
	Profile string
}

func (h *RouteHandler) Route(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.RouteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	start, err := parseLonLat("start", req.Start)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseLonLat("end", req.End)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	profile := strings.TrimSpace(req.Profile)
	if profile == "" {
		profile = h.Profile
	}
	if profile == "" {
		profile = services.DefaultProfile
	}

	route, err := h.Routes.GetRoute(r.Context(), start, end, profile)
	if errors.Is(err, domain.ErrNoRoute) {
		writeJSON(w, r, http.StatusOK, errorResponse{Error: domain.ErrorCode(err)})
		return
	}
	if err != nil {
		if code := domain.ErrorCode(err); code != "" {
			writeCodedError(w, r, errorStatus(err), code, err)
			return
		}
		obs.Logger(r.Context()).Error("get route failed", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RouteResponse{
		DistanceKm:  route.DistanceKm,
		DurationMin: route.DurationMin,
		Line:        lineString(route),
	})
}
