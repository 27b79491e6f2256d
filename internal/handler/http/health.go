package http

import (
	"net/http"

	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/internal/utils"
)

const (
	statusOK          = "ok"
	statusUnavailable = "unavailable"
)

type healthResponse struct {
	Version string `json:"version"`
	Status  string `json:"status"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := healthResponse{
		Version: h.services.AppInfoService.GetAppVersion(ctx),
		Status:  statusOK,
	}

	if err := h.services.AppInfoService.Ping(ctx); err != nil {
		logger.FromRequest(r).Err(err).Msg("health check failed")
		resp.Status = statusUnavailable
		utils.WriteJSON(w, resp, http.StatusServiceUnavailable)
		return
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}
