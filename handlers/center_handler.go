package handlers

import (
	"context"
	"net/http"
	"time"

	"recyclifyAPI/services"
)

type CenterHandler struct {
	centerService *services.CenterService
}

func NewCenterHandler(centerService *services.CenterService) *CenterHandler {
	return &CenterHandler{
		centerService: centerService,
	}
}

// GetCenters lists recycling centers. By default only centers with
// coordinates are returned, since the map view cannot place the rest;
// pass all=true for the full directory listing.
func (h *CenterHandler) GetCenters(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	hasCoordinates := r.URL.Query().Get("all") != "true"
	limit := queryInt(r, "limit", 0)

	centers, err := h.centerService.List(ctx, hasCoordinates, limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, centers)
}
