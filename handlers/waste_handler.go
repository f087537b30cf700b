package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"recyclifyAPI/internal/waste"
	"recyclifyAPI/middleware"
	"recyclifyAPI/services"
)

type WasteHandler struct {
	wasteService *services.WasteService
}

func NewWasteHandler(wasteService *services.WasteService) *WasteHandler {
	return &WasteHandler{
		wasteService: wasteService,
	}
}

func (h *WasteHandler) LogWaste(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req waste.LogWasteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.wasteService.RecordEntry(ctx, clerkID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	middleware.ObserveWasteLog(result.PointsAwarded)

	respondWithJSON(w, http.StatusCreated, map[string]any{
		"success":       true,
		"message":       result.Message,
		"pointsAwarded": result.PointsAwarded,
		"log":           result.Log,
	})
}

func (h *WasteHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	logs, err := h.wasteService.GetLogsForUser(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, logs)
}
