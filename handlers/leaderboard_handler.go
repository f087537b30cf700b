package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"recyclifyAPI/services"
)

type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

// GetLeaderboard serves one ranked page. The service returns entries in
// descending-points order; ranks are assigned here from the page offset,
// since rank is positional and shifts as the population changes.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 0)

	result, err := h.leaderboardService.GetPage(ctx, page, limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	offset := (result.CurrentPage - 1) * result.PageSize
	for i, entry := range result.Entries {
		entry.Rank = offset + i + 1
	}

	respondWithJSON(w, http.StatusOK, result)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
