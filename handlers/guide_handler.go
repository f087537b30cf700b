package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"recyclifyAPI/services"
)

type GuideHandler struct {
	guideService *services.GuideService
}

func NewGuideHandler(guideService *services.GuideService) *GuideHandler {
	return &GuideHandler{
		guideService: guideService,
	}
}

func (h *GuideHandler) GetGuides(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	category := r.URL.Query().Get("category")
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 0)

	result, err := h.guideService.ListPublished(ctx, category, page, limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *GuideHandler) GetGuideBySlug(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	slug := mux.Vars(r)["slug"]

	g, err := h.guideService.GetBySlug(ctx, slug)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, g)
}

func (h *GuideHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	categories, err := h.guideService.Categories(ctx)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, categories)
}
