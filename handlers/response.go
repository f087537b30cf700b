package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"recyclifyAPI/internal/apperror"
)

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]any{
		"success": false,
		"error":   message,
	})
}

// respondWithServiceError maps the error taxonomy onto HTTP codes. Every
// mutating endpoint funnels its failures through here so the client sees
// one uniform {success, error} shape.
func respondWithServiceError(w http.ResponseWriter, err error) {
	var verr *apperror.ValidationError
	var serr *apperror.StorageError

	switch {
	case errors.Is(err, apperror.ErrUnauthenticated):
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
	case errors.Is(err, apperror.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Not found")
	case errors.As(err, &verr):
		respondWithJSON(w, http.StatusBadRequest, map[string]any{
			"success":     false,
			"error":       "Validation failed",
			"fieldErrors": verr.Fields,
		})
	case errors.As(err, &serr):
		log.Printf("Storage error: %v", serr)
		respondWithError(w, http.StatusInternalServerError, "A server error occurred. Please try again later.")
	default:
		log.Printf("Unexpected error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "A server error occurred. Please try again later.")
	}
}
