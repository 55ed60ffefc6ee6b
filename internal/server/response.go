package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"taskmaster/internal/recurrence"
	"taskmaster/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondServiceError maps well-known failures onto HTTP statuses;
// anything unrecognized is a 500 with a generic message.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrValidation), errors.Is(err, recurrence.ErrInvalidFrequency):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
