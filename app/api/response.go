// Package api holds the JSON response helpers shared by the HTTP handlers.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/stockroom/inventory/app/stock"
	"github.com/stockroom/inventory/models"
)

// WriteJSON writes data as a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes {"error": message}.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

// WriteDomainError maps known domain failures to a status and message.
// Anything unrecognised becomes a 500 carrying fallback, not the raw error.
func WriteDomainError(w http.ResponseWriter, err error, fallback string) {
	var stockErr *models.InsufficientStockError
	switch {
	case stock.IsValidation(err):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrProductNotFound), errors.Is(err, models.ErrCategoryNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrCategoryInUse), errors.Is(err, models.ErrCategoryExists):
		WriteError(w, http.StatusConflict, err.Error())
	case errors.As(err, &stockErr):
		WriteError(w, http.StatusConflict, stockErr.Error())
	default:
		slog.Error(fallback, "error", err)
		WriteError(w, http.StatusInternalServerError, fallback)
	}
}

// IDParam reads a positive numeric URL parameter.
func IDParam(r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
