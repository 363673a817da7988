package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/stockroom/inventory/app/api"
)

// Pinger checks that the store is reachable.
type Pinger func(ctx context.Context) error

type HealthResponse struct {
	Status    string    `json:"status"`
	Store     string    `json:"store"`
	Timestamp time.Time `json:"timestamp"`
}

type HealthHandler struct {
	ping   Pinger
	logger *slog.Logger
}

func NewHealthHandler(ping Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{ping: ping, logger: logger}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "healthy", Store: "ok", Timestamp: time.Now().UTC()}

	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.ping(ctx); err != nil {
			h.logger.Warn("store ping failed", "error", err)
			resp.Status = "degraded"
			resp.Store = "unreachable"
			api.WriteJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
	}

	api.WriteJSON(w, http.StatusOK, resp)
}
