package handlers

import (
	"net/http"

	"go.uber.org/zap"
)

const apiVersion = "2.0"

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		h.logger.Error("failed to compute stats", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// HealthCheck reports liveness plus the same counters as /stats; a failing
// database read degrades the status instead of hiding it.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		h.logger.Error("health check stats failed", zap.Error(err))
		respondJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "degraded",
			"message": "Database is unavailable",
			"version": apiVersion,
		})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "running",
		"message": "Scoratis API is healthy",
		"version": apiVersion,
		"stats":   stats,
	})
}
