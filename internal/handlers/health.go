package handlers

import (
	"net/http"
	"time"
)

var startTime = time.Now()

func (h *transactionHandlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(startTime).Round(time.Second).String(),
	})
}
