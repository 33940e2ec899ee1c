package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"gitlab.com/timkado/api/alumni-chat-service/internal/domain"
)

// DependencyCheck reports whether one dependency is usable.
type DependencyCheck func(ctx context.Context) error

// HealthHandler reports liveness.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, `{"status":"OK"}`)
	}
}

// ReadyHandler runs every check with a short timeout. Any failing check makes the service NOT_READY.
// A nil check marks the dependency as not configured without affecting readiness.
func ReadyHandler(logger domain.Logger, checks map[string]DependencyCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		ready := true
		status := make(map[string]string, len(checks))
		for name, check := range checks {
			if check == nil {
				status[name] = "not_configured"
				continue
			}
			if err := check(ctx); err != nil {
				ready = false
				status[name] = "disconnected"
				logger.Warn(r.Context(), "Readiness check failed", "dependency", name, "error", err.Error())
				continue
			}
			status[name] = "connected"
		}

		response := struct {
			Status       string            `json:"status"`
			Dependencies map[string]string `json:"dependencies"`
		}{Dependencies: status}

		w.Header().Set("Content-Type", "application/json")
		if ready {
			response.Status = "READY"
			w.WriteHeader(http.StatusOK)
		} else {
			response.Status = "NOT_READY"
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Error(r.Context(), "Failed to encode readiness response", "error", err.Error())
		}
	}
}
