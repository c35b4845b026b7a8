package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/dal"
)

// Pinger is a dependency that can report its connectivity
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health serves the health, liveness and readiness probes
type Health struct {
	store        dal.LeagueDAL
	dependencies map[string]Pinger
	timeout      time.Duration
}

// NewHealth creates probe handlers. The store is critical for readiness;
// dependencies only degrade the health report.
func NewHealth(store dal.LeagueDAL, dependencies map[string]Pinger) *Health {
	return &Health{
		store:        store,
		dependencies: dependencies,
		timeout:      2 * time.Second,
	}
}

// Register mounts the probes on mux
func (h *Health) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", h.HealthHandler)
	mux.HandleFunc("/healthz", h.LivenessHandler) // Kubernetes liveness probe
	mux.HandleFunc("/readyz", h.ReadinessHandler) // Kubernetes readiness probe
}

func (h *Health) checkStore() error {
	_, err := h.store.GetSettings()
	return err
}

// HealthHandler reports every dependency
func (h *Health) HealthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK
	checks := make(map[string]interface{})

	if err := h.checkStore(); err != nil {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
		checks["database"] = map[string]interface{}{
			"status": "unhealthy",
			"error":  err.Error(),
		}
	} else {
		checks["database"] = map[string]interface{}{"status": "healthy"}
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()
	for name, dep := range h.dependencies {
		if err := dep.Ping(ctx); err != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
			checks[name] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			continue
		}
		checks[name] = map[string]interface{}{"status": "healthy"}
	}

	writeJSON(w, httpStatus, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	})
}

// LivenessHandler returns 200 while the process is running
func (h *Health) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "alive",
		"timestamp": time.Now().Unix(),
	})
}

// ReadinessHandler returns 200 once the store answers
func (h *Health) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.checkStore(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "not_ready",
			"reason":    "database_unavailable",
			"timestamp": time.Now().Unix(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().Unix(),
	})
}
