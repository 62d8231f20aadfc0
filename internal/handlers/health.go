package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/biohackher/vitality-api/internal/database"
)

// Pinger verifies a dependency connection is healthy
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// HealthChecker handles health check requests
type HealthChecker struct {
	db    *database.DB
	cache Pinger
	queue Pinger
}

// NewHealthChecker creates a health checker with only the database wired
func NewHealthChecker(db *database.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

// NewHealthCheckerWithDeps creates a health checker that also probes the
// plan cache and the job queue. Either may be nil when not configured.
func NewHealthCheckerWithDeps(db *database.DB, cache Pinger, queue Pinger) *HealthChecker {
	return &HealthChecker{db: db, cache: cache, queue: queue}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if mode == "extended" {
		checks := make(map[string]string)

		// Check database connection
		if err := h.checkDatabase(r.Context()); err != nil {
			response.Status = "unhealthy"
			checks["database"] = "unhealthy: " + err.Error()
		} else {
			checks["database"] = "healthy"
		}

		checks["redis"] = h.checkPinger(r.Context(), h.cache, &response)
		checks["rabbitmq"] = h.checkPinger(r.Context(), h.queue, &response)

		response.Checks = checks

		statusCode := http.StatusOK
		if response.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		json.NewEncoder(w).Encode(response)
		return
	}

	// Basic mode - just return that the server is running
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// checkDatabase verifies the database connection
func (h *HealthChecker) checkDatabase(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return err
	}

	return nil
}

// checkPinger probes an optional dependency, degrading overall status on failure
func (h *HealthChecker) checkPinger(ctx context.Context, p Pinger, response *HealthResponse) string {
	if p == nil {
		return "not configured"
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.HealthCheck(ctx); err != nil {
		response.Status = "unhealthy"
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}
