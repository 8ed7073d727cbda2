// Package health provides HTTP endpoints for status, liveness and readiness probes.
package health

import (
	"context"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"staffdir/pkg/platform/httputil"
)

// Version is set at build time via ldflags.
var Version = "dev"

const (
	StatusUp   = "UP"
	StatusDown = "DOWN"

	Available    = "Available"
	NotAvailable = "Not Available"
)

// CheckFunc returns nil when the dependency is healthy.
type CheckFunc func(ctx context.Context) error

// Handler serves the health endpoints. The database check drives /health;
// readiness runs it together with every registered check.
type Handler struct {
	startTime   time.Time
	environment string
	database    CheckFunc
	timeout     time.Duration

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// New creates a health handler around the database probe.
func New(environment string, database CheckFunc) *Handler {
	return &Handler{
		startTime:   time.Now(),
		environment: environment,
		database:    database,
		timeout:     3 * time.Second,
		checks:      make(map[string]CheckFunc),
	}
}

// RegisterCheck adds a named check for the readiness probe.
func (h *Handler) RegisterCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Register mounts health check routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleStatus)
	r.Get("/health/live", h.HandleLiveness)
	r.Get("/health/ready", h.HandleReadiness)
}

// StatusResponse is the body of /health.
type StatusResponse struct {
	Status  string            `json:"status"`
	Details map[string]string `json:"details"`
}

// HandleStatus reports UP with 200 when the database answers, DOWN with 503 otherwise.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if err := h.run(r.Context(), h.database); err != nil {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, StatusResponse{
			Status:  StatusDown,
			Details: map[string]string{"database": NotAvailable},
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		Status:  StatusUp,
		Details: map[string]string{"database": Available},
	})
}

// LivenessResponse is the body of /health/live.
type LivenessResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Environment   string `json:"environment"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// HandleLiveness always returns 200 while the process is serving.
func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, LivenessResponse{
		Status:        "alive",
		Version:       Version,
		Environment:   h.environment,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
	})
}

// ReadinessResponse is the body of /health/ready.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HandleReadiness returns 503 if any dependency is down.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	checks := make(map[string]CheckFunc, len(h.checks)+1)
	maps.Copy(checks, h.checks)
	h.mu.RUnlock()
	checks["database"] = h.database

	response := ReadinessResponse{
		Status: "ready",
		Checks: make(map[string]string, len(checks)),
	}
	allHealthy := true
	for name, check := range checks {
		if err := h.run(r.Context(), check); err != nil {
			response.Checks[name] = "down: " + err.Error()
			allHealthy = false
			continue
		}
		response.Checks[name] = "up"
	}

	if !allHealthy {
		response.Status = "not_ready"
		httputil.WriteJSON(w, http.StatusServiceUnavailable, response)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) run(ctx context.Context, check CheckFunc) error {
	if check == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return check(ctx)
}
