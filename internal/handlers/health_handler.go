package handlers

import (
	"context"
	"net/http"
	"time"
)

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]HealthCheck
	stats  map[string]func() map[string]interface{}
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		checks: make(map[string]HealthCheck),
		stats:  make(map[string]func() map[string]interface{}),
	}
}

func (h *HealthHandler) AddCheck(name string, check HealthCheck) {
	h.checks[name] = check
}

func (h *HealthHandler) AddStats(name string, stats func() map[string]interface{}) {
	h.stats[name] = stats
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	body := map[string]interface{}{
		"status": "ok",
		"checks": checks,
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}

	if len(h.stats) > 0 {
		stats := make(map[string]interface{}, len(h.stats))
		for name, fn := range h.stats {
			stats[name] = fn()
		}
		body["stats"] = stats
	}

	respondJSON(w, status, body)
}
