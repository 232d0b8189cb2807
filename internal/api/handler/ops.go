// Package handler provides HTTP handlers for the dashboard API.
package handler

import (
	"net/http"
	"time"

	"github.com/sgweather/sgweather/internal/api/models"
	"github.com/sgweather/sgweather/internal/api/response"
	"github.com/sgweather/sgweather/internal/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
	}
}

// HealthCheck handles GET /healthz - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   time.Now().UTC(),
		Details: map[string]any{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// Providers handles GET /v1/ops/providers - upstream provider health,
// including circuit breaker state and last success/failure timestamps.
func (h *OpsHandler) Providers(w http.ResponseWriter, r *http.Request) {
	providers := h.registry.AllHealth()

	status := models.HealthStatusOK
	for _, p := range providers {
		if !p.Healthy() {
			status = models.HealthStatusDegraded
			break
		}
	}

	response.JSON(w, r, http.StatusOK, map[string]any{
		"status":    status,
		"time":      time.Now().UTC(),
		"providers": providers,
	})
}
