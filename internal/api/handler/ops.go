// Package handler provides HTTP handlers for the StatusDeck API.
package handler

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/statusdeck/statusdeck/internal/api/models"
	"github.com/statusdeck/statusdeck/internal/api/response"
	"github.com/statusdeck/statusdeck/internal/monitor"
	"github.com/statusdeck/statusdeck/internal/provider/resilience"
)

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	monitor   *monitor.Service
	upstreams *resilience.Registry
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(version, buildTime string, mon *monitor.Service, upstreams *resilience.Registry) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		monitor:   mon,
		upstreams: upstreams,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. The
// service is ready once the first refresh cycle has produced a
// snapshot; before that there is nothing to serve.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())

	if _, err := h.monitor.Snapshot(); err != nil {
		if errors.Is(err, monitor.ErrNoSnapshot) {
			health := models.Health{
				Status: models.HealthStatusFail,
				Time:   now,
				Details: map[string]interface{}{
					"reason": "no status snapshot yet",
				},
			}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
		response.InternalError(w, r, "readiness check failed")
		return
	}

	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   now,
	})
}

// UpstreamsReport handles GET /v1/ops/providers - per-upstream fetch
// health as seen by the circuit breakers.
func (h *OpsHandler) UpstreamsReport(w http.ResponseWriter, r *http.Request) {
	all := h.upstreams.AllHealth()

	upstreams := make([]models.UpstreamStatus, 0, len(all))
	for _, health := range all {
		upstreams = append(upstreams, toUpstreamStatus(health))
	}
	sort.Slice(upstreams, func(i, j int) bool { return upstreams[i].Upstream < upstreams[j].Upstream })

	response.JSON(w, r, http.StatusOK, models.UpstreamsReport{
		Upstreams: upstreams,
		Count:     len(upstreams),
	})
}

func toUpstreamStatus(health *resilience.UpstreamHealth) models.UpstreamStatus {
	status := models.UpstreamStatus{
		Upstream:     health.Name,
		CircuitState: health.CircuitState.String(),
		Reachable:    health.Reachable(),
	}
	if health.LastSuccessAt != nil {
		ts := models.Timestamp(*health.LastSuccessAt)
		status.LastSuccessAt = &ts
	}
	if health.LastFailureAt != nil {
		ts := models.Timestamp(*health.LastFailureAt)
		status.LastFailureAt = &ts
	}
	if health.LastError != "" {
		msg := health.LastError
		status.LastError = &msg
	}
	return status
}
