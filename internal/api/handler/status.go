package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/statusdeck/statusdeck/internal/api/models"
	"github.com/statusdeck/statusdeck/internal/api/response"
	"github.com/statusdeck/statusdeck/internal/monitor"
	"github.com/statusdeck/statusdeck/internal/status"
)

// StatusHandler serves the dashboard endpoints.
type StatusHandler struct {
	monitor *monitor.Service
	logger  zerolog.Logger
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(mon *monitor.Service, logger zerolog.Logger) *StatusHandler {
	return &StatusHandler{
		monitor: mon,
		logger:  logger,
	}
}

// GetSummary handles GET /v1/status - the full dashboard snapshot.
func (h *StatusHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.monitor.Snapshot()
	if err != nil {
		if errors.Is(err, monitor.ErrNoSnapshot) {
			response.ServiceUnavailable(w, r, "No status snapshot available yet; try again shortly")
			return
		}
		response.InternalError(w, r, "failed to load status snapshot")
		return
	}

	response.JSON(w, r, http.StatusOK, toStatusSummary(snapshot))
}

// GetService handles GET /v1/status/services/{serviceName} - one
// monitored service's current observation.
func (h *StatusHandler) GetService(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "serviceName")

	obs, err := h.monitor.Observation(name)
	if err != nil {
		switch {
		case errors.Is(err, monitor.ErrNoSnapshot):
			response.ServiceUnavailable(w, r, "No status snapshot available yet; try again shortly")
		case errors.Is(err, monitor.ErrServiceNotFound):
			response.NotFound(w, r, "Unknown service: "+name)
		default:
			response.InternalError(w, r, "failed to load service status")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, toServiceStatus(obs))
}

// TriggerRefresh handles POST /v1/status/refresh - runs a refresh
// cycle and returns the resulting snapshot. The cycle is detached from
// the request context so a client disconnect never leaves a cycle half
// done.
func (h *StatusHandler) TriggerRefresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.monitor.Refresh(context.WithoutCancel(r.Context()))
	if err != nil {
		h.logger.Error().Err(err).Msg("manual refresh failed")
		response.InternalError(w, r, "refresh failed")
		return
	}

	response.JSON(w, r, http.StatusOK, toStatusSummary(snapshot))
}

func toStatusSummary(snapshot status.Snapshot) models.StatusSummary {
	services := make([]models.ServiceStatus, 0, len(snapshot.Order))
	for _, name := range snapshot.Order {
		if obs, ok := snapshot.Services[name]; ok {
			services = append(services, toServiceStatus(obs))
		}
	}

	return models.StatusSummary{
		Overall:     string(snapshot.Overall),
		RefreshedAt: models.Timestamp(snapshot.RefreshedAt),
		Services:    services,
	}
}

func toServiceStatus(obs status.Observation) models.ServiceStatus {
	return models.ServiceStatus{
		Name:          obs.Name,
		Status:        string(obs.Status),
		Message:       obs.Message,
		Incidents:     obs.Incidents,
		StatusPageURL: obs.ReferenceURL,
		ObservedAt:    models.Timestamp(obs.ObservedAt),
	}
}
