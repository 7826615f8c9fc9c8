package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agustinp/tradepulse/internal/scheduler"
	"github.com/agustinp/tradepulse/pkg/logger"
)

// SchedulerHandler exposes trigger status and reconfiguration.
type SchedulerHandler struct {
	sched  *scheduler.Scheduler
	logger *logger.Logger
}

// NewSchedulerHandler creates a scheduler handler.
func NewSchedulerHandler(sched *scheduler.Scheduler, log *logger.Logger) *SchedulerHandler {
	return &SchedulerHandler{sched: sched, logger: log}
}

// GetStatus reports both triggers' configuration and run history.
// GET /api/scheduler/status
func (h *SchedulerHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.sched.Status())
}

// ConfigureEOD replaces the daily ingestion trigger's configuration.
// On a validation error the previous configuration stays active.
// POST /api/scheduler/configure
func (h *SchedulerHandler) ConfigureEOD(w http.ResponseWriter, r *http.Request) {
	var cfg scheduler.EODConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.sched.ConfigureEOD(cfg); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"config": h.sched.EOD(),
	})
}

// ConfigureRefresh replaces the price refresh trigger's configuration.
// POST /api/price-refresh/configure
func (h *SchedulerHandler) ConfigureRefresh(w http.ResponseWriter, r *http.Request) {
	var cfg scheduler.RefreshConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.sched.ConfigureRefresh(cfg); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"config": h.sched.Refresh(),
	})
}
