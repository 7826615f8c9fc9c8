package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/agustinp/tradepulse/internal/contracts"
	"github.com/agustinp/tradepulse/internal/ingest"
	"github.com/agustinp/tradepulse/internal/integrity"
	"github.com/agustinp/tradepulse/internal/universe"
	"github.com/agustinp/tradepulse/pkg/logger"
)

// JobsHandler serves ingestion job, integrity, and repair endpoints.
type JobsHandler struct {
	eodJob     *ingest.EODJob
	backfiller *ingest.Backfiller
	auditor    *integrity.Auditor
	repairer   *integrity.Repairer
	runs       contracts.JobRunRepository
	logger     *logger.Logger
}

// NewJobsHandler creates a jobs handler.
func NewJobsHandler(
	eodJob *ingest.EODJob,
	backfiller *ingest.Backfiller,
	auditor *integrity.Auditor,
	repairer *integrity.Repairer,
	runs contracts.JobRunRepository,
	log *logger.Logger,
) *JobsHandler {
	return &JobsHandler{
		eodJob:     eodJob,
		backfiller: backfiller,
		auditor:    auditor,
		repairer:   repairer,
		runs:       runs,
		logger:     log,
	}
}

// EODRequest optionally pins the business date; default is today.
type EODRequest struct {
	BusinessDate string `json:"business_date,omitempty"` // YYYY-MM-DD
}

// RunEOD executes the end-of-day ingestion synchronously and returns
// the run record.
// POST /api/eod-job
func (h *JobsHandler) RunEOD(w http.ResponseWriter, r *http.Request) {
	var req EODRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	date := time.Now().UTC()
	if req.BusinessDate != "" {
		parsed, err := parseDate(req.BusinessDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid business_date (expected YYYY-MM-DD)")
			return
		}
		date = parsed
	}

	run, err := h.eodJob.Run(r.Context(), date)
	if err != nil {
		h.logger.WithError(err).Error("EOD job failed")
		respondError(w, http.StatusInternalServerError, "EOD job failed: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, run)
}

// EODStatus returns job runs for a business date (?date=YYYY-MM-DD,
// default today).
// GET /api/eod-job/status
func (h *JobsHandler) EODStatus(w http.ResponseWriter, r *http.Request) {
	date := time.Now().UTC()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid date (expected YYYY-MM-DD)")
			return
		}
		date = parsed
	}

	jobRuns, err := h.runs.GetByDate(r.Context(), date)
	if err != nil {
		h.logger.WithError(err).Error("Failed to read job runs")
		respondError(w, http.StatusInternalServerError, "Failed to read job runs")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date": date.Format("2006-01-02"),
		"runs": jobRuns,
	})
}

// Integrity runs the full audit over stored history.
// GET /api/data-integrity
func (h *JobsHandler) Integrity(w http.ResponseWriter, r *http.Request) {
	report, err := h.auditor.Scan(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Integrity scan failed")
		respondError(w, http.StatusInternalServerError, "Integrity scan failed")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// RepairRequest names one symbol and the date range to backfill.
type RepairRequest struct {
	Symbol    string `json:"symbol"`
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// Repair fetches and stores missing weekday bars for one symbol.
// POST /api/repair
func (h *JobsHandler) Repair(w http.ResponseWriter, r *http.Request) {
	var req RepairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !universe.Contains(req.Symbol) {
		respondError(w, http.StatusBadRequest, "Unknown symbol: "+req.Symbol)
		return
	}

	from, err := parseDate(req.StartDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid start_date (expected YYYY-MM-DD)")
		return
	}
	to, err := parseDate(req.EndDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid end_date (expected YYYY-MM-DD)")
		return
	}
	if to.Before(from) {
		respondError(w, http.StatusBadRequest, "end_date must not precede start_date")
		return
	}

	result, err := h.repairer.Repair(r.Context(), req.Symbol, from, to)
	if err != nil {
		h.logger.WithError(err).WithField("symbol", req.Symbol).Error("Repair failed")
		respondError(w, http.StatusInternalServerError, "Repair failed")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// InitialLoadRequest controls the historical backfill.
type InitialLoadRequest struct {
	Years int  `json:"years,omitempty"`
	Force bool `json:"force,omitempty"`
}

// InitialLoad backfills history for every symbol lacking it.
// POST /api/initial-data-load
func (h *JobsHandler) InitialLoad(w http.ResponseWriter, r *http.Request) {
	req := InitialLoadRequest{Years: 1}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.Years < 1 {
		respondError(w, http.StatusBadRequest, "years must be a positive integer")
		return
	}

	run, results, err := h.backfiller.Run(r.Context(), universe.Symbols, req.Years, req.Force)
	if err != nil {
		h.logger.WithError(err).Error("Initial data load failed")
		respondError(w, http.StatusInternalServerError, "Initial data load failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"run":     run,
		"results": results,
	})
}
