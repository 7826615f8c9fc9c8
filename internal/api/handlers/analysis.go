package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/agustinp/tradepulse/internal/backtest"
	"github.com/agustinp/tradepulse/internal/contracts"
	"github.com/agustinp/tradepulse/internal/universe"
	"github.com/agustinp/tradepulse/pkg/config"
	"github.com/agustinp/tradepulse/pkg/logger"
)

// AnalysisHandler serves signal analysis and cache management.
type AnalysisHandler struct {
	analyzer *backtest.Analyzer
	cache    contracts.AnalysisCache
	defaults config.AnalysisConfig
	logger   *logger.Logger
}

// NewAnalysisHandler creates an analysis handler.
func NewAnalysisHandler(
	analyzer *backtest.Analyzer,
	cache contracts.AnalysisCache,
	defaults config.AnalysisConfig,
	log *logger.Logger,
) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		cache:    cache,
		defaults: defaults,
		logger:   log,
	}
}

// AnalyzeRequest is the analyze endpoint's request body. Target and
// hold-day overrides fall back to the configured defaults.
type AnalyzeRequest struct {
	Symbol       string   `json:"symbol"`
	StartDate    string   `json:"start_date"` // YYYY-MM-DD
	EndDate      string   `json:"end_date"`   // YYYY-MM-DD
	ProfitTarget *float64 `json:"profit_target,omitempty"`
	MaxHoldDays  *int     `json:"max_hold_days,omitempty"`
}

// Analyze runs the signal engine and trade simulation for one symbol
// over a date range, served from cache when fresh.
// POST /api/analyze
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !universe.Contains(req.Symbol) {
		respondError(w, http.StatusBadRequest, "Unknown symbol: "+req.Symbol)
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid start_date (expected YYYY-MM-DD)")
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid end_date (expected YYYY-MM-DD)")
		return
	}
	if end.Before(start) {
		respondError(w, http.StatusBadRequest, "end_date must not precede start_date")
		return
	}

	policy := backtest.Policy{
		ProfitTarget: h.defaults.ProfitTarget,
		MaxHoldDays:  h.defaults.MaxHoldDays,
	}
	if req.ProfitTarget != nil {
		if *req.ProfitTarget <= 0 {
			respondError(w, http.StatusBadRequest, "profit_target must be positive")
			return
		}
		policy.ProfitTarget = *req.ProfitTarget
	}
	if req.MaxHoldDays != nil {
		if *req.MaxHoldDays < 1 {
			respondError(w, http.StatusBadRequest, "max_hold_days must be positive")
			return
		}
		policy.MaxHoldDays = *req.MaxHoldDays
	}

	result, err := h.analyzer.Analyze(r.Context(), backtest.Request{
		Symbol:    req.Symbol,
		StartDate: start,
		EndDate:   end,
		Policy:    policy,
	})
	if err != nil {
		h.logger.WithError(err).WithField("symbol", req.Symbol).Error("Analysis failed")
		respondError(w, http.StatusInternalServerError, "Analysis failed")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ClearCache drops every cached analysis result.
// DELETE /api/analysis-cache
func (h *AnalysisHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Clear(r.Context()); err != nil {
		h.logger.WithError(err).Error("Failed to clear analysis cache")
		respondError(w, http.StatusInternalServerError, "Failed to clear cache")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Analysis cache cleared",
	})
}
