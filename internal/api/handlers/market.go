package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/agustinp/tradepulse/internal/contracts"
	"github.com/agustinp/tradepulse/internal/ingest"
	"github.com/agustinp/tradepulse/internal/realtime"
	"github.com/agustinp/tradepulse/internal/universe"
	"github.com/agustinp/tradepulse/pkg/logger"
)

// MarketHandler serves ticker, price snapshot, and stored-history
// endpoints.
type MarketHandler struct {
	prices     *realtime.PriceCache
	refresher  *realtime.Refresher
	bars       contracts.BarRepository
	backfiller *ingest.Backfiller
	logger     *logger.Logger
}

// NewMarketHandler creates a market data handler.
func NewMarketHandler(
	prices *realtime.PriceCache,
	refresher *realtime.Refresher,
	bars contracts.BarRepository,
	backfiller *ingest.Backfiller,
	log *logger.Logger,
) *MarketHandler {
	return &MarketHandler{
		prices:     prices,
		refresher:  refresher,
		bars:       bars,
		backfiller: backfiller,
		logger:     log,
	}
}

// GetTickers returns the instrument universe with category groupings.
// GET /api/tickers
func (h *MarketHandler) GetTickers(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"tickers":    universe.Symbols,
		"count":      len(universe.Symbols),
		"categories": universe.Categories(),
	})
}

// GetPrice returns the cached latest quote for one symbol.
// GET /api/price/{symbol}
func (h *MarketHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	quote := h.prices.Get(symbol)
	if quote == nil {
		respondError(w, http.StatusNotFound, "No cached price for "+symbol)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}

// GetPrices returns every cached quote.
// GET /api/prices
func (h *MarketHandler) GetPrices(w http.ResponseWriter, r *http.Request) {
	snapshot := h.prices.Snapshot()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"prices": snapshot,
		"count":  len(snapshot),
	})
}

// RefreshPrices fetches a fresh quote per instrument immediately.
// POST /api/refresh-prices
func (h *MarketHandler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	result, err := h.refresher.Refresh(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Manual price refresh failed")
		respondError(w, http.StatusInternalServerError, "Price refresh failed")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetStats returns aggregate statistics over the stored bar history.
// GET /api/market-data-stats
func (h *MarketHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.bars.Stats(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute market data stats")
		respondError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// GetSufficiency reports per-symbol history depth against a lookback
// expressed in years (?years=N, default 1).
// GET /api/data-sufficiency
func (h *MarketHandler) GetSufficiency(w http.ResponseWriter, r *http.Request) {
	years := 1
	if raw := r.URL.Query().Get("years"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "years must be a positive integer")
			return
		}
		years = parsed
	}

	minBars := ingest.MinBarsForYears(years)
	results := make([]ingest.Sufficiency, 0, len(universe.Symbols))
	insufficient := 0

	for _, symbol := range universe.Symbols {
		suff, err := h.backfiller.CheckSufficiency(r.Context(), symbol, minBars)
		if err != nil {
			h.logger.WithError(err).WithField("symbol", symbol).
				Error("Sufficiency check failed")
			respondError(w, http.StatusInternalServerError, "Sufficiency check failed")
			return
		}
		if !suff.Sufficient {
			insufficient++
		}
		results = append(results, suff)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"years":         years,
		"required_bars": minBars,
		"insufficient":  insufficient,
		"symbols":       results,
	})
}
