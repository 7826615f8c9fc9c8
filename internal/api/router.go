package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/agustinp/tradepulse/internal/api/handlers"
	"github.com/agustinp/tradepulse/pkg/logger"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(
	market *handlers.MarketHandler,
	analysis *handlers.AnalysisHandler,
	jobs *handlers.JobsHandler,
	sched *handlers.SchedulerHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Market data
	api.HandleFunc("/tickers", market.GetTickers).Methods("GET")
	api.HandleFunc("/price/{symbol}", market.GetPrice).Methods("GET")
	api.HandleFunc("/prices", market.GetPrices).Methods("GET")
	api.HandleFunc("/refresh-prices", market.RefreshPrices).Methods("POST")
	api.HandleFunc("/market-data-stats", market.GetStats).Methods("GET")
	api.HandleFunc("/data-sufficiency", market.GetSufficiency).Methods("GET")

	// Analysis
	api.HandleFunc("/analyze", analysis.Analyze).Methods("POST")
	api.HandleFunc("/analysis-cache", analysis.ClearCache).Methods("DELETE")

	// Ingestion and integrity
	api.HandleFunc("/eod-job", jobs.RunEOD).Methods("POST")
	api.HandleFunc("/eod-job/status", jobs.EODStatus).Methods("GET")
	api.HandleFunc("/data-integrity", jobs.Integrity).Methods("GET")
	api.HandleFunc("/repair", jobs.Repair).Methods("POST")
	api.HandleFunc("/initial-data-load", jobs.InitialLoad).Methods("POST")

	// Scheduler
	api.HandleFunc("/scheduler/status", sched.GetStatus).Methods("GET")
	api.HandleFunc("/scheduler/configure", sched.ConfigureEOD).Methods("POST")
	api.HandleFunc("/price-refresh/configure", sched.ConfigureRefresh).Methods("POST")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "tradepulse-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
