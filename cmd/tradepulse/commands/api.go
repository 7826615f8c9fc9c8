package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agustinp/tradepulse/internal/api"
	"github.com/agustinp/tradepulse/internal/api/handlers"
	"github.com/agustinp/tradepulse/internal/scheduler"
	"github.com/agustinp/tradepulse/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server and scheduler",
	Long: `Starts the REST API server together with the background
scheduler that drives the daily EOD ingestion and the periodic price
refresh.

Endpoints:
  GET    /health                      - Health check
  GET    /api/tickers                 - Instrument universe
  GET    /api/price/{symbol}          - Cached latest quote
  GET    /api/prices                  - All cached quotes
  POST   /api/refresh-prices          - Fetch fresh quotes now
  GET    /api/market-data-stats       - Stored history statistics
  GET    /api/data-sufficiency        - Per-symbol history depth
  POST   /api/analyze                 - WVF signal and trade analysis
  DELETE /api/analysis-cache          - Drop cached analyses
  POST   /api/eod-job                 - Run EOD ingestion now
  GET    /api/eod-job/status          - Job runs for a date
  GET    /api/data-integrity          - Integrity audit
  POST   /api/repair                  - Backfill missing weekday bars
  POST   /api/initial-data-load       - Historical backfill
  GET    /api/scheduler/status        - Trigger status
  POST   /api/scheduler/configure     - Reconfigure EOD trigger
  POST   /api/price-refresh/configure - Reconfigure refresh trigger

Example:
  go run ./cmd/tradepulse api
  go run ./cmd/tradepulse api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from config)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	application, err := bootstrap()
	if err != nil {
		return err
	}
	defer application.Close()

	cfg, log := application.cfg, application.logger
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// Scheduler
	sched, err := scheduler.New(
		cfg.Scheduler,
		jobs.NewEOD(application.eodJob, log),
		jobs.NewPriceRefresh(application.refresher),
		log,
	)
	if err != nil {
		return fmt.Errorf("build scheduler: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// Handlers and router
	market := handlers.NewMarketHandler(
		application.priceCache,
		application.refresher,
		application.bars,
		application.backfiller,
		log,
	)
	analysisHandler := handlers.NewAnalysisHandler(
		application.analyzer,
		application.analysisCache,
		cfg.Analysis,
		log,
	)
	jobsHandler := handlers.NewJobsHandler(
		application.eodJob,
		application.backfiller,
		application.auditor,
		application.repairer,
		application.runs,
		log,
	)
	schedHandler := handlers.NewSchedulerHandler(sched, log)

	router := api.NewRouter(market, analysisHandler, jobsHandler, schedHandler, log)
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
