package commands

import (
	"fmt"

	"github.com/agustinp/tradepulse/internal/analysis"
	"github.com/agustinp/tradepulse/internal/backtest"
	"github.com/agustinp/tradepulse/internal/contracts"
	"github.com/agustinp/tradepulse/internal/ingest"
	"github.com/agustinp/tradepulse/internal/integrity"
	"github.com/agustinp/tradepulse/internal/provider/yahoo"
	"github.com/agustinp/tradepulse/internal/realtime"
	"github.com/agustinp/tradepulse/internal/signal"
	"github.com/agustinp/tradepulse/internal/store"
	"github.com/agustinp/tradepulse/internal/universe"
	"github.com/agustinp/tradepulse/pkg/config"
	"github.com/agustinp/tradepulse/pkg/database"
	"github.com/agustinp/tradepulse/pkg/logger"
	"github.com/agustinp/tradepulse/pkg/redis"
)

// app holds the wired service graph shared by the subcommands.
type app struct {
	cfg    *config.Config
	logger *logger.Logger
	db     *database.DB
	redis  *redis.Client

	bars     *store.BarRepository
	runs     *store.JobRunRepository
	findings *store.FindingRepository

	provider *yahoo.Client
	writer   *ingest.Writer

	eodJob     *ingest.EODJob
	backfiller *ingest.Backfiller
	auditor    *integrity.Auditor
	repairer   *integrity.Repairer

	analysisCache contracts.AnalysisCache
	analyzer      *backtest.Analyzer

	priceCache *realtime.PriceCache
	refresher  *realtime.Refresher
}

// bootstrap loads configuration and wires every service. Callers must
// Close the returned app.
func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	bars := store.NewBarRepository(db.Pool)
	runs := store.NewJobRunRepository(db.Pool)
	findings := store.NewFindingRepository(db.Pool)

	provider := yahoo.NewClient(cfg.Provider, log)
	writer := ingest.NewWriter(bars, cfg.Ingest.MinQualityScore, yahoo.SourceName, log)

	eodJob := ingest.NewEODJob(provider, writer, runs, universe.Symbols, ingest.Config{
		Workers:         cfg.Ingest.Workers,
		MaxFailureNotes: cfg.Ingest.MaxFailureNotes,
	}, log)
	backfiller := ingest.NewBackfiller(provider, writer, bars, runs, log)
	auditor := integrity.NewAuditor(bars, findings, universe.Symbols, log)
	repairer := integrity.NewRepairer(provider, writer, bars, log)

	sharedCache := redis.NewCache(rdb, "tradepulse")
	var analysisCache contracts.AnalysisCache
	if cfg.Redis.Enabled {
		analysisCache = analysis.NewRedisCache(sharedCache, cfg.Analysis.CacheTTL, log)
	} else {
		analysisCache = analysis.NewMemoryCache(cfg.Analysis.CacheTTL)
	}
	analyzer := backtest.NewAnalyzer(bars, analysisCache, signal.DefaultParams(), log)

	priceCache := realtime.NewPriceCache(sharedCache, log)
	refresher := realtime.NewRefresher(provider, priceCache, universe.Symbols, log)

	return &app{
		cfg:           cfg,
		logger:        log,
		db:            db,
		redis:         rdb,
		bars:          bars,
		runs:          runs,
		findings:      findings,
		provider:      provider,
		writer:        writer,
		eodJob:        eodJob,
		backfiller:    backfiller,
		auditor:       auditor,
		repairer:      repairer,
		analysisCache: analysisCache,
		analyzer:      analyzer,
		priceCache:    priceCache,
		refresher:     refresher,
	}, nil
}

// Close releases the database and redis connections.
func (a *app) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
