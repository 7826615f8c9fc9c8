package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/agustinp/tradepulse/internal/contracts"
	"github.com/agustinp/tradepulse/pkg/logger"
)

// EODJobName identifies the nightly ingestion job in job run records.
const EODJobName = "EOD_UPDATE"

// Config holds the tunables of the nightly job.
type Config struct {
	Workers         int
	MaxFailureNotes int
}

// EODJob fetches, validates, and stores one bar per universe symbol
// for a single business date.
type EODJob struct {
	provider contracts.MarketDataProvider
	writer   *Writer
	runs     contracts.JobRunRepository
	symbols  []string
	cfg      Config
	logger   *logger.Logger
}

// NewEODJob creates the nightly ingestion job over the given universe.
func NewEODJob(
	provider contracts.MarketDataProvider,
	writer *Writer,
	runs contracts.JobRunRepository,
	symbols []string,
	cfg Config,
	log *logger.Logger,
) *EODJob {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &EODJob{
		provider: provider,
		writer:   writer,
		runs:     runs,
		symbols:  symbols,
		cfg:      cfg,
		logger:   log.WithField("module", "eod_job"),
	}
}

// Run executes the job for businessDate and records the run. One
// symbol failing never stops the others; the run finishes PARTIAL when
// some symbols fail and FAILED only when none succeed.
func (j *EODJob) Run(ctx context.Context, businessDate time.Time) (*contracts.JobRun, error) {
	businessDate = truncateDay(businessDate)

	run := &contracts.JobRun{
		JobName:      EODJobName,
		BusinessDate: businessDate,
	}
	if err := j.runs.Start(ctx, run); err != nil {
		return nil, err
	}

	j.logger.WithFields(map[string]interface{}{
		"business_date": businessDate.Format("2006-01-02"),
		"symbols":       len(j.symbols),
		"workers":       j.cfg.Workers,
	}).Info("Starting EOD job")

	results := j.processAll(ctx, businessDate)

	for _, res := range results {
		if res.OK() {
			run.SymbolsProcessed++
			continue
		}
		run.SymbolsFailed++
		if len(run.ErrorDetails) < j.cfg.MaxFailureNotes {
			run.ErrorDetails = append(run.ErrorDetails, res.Note())
		}
	}
	run.Status = run.Resolve()

	if err := j.runs.Finish(ctx, run); err != nil {
		return nil, err
	}

	j.logger.WithFields(map[string]interface{}{
		"status":    string(run.Status),
		"processed": run.SymbolsProcessed,
		"failed":    run.SymbolsFailed,
		"duration":  run.Duration().String(),
	}).Info("EOD job completed")

	return run, nil
}

func (j *EODJob) processAll(ctx context.Context, businessDate time.Time) []SymbolResult {
	symbolCh := make(chan string, len(j.symbols))
	resultCh := make(chan SymbolResult, len(j.symbols))

	var wg sync.WaitGroup
	for i := 0; i < j.cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for symbol := range symbolCh {
				select {
				case <-ctx.Done():
					resultCh <- SymbolResult{Symbol: symbol, Status: StatusFailed, Reason: ctx.Err().Error()}
					continue
				default:
				}
				resultCh <- j.processSymbol(ctx, workerID, symbol, businessDate)
			}
		}(i)
	}

	for _, symbol := range j.symbols {
		symbolCh <- symbol
	}
	close(symbolCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]SymbolResult, 0, len(j.symbols))
	for res := range resultCh {
		results = append(results, res)
	}
	return results
}

// processSymbol fetches a small window around the business date and
// stores the bar matching it. The bracket absorbs timezone skew
// between the provider's session stamps and the requested date.
func (j *EODJob) processSymbol(ctx context.Context, workerID int, symbol string, businessDate time.Time) SymbolResult {
	from := businessDate.AddDate(0, 0, -1)
	to := businessDate.AddDate(0, 0, 1)

	bars, err := j.provider.FetchDaily(ctx, symbol, from, to)
	if err != nil {
		j.logger.WithError(err).WithFields(map[string]interface{}{
			"worker": workerID,
			"symbol": symbol,
		}).Error("Failed to fetch bars")
		return SymbolResult{Symbol: symbol, Status: StatusFailed, Reason: err.Error()}
	}
	if len(bars) == 0 {
		return SymbolResult{Symbol: symbol, Status: StatusFailed, Reason: ReasonNoData}
	}

	for _, raw := range bars {
		if sameDay(raw.Date, businessDate) {
			return j.writer.Store(ctx, symbol, businessDate, raw)
		}
	}
	return SymbolResult{Symbol: symbol, Status: StatusFailed, Reason: ReasonNoDataForDate}
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
