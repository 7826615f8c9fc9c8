package ingest

import (
	"context"
	"time"

	"github.com/agustinp/tradepulse/internal/contracts"
	"github.com/agustinp/tradepulse/pkg/logger"
)

// BackfillJobName identifies the historical load job in run records.
const BackfillJobName = "INITIAL_DATA_LOAD"

// tradingDaysPerYear approximates how many bars a year of history
// should hold, used by the sufficiency check.
const tradingDaysPerYear = 250

// MinBarsForYears converts a lookback in years to the bar count the
// sufficiency check requires.
func MinBarsForYears(years int) int {
	return years * tradingDaysPerYear
}

// Sufficiency reports how much history a symbol holds against a
// required minimum.
type Sufficiency struct {
	Symbol      string `json:"symbol"`
	Records     int    `json:"records"`
	FirstDate   string `json:"first_date,omitempty"`
	LastDate    string `json:"last_date,omitempty"`
	Sufficient  bool   `json:"sufficient"`
	MissingDays int    `json:"missing_days"`
}

// BackfillResult summarizes one symbol's historical load.
type BackfillResult struct {
	Symbol  string `json:"symbol"`
	Status  Status `json:"status"`
	Stored  int    `json:"stored"`
	Skipped int    `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
}

// Backfiller loads multi-year history through the validated write
// path, so historical bars face the same quality gate as nightly ones.
type Backfiller struct {
	provider contracts.MarketDataProvider
	writer   *Writer
	bars     contracts.BarRepository
	runs     contracts.JobRunRepository
	logger   *logger.Logger
}

// NewBackfiller creates a historical loader.
func NewBackfiller(
	provider contracts.MarketDataProvider,
	writer *Writer,
	bars contracts.BarRepository,
	runs contracts.JobRunRepository,
	log *logger.Logger,
) *Backfiller {
	return &Backfiller{
		provider: provider,
		writer:   writer,
		bars:     bars,
		runs:     runs,
		logger:   log.WithField("module", "backfill"),
	}
}

// CheckSufficiency reports whether a symbol already holds at least
// minDays bars.
func (b *Backfiller) CheckSufficiency(ctx context.Context, symbol string, minDays int) (Sufficiency, error) {
	dates, err := b.bars.ListDates(ctx, symbol)
	if err != nil {
		return Sufficiency{Symbol: symbol}, err
	}

	count := len(dates)
	missing := minDays - count
	if missing < 0 {
		missing = 0
	}

	suff := Sufficiency{
		Symbol:      symbol,
		Records:     count,
		Sufficient:  count >= minDays,
		MissingDays: missing,
	}
	if count > 0 {
		suff.FirstDate = dates[0].Format("2006-01-02")
		suff.LastDate = dates[count-1].Format("2006-01-02")
	}
	return suff, nil
}

// LoadSymbol fetches yearsBack years of history for one symbol and
// stores every bar that clears the quality gate.
func (b *Backfiller) LoadSymbol(ctx context.Context, symbol string, yearsBack int) BackfillResult {
	end := time.Now()
	start := end.AddDate(0, 0, -yearsBack*365)

	bars, err := b.provider.FetchDaily(ctx, symbol, start, end)
	if err != nil {
		return BackfillResult{Symbol: symbol, Status: StatusFailed, Reason: err.Error()}
	}
	if len(bars) == 0 {
		return BackfillResult{Symbol: symbol, Status: StatusFailed, Reason: ReasonNoData}
	}

	result := BackfillResult{Symbol: symbol, Status: StatusStored}
	for _, raw := range bars {
		res := b.writer.Store(ctx, symbol, truncateDay(raw.Date), raw)
		if res.OK() {
			result.Stored++
		} else {
			result.Skipped++
		}
	}

	b.logger.WithFields(map[string]interface{}{
		"symbol":  symbol,
		"stored":  result.Stored,
		"skipped": result.Skipped,
	}).Info("Backfilled symbol")
	return result
}

// Run backfills every symbol that lacks sufficient history. With force
// set, the sufficiency check is skipped and everything reloads.
func (b *Backfiller) Run(ctx context.Context, symbols []string, yearsBack int, force bool) (*contracts.JobRun, []BackfillResult, error) {
	run := &contracts.JobRun{
		JobName:      BackfillJobName,
		BusinessDate: truncateDay(time.Now()),
	}
	if err := b.runs.Start(ctx, run); err != nil {
		return nil, nil, err
	}

	minDays := MinBarsForYears(yearsBack)
	var results []BackfillResult

	for _, symbol := range symbols {
		if !force {
			suff, err := b.CheckSufficiency(ctx, symbol, minDays)
			if err == nil && suff.Sufficient {
				b.logger.WithFields(map[string]interface{}{
					"symbol":  symbol,
					"records": suff.Records,
				}).Debug("Skipping symbol with sufficient history")
				continue
			}
		}

		res := b.LoadSymbol(ctx, symbol, yearsBack)
		results = append(results, res)

		if res.Status == StatusStored {
			run.SymbolsProcessed++
		} else {
			run.SymbolsFailed++
			run.ErrorDetails = append(run.ErrorDetails, symbol+": "+res.Reason)
		}
	}

	run.Status = run.Resolve()
	if err := b.runs.Finish(ctx, run); err != nil {
		return nil, results, err
	}
	return run, results, nil
}
