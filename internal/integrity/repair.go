package integrity

import (
	"context"
	"time"

	"github.com/agustinp/tradepulse/internal/contracts"
	"github.com/agustinp/tradepulse/internal/ingest"
	"github.com/agustinp/tradepulse/pkg/logger"
)

// RepairResult summarizes one repair pass over a symbol's window.
type RepairResult struct {
	Symbol        string   `json:"symbol"`
	From          string   `json:"from"`
	To            string   `json:"to"`
	DatesChecked  int      `json:"dates_checked"`
	DatesRepaired int      `json:"dates_repaired"`
	StoredBars    int      `json:"stored_bars"`
	FailedDates   []string `json:"failed_dates,omitempty"`
}

// Repairer fills missing weekdays in a symbol's stored history by
// refetching each hole through the validated write path.
type Repairer struct {
	provider contracts.MarketDataProvider
	writer   *ingest.Writer
	bars     contracts.BarRepository
	logger   *logger.Logger
}

// NewRepairer creates a gap repairer.
func NewRepairer(provider contracts.MarketDataProvider, writer *ingest.Writer, bars contracts.BarRepository, log *logger.Logger) *Repairer {
	return &Repairer{
		provider: provider,
		writer:   writer,
		bars:     bars,
		logger:   log.WithField("module", "repair"),
	}
}

// Repair walks every weekday in [from, to], skips dates already
// stored, and fetches the rest one day at a time. Dates the market
// never traded simply come back empty and are recorded as NO_DATA.
// Re-running over the same window is safe: repaired dates now exist
// and are skipped.
func (r *Repairer) Repair(ctx context.Context, symbol string, from, to time.Time) (*RepairResult, error) {
	result := &RepairResult{
		Symbol: symbol,
		From:   from.Format("2006-01-02"),
		To:     to.Format("2006-01-02"),
	}

	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		result.DatesChecked++

		exists, err := r.bars.Exists(ctx, symbol, d)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		bars, err := r.provider.FetchDaily(ctx, symbol, d, d)
		if err != nil {
			result.FailedDates = append(result.FailedDates, d.Format("2006-01-02")+": "+err.Error())
			continue
		}

		repaired := false
		for _, raw := range bars {
			if raw.Date.Year() == d.Year() && raw.Date.YearDay() == d.YearDay() {
				res := r.writer.Store(ctx, symbol, d, raw)
				if res.OK() {
					result.DatesRepaired++
					repaired = true
				} else {
					result.FailedDates = append(result.FailedDates, d.Format("2006-01-02")+": "+res.Reason)
					repaired = true
				}
				break
			}
		}
		if !repaired {
			result.FailedDates = append(result.FailedDates, d.Format("2006-01-02")+": "+ingest.ReasonNoData)
		}
	}

	if stored, err := r.bars.CountBySymbol(ctx, symbol); err == nil {
		result.StoredBars = stored
	}

	r.logger.WithFields(map[string]interface{}{
		"symbol":   symbol,
		"checked":  result.DatesChecked,
		"repaired": result.DatesRepaired,
		"failed":   len(result.FailedDates),
	}).Info("Gap repair completed")

	return result, nil
}
