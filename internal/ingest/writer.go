package ingest

import (
	"context"
	"time"

	"github.com/agustinp/tradepulse/internal/contracts"
	"github.com/agustinp/tradepulse/pkg/logger"
)

// Writer is the single validated path into the bar store. Every bar,
// whether from the nightly job, a backfill, or a gap repair, passes
// through the same scoring and continuity checks before persistence.
type Writer struct {
	bars       contracts.BarRepository
	minQuality int
	source     string
	logger     *logger.Logger
}

// NewWriter creates a writer that rejects bars scoring below
// minQuality. The raw score is compared against the threshold before
// clamping, so heavily penalized bars cannot sneak back in at zero.
func NewWriter(bars contracts.BarRepository, minQuality int, source string, log *logger.Logger) *Writer {
	return &Writer{
		bars:       bars,
		minQuality: minQuality,
		source:     source,
		logger:     log.WithField("module", "ingest"),
	}
}

// Store validates a raw bar and upserts it under (symbol, date).
// The returned result says whether the bar was stored, rejected at the
// quality gate, or failed on a store error.
func (w *Writer) Store(ctx context.Context, symbol string, date time.Time, raw contracts.RawBar) SymbolResult {
	score, flags := Validate(raw)

	prev, err := w.bars.GetLastBefore(ctx, symbol, date)
	if err != nil {
		return SymbolResult{Symbol: symbol, Status: StatusFailed, Reason: err.Error()}
	}
	if prev != nil {
		if ok, flag := CheckContinuity(prev.Close, raw.Close); !ok {
			flags = append(flags, flag)
			score -= penaltyContinuityBreak
		}
	}

	if score < w.minQuality {
		w.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"date":   date.Format("2006-01-02"),
			"score":  score,
			"flags":  flags,
		}).Warn("Bar rejected by quality gate")
		return SymbolResult{
			Symbol:       symbol,
			Status:       StatusRejected,
			QualityScore: score,
			AnomalyFlags: flags,
			Reason:       ReasonQualityFailed,
		}
	}

	bar := &contracts.Bar{
		Symbol:       symbol,
		BusinessDate: date,
		Open:         raw.Open,
		High:         raw.High,
		Low:          raw.Low,
		Close:        raw.Close,
		AdjClose:     raw.AdjClose,
		Volume:       raw.Volume,
		QualityScore: clampScore(score),
		AnomalyFlags: flags,
		Source:       w.source,
	}
	if err := w.bars.Upsert(ctx, bar); err != nil {
		return SymbolResult{Symbol: symbol, Status: StatusFailed, Reason: err.Error()}
	}

	if score < 80 {
		w.logger.WithFields(map[string]interface{}{
			"symbol": symbol,
			"date":   date.Format("2006-01-02"),
			"score":  score,
			"flags":  flags,
		}).Warn("Bar stored with quality issues")
	}

	return SymbolResult{
		Symbol:       symbol,
		Status:       StatusStored,
		QualityScore: clampScore(score),
		AnomalyFlags: flags,
	}
}
