package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/agustinp/tradepulse/internal/analysis"
	"github.com/agustinp/tradepulse/internal/contracts"
	"github.com/agustinp/tradepulse/internal/signal"
	"github.com/agustinp/tradepulse/pkg/logger"
)

// Request names one analysis: an instrument, a signal window, and the
// exit policy.
type Request struct {
	Symbol    string
	StartDate time.Time
	EndDate   time.Time
	Policy    Policy
}

// Analyzer computes full signal-and-trade analyses over stored bars,
// with a freshness-bounded cache in front of the computation.
type Analyzer struct {
	bars   contracts.BarRepository
	cache  contracts.AnalysisCache
	engine *signal.Engine
	params signal.Params
	logger *logger.Logger
}

// NewAnalyzer creates an analyzer over the bar store.
func NewAnalyzer(bars contracts.BarRepository, cache contracts.AnalysisCache, params signal.Params, log *logger.Logger) *Analyzer {
	return &Analyzer{
		bars:   bars,
		cache:  cache,
		engine: signal.NewEngine(params),
		params: params,
		logger: log.WithField("module", "analyzer"),
	}
}

// Analyze returns the cached result for the request when a fresh one
// exists, otherwise recomputes and caches it. Bars are read from the
// store only; a window the store cannot cover comes back sparse rather
// than triggering a provider fetch.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*contracts.AnalysisResult, error) {
	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("end date %s before start date %s",
			req.EndDate.Format("2006-01-02"), req.StartDate.Format("2006-01-02"))
	}

	key := analysis.NewKey(req.Symbol, req.StartDate, req.EndDate, req.Policy.ProfitTarget, req.Policy.MaxHoldDays)
	if cached, ok := a.cache.Get(ctx, key); ok {
		a.logger.WithField("symbol", req.Symbol).Debug("Analysis cache hit")
		return cached, nil
	}

	result, err := a.compute(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := a.cache.Put(ctx, key, result); err != nil {
		// A write failure only costs the next caller a recompute.
		a.logger.WithError(err).Warn("Analysis cache write failed")
	}
	return result, nil
}

func (a *Analyzer) compute(ctx context.Context, req Request) (*contracts.AnalysisResult, error) {
	// Extend backwards for indicator warm-up and forwards so late
	// entries can still find their exits.
	fetchFrom := req.StartDate.AddDate(0, 0, -a.params.WarmupDays())
	fetchTo := req.EndDate.AddDate(0, 0, req.Policy.MaxHoldDays+10)

	bars, err := a.bars.GetRange(ctx, req.Symbol, fetchFrom, fetchTo)
	if err != nil {
		return nil, fmt.Errorf("load bars for %s: %w", req.Symbol, err)
	}

	result := &contracts.AnalysisResult{
		Symbol:       req.Symbol,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		ProfitTarget: req.Policy.ProfitTarget,
		MaxHoldDays:  req.Policy.MaxHoldDays,
		ComputedAt:   time.Now(),
	}
	if len(bars) == 0 {
		return result, nil
	}

	signals := a.engine.Compute(bars)
	entries := signal.BuyDates(signals,
		req.StartDate.Format("2006-01-02"), req.EndDate.Format("2006-01-02"))

	result.Signals = windowSignals(signals, req.StartDate, req.EndDate)
	result.Trades = SimulateAll(req.Symbol, entries, bars, req.Policy)
	result.Summary = Summarize(result.Trades)

	a.logger.WithFields(map[string]interface{}{
		"symbol":  req.Symbol,
		"bars":    len(bars),
		"entries": len(entries),
	}).Debug("Analysis computed")
	return result, nil
}

// windowSignals keeps only the signals inside the requested window;
// warm-up days are an implementation detail callers never see.
func windowSignals(signals []contracts.Signal, from, to time.Time) []contracts.Signal {
	var out []contracts.Signal
	for _, s := range signals {
		if !s.Date.Before(from) && !s.Date.After(to) {
			out = append(out, s)
		}
	}
	return out
}
