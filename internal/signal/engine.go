package signal

import (
	"github.com/agustinp/tradepulse/internal/contracts"
)

// Params are the indicator tunables, defaulting to the classic
// Williams VIX Fix settings.
type Params struct {
	// LookbackHigh is the window for the highest close behind the WVF
	// numerator.
	LookbackHigh int
	// BollingerLength and BollingerMult shape the bands around the
	// WVF series.
	BollingerLength int
	BollingerMult   float64
	// RangeLookback, HighestPct, and LowestPct define the percentile
	// range bounds.
	RangeLookback int
	HighestPct    float64
	LowestPct     float64
}

// DefaultParams returns the standard indicator settings.
func DefaultParams() Params {
	return Params{
		LookbackHigh:    22,
		BollingerLength: 20,
		BollingerMult:   2.0,
		RangeLookback:   50,
		HighestPct:      0.85,
		LowestPct:       1.01,
	}
}

// WarmupDays is how many calendar days of history before a requested
// window start the caller should supply so every rolling window inside
// the window is fully populated. The engine does not enforce this.
func (p Params) WarmupDays() int {
	max := p.LookbackHigh
	if p.BollingerLength > max {
		max = p.BollingerLength
	}
	if p.RangeLookback > max {
		max = p.RangeLookback
	}
	return max + 50
}

// Engine computes signals from a bar series.
type Engine struct {
	params Params
}

// NewEngine creates a signal engine with the given parameters.
func NewEngine(params Params) *Engine {
	return &Engine{params: params}
}

// Compute classifies every bar in the series. Bars must be in
// ascending date order. Each day's classification depends only on that
// day and earlier ones, so appending bars never changes earlier
// signals.
func (e *Engine) Compute(bars []*contracts.Bar) []contracts.Signal {
	if len(bars) == 0 {
		return nil
	}

	closes := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		lows[i] = b.Low
	}

	highestClose := rollingMax(closes, e.params.LookbackHigh)
	wvf := make([]float64, len(bars))
	for i := range bars {
		if highestClose[i] != 0 {
			wvf[i] = (highestClose[i] - lows[i]) / highestClose[i] * 100
		}
	}

	midLine := rollingMean(wvf, e.params.BollingerLength)
	stdev := rollingStdev(wvf, e.params.BollingerLength)
	rangeHigh := rollingMax(wvf, e.params.RangeLookback)
	rangeLow := rollingMin(wvf, e.params.RangeLookback)

	signals := make([]contracts.Signal, len(bars))
	for i, b := range bars {
		upper := midLine[i] + e.params.BollingerMult*stdev[i]
		lower := midLine[i] - e.params.BollingerMult*stdev[i]
		rh := rangeHigh[i] * e.params.HighestPct
		rl := rangeLow[i] * e.params.LowestPct

		signals[i] = contracts.Signal{
			Date:      b.BusinessDate,
			Close:     b.Close,
			WVF:       wvf[i],
			MidLine:   midLine[i],
			UpperBand: upper,
			LowerBand: lower,
			RangeHigh: rh,
			RangeLow:  rl,
			Color:     classify(wvf[i], upper, lower, rh, rl),
		}
	}
	return signals
}

// classify resolves the three-way color. Buy is evaluated first, so a
// degenerate day satisfying both conditions lands on buy. A zero WVF
// carries no volatility information at all (the low sits on the
// rolling high) and stays neutral regardless of the bands.
func classify(wvf, upper, lower, rangeHigh, rangeLow float64) contracts.SignalColor {
	if wvf <= 0 {
		return contracts.SignalNeutral
	}
	if wvf >= upper || wvf >= rangeHigh {
		return contracts.SignalBuy
	}
	if wvf <= lower || wvf <= rangeLow {
		return contracts.SignalSell
	}
	return contracts.SignalNeutral
}

// BuyDates filters the buy-classified signals inside [from, to].
func BuyDates(signals []contracts.Signal, from, to string) []contracts.Signal {
	var out []contracts.Signal
	for _, s := range signals {
		key := s.Date.Format("2006-01-02")
		if key >= from && key <= to && s.IsBuy() {
			out = append(out, s)
		}
	}
	return out
}
