// Package backtest replays historical buy signals into simulated
// trades under a profit-target/time-box exit policy.
package backtest

import (
	"github.com/agustinp/tradepulse/internal/contracts"
)

// Policy is the exit rule applied to every simulated trade.
type Policy struct {
	// ProfitTarget is the gain fraction that closes a trade early
	// (0.04 means 4%).
	ProfitTarget float64
	// MaxHoldDays is the holding limit in forward observations.
	MaxHoldDays int
}

// DefaultPolicy returns the standard 4% / 30-observation policy.
func DefaultPolicy() Policy {
	return Policy{ProfitTarget: 0.04, MaxHoldDays: 30}
}

// Simulate walks one trade forward from its entry signal. Entry is at
// the signal day's close; forward observations are the bars strictly
// after the entry date, indexed from 1. The first observation whose
// high touches the target closes the trade at exactly the target
// price. Failing that, the trade closes at the holding limit's close,
// or at the last available close when history runs out first.
func Simulate(symbol string, tradeNum int, entry contracts.Signal, forward []*contracts.Bar, policy Policy) contracts.SimulatedTrade {
	trade := contracts.SimulatedTrade{
		TradeNum:    tradeNum,
		Symbol:      symbol,
		EntryDate:   entry.Date,
		EntryPrice:  entry.Close,
		TargetPrice: entry.Close * (1 + policy.ProfitTarget),
	}

	if len(forward) == 0 {
		trade.ExitDate = entry.Date
		trade.ExitPrice = entry.Close
		trade.Outcome = contracts.NoData
		return trade
	}

	for i, bar := range forward {
		obs := i + 1

		if bar.High >= trade.TargetPrice {
			trade.ExitDate = bar.BusinessDate
			trade.ExitPrice = trade.TargetPrice
			trade.HoldingDays = obs
			trade.Outcome = contracts.TargetReached
			trade.ProfitPct = profit(trade.EntryPrice, trade.ExitPrice)
			return trade
		}

		if obs == policy.MaxHoldDays {
			trade.ExitDate = bar.BusinessDate
			trade.ExitPrice = bar.Close
			trade.HoldingDays = obs
			trade.Outcome = contracts.TimeBoxed
			trade.ProfitPct = profit(trade.EntryPrice, trade.ExitPrice)
			return trade
		}
	}

	last := forward[len(forward)-1]
	trade.ExitDate = last.BusinessDate
	trade.ExitPrice = last.Close
	trade.HoldingDays = len(forward)
	trade.Outcome = contracts.NoData
	trade.ProfitPct = profit(trade.EntryPrice, trade.ExitPrice)
	return trade
}

// SimulateAll runs the simulator over every buy signal against the
// full bar series. Trades are independent: overlapping holds never
// block each other.
func SimulateAll(symbol string, entries []contracts.Signal, bars []*contracts.Bar, policy Policy) []contracts.SimulatedTrade {
	trades := make([]contracts.SimulatedTrade, 0, len(entries))
	for i, entry := range entries {
		forward := barsAfter(bars, entry)
		trades = append(trades, Simulate(symbol, i+1, entry, forward, policy))
	}
	return trades
}

// Summarize aggregates trade outcomes into the analysis summary.
func Summarize(trades []contracts.SimulatedTrade) contracts.TradeSummary {
	summary := contracts.TradeSummary{TotalTrades: len(trades)}
	if len(trades) == 0 {
		return summary
	}

	var profitSum, holdSum float64
	for _, t := range trades {
		switch t.Outcome {
		case contracts.TargetReached:
			summary.TargetReached++
		case contracts.TimeBoxed:
			summary.TimeBoxed++
		case contracts.NoData:
			summary.NoData++
		}
		profitSum += t.ProfitPct
		holdSum += float64(t.HoldingDays)
	}

	summary.WinRate = float64(summary.TargetReached) / float64(len(trades)) * 100
	summary.AvgProfitPct = profitSum / float64(len(trades))
	summary.AvgHoldDays = holdSum / float64(len(trades))
	return summary
}

func profit(entry, exit float64) float64 {
	if entry == 0 {
		return 0
	}
	return (exit - entry) / entry
}

func barsAfter(bars []*contracts.Bar, entry contracts.Signal) []*contracts.Bar {
	for i, b := range bars {
		if b.BusinessDate.After(entry.Date) {
			return bars[i:]
		}
	}
	return nil
}
