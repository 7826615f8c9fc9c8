package contracts

import "time"

// TradeOutcome classifies how a simulated trade was closed.
type TradeOutcome string

const (
	// TargetReached means the profit target printed before the holding
	// limit; the exit is booked exactly at the target price.
	TargetReached TradeOutcome = "TARGET_REACHED"
	// TimeBoxed means the holding limit expired; the exit is booked at
	// that day's close.
	TimeBoxed TradeOutcome = "TIME_BOXED"
	// NoData means the history ran out before either condition; the
	// exit is booked at the last available close.
	NoData TradeOutcome = "NO_DATA"
)

// SimulatedTrade is one forward-walked trade opened on a buy signal.
type SimulatedTrade struct {
	TradeNum    int          `json:"trade_num"`
	Symbol      string       `json:"symbol"`
	EntryDate   time.Time    `json:"entry_date"`
	EntryPrice  float64      `json:"entry_price"`
	TargetPrice float64      `json:"target_price"`
	ExitDate    time.Time    `json:"exit_date"`
	ExitPrice   float64      `json:"exit_price"`
	HoldingDays int          `json:"holding_days"`
	ProfitPct   float64      `json:"profit_pct"`
	Outcome     TradeOutcome `json:"outcome"`
}

// TradeSummary aggregates the trades of one analysis run.
type TradeSummary struct {
	TotalTrades   int     `json:"total_trades"`
	TargetReached int     `json:"target_reached"`
	TimeBoxed     int     `json:"time_boxed"`
	NoData        int     `json:"no_data"`
	WinRate       float64 `json:"win_rate"`
	AvgProfitPct  float64 `json:"avg_profit_pct"`
	AvgHoldDays   float64 `json:"avg_hold_days"`
}

// AnalysisResult is the cacheable output of a full signal-and-trade
// analysis for one instrument over one window.
type AnalysisResult struct {
	Symbol       string           `json:"symbol"`
	StartDate    time.Time        `json:"start_date"`
	EndDate      time.Time        `json:"end_date"`
	ProfitTarget float64          `json:"profit_target"`
	MaxHoldDays  int              `json:"max_hold_days"`
	Signals      []Signal         `json:"signals"`
	Trades       []SimulatedTrade `json:"trades"`
	Summary      TradeSummary     `json:"summary"`
	ComputedAt   time.Time        `json:"computed_at"`
}
