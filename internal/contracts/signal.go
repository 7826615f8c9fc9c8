package contracts

import "time"

// SignalColor classifies a trading day as a buy, sell, or neutral
// candidate. Buy takes precedence when both conditions fire on the
// same day.
type SignalColor string

const (
	SignalBuy     SignalColor = "buy"
	SignalSell    SignalColor = "sell"
	SignalNeutral SignalColor = "neutral"
)

// Signal is the volatility-based classification of one trading day,
// together with the intermediate series values behind it.
type Signal struct {
	Date      time.Time   `json:"date"`
	Close     float64     `json:"close"`
	WVF       float64     `json:"wvf"`
	MidLine   float64     `json:"mid_line"`
	UpperBand float64     `json:"upper_band"`
	LowerBand float64     `json:"lower_band"`
	RangeHigh float64     `json:"range_high"`
	RangeLow  float64     `json:"range_low"`
	Color     SignalColor `json:"color"`
}

// IsBuy reports whether the day fired a buy signal.
func (s *Signal) IsBuy() bool {
	return s.Color == SignalBuy
}
