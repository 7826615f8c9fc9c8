package contracts

import (
	"strings"
	"time"
)

// Bar is a single end-of-day OHLCV record for one instrument, enriched
// with the quality metadata produced during ingestion.
type Bar struct {
	Symbol       string    `json:"symbol"`
	BusinessDate time.Time `json:"business_date"`
	Open         float64   `json:"open"`
	High         float64   `json:"high"`
	Low          float64   `json:"low"`
	Close        float64   `json:"close"`
	AdjClose     float64   `json:"adj_close"`
	Volume       int64     `json:"volume"`

	// Quality metadata, clamped to [0, 100] at persistence time.
	QualityScore int      `json:"quality_score"`
	AnomalyFlags []string `json:"anomaly_flags,omitempty"`

	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DateKey returns the business date formatted as YYYY-MM-DD.
func (b *Bar) DateKey() string {
	return b.BusinessDate.Format("2006-01-02")
}

// FlagString joins the anomaly flags into the comma-separated form
// used for storage and reporting.
func (b *Bar) FlagString() string {
	return strings.Join(b.AnomalyFlags, ",")
}

// HasFlag reports whether the bar carries the given anomaly flag.
// Flags with embedded measurements (e.g. "PRICE_GAP_25.0%") match on
// their prefix.
func (b *Bar) HasFlag(prefix string) bool {
	for _, f := range b.AnomalyFlags {
		if strings.HasPrefix(f, prefix) {
			return true
		}
	}
	return false
}

// RawBar is an OHLCV record as returned by a market data provider,
// before validation and quality scoring.
type RawBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close"`
	Volume   int64     `json:"volume"`
}

// Quote is a lightweight intraday snapshot for one instrument.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	PrevClose float64   `json:"prev_close"`
	ChangePct float64   `json:"change_pct"`
	Volume    int64     `json:"volume"`
	FetchedAt time.Time `json:"fetched_at"`
}
