package ingest

import "fmt"

// Status classifies the per-symbol outcome of an ingestion attempt.
type Status string

const (
	// StatusStored means the bar passed the quality gate and was
	// written to the store.
	StatusStored Status = "STORED"
	// StatusRejected means the bar was fetched but scored below the
	// acceptance threshold and was discarded.
	StatusRejected Status = "REJECTED"
	// StatusFailed means the bar could not be fetched or written.
	StatusFailed Status = "FAILED"
)

// Failure reasons used when no usable bar reached the quality gate.
const (
	ReasonNoData        = "NO_DATA"
	ReasonNoDataForDate = "NO_DATA_FOR_DATE"
	ReasonQualityFailed = "QUALITY_FAILED"
)

// SymbolResult is the outcome of ingesting one symbol for one date.
type SymbolResult struct {
	Symbol       string   `json:"symbol"`
	Status       Status   `json:"status"`
	QualityScore int      `json:"quality_score"`
	AnomalyFlags []string `json:"anomaly_flags,omitempty"`
	Reason       string   `json:"reason,omitempty"`
}

// OK reports whether the bar made it into the store.
func (r SymbolResult) OK() bool {
	return r.Status == StatusStored
}

// Note renders the result as the "SYMBOL: reason" form recorded in job
// run error details.
func (r SymbolResult) Note() string {
	return fmt.Sprintf("%s: %s", r.Symbol, r.Reason)
}
