package contracts

import "time"

// CheckType identifies one of the integrity scans run against the
// stored history.
type CheckType string

const (
	CheckDateGap     CheckType = "DATE_GAP"
	CheckLowQuality  CheckType = "LOW_QUALITY"
	CheckThinHistory CheckType = "THIN_HISTORY"
)

// FindingStatus grades an integrity finding.
type FindingStatus string

const (
	FindingPass    FindingStatus = "PASS"
	FindingWarning FindingStatus = "WARNING"
	FindingFail    FindingStatus = "FAIL"
)

// IntegrityFinding is one issue surfaced by an integrity scan.
type IntegrityFinding struct {
	ID           int64         `json:"id"`
	Symbol       string        `json:"symbol"`
	BusinessDate time.Time     `json:"business_date"`
	CheckType    CheckType     `json:"check_type"`
	Status       FindingStatus `json:"status"`
	Details      string        `json:"details"`
	CheckedAt    time.Time     `json:"checked_at"`
}

// IntegrityReport aggregates the findings of a full scan.
type IntegrityReport struct {
	ScannedSymbols int                `json:"scanned_symbols"`
	Findings       []IntegrityFinding `json:"findings"`
	StartedAt      time.Time          `json:"started_at"`
	FinishedAt     time.Time          `json:"finished_at"`
}

// Count returns how many findings carry the given status.
func (r *IntegrityReport) Count(status FindingStatus) int {
	n := 0
	for _, f := range r.Findings {
		if f.Status == status {
			n++
		}
	}
	return n
}
