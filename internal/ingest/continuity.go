package ingest

import "math"

// CheckContinuity compares a new close against the previous session's
// close. A move above 20% in either direction is flagged as a gap; the
// returned flag carries the measured size (e.g. "PRICE_GAP_25.0%").
// With no prior close there is nothing to compare and the bar passes.
func CheckContinuity(prevClose, newClose float64) (bool, string) {
	if prevClose <= 0 {
		return true, ""
	}

	gap := math.Abs(newClose-prevClose) / prevClose
	if gap > priceGapThreshold {
		return false, "PRICE_GAP_" + formatPct(gap)
	}
	return true, ""
}
