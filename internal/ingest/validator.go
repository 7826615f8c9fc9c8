// Package ingest validates, scores, and stores end-of-day bars.
package ingest

import (
	"fmt"
	"math"

	"github.com/agustinp/tradepulse/internal/contracts"
)

// Scoring penalties. A bar starts at 100 and every anomaly subtracts
// its penalty; the raw (possibly negative) total decides acceptance,
// the stored score is clamped to [0, 100].
const (
	penaltyInvalidSequence   = 50
	penaltyNegativePrices    = 40
	penaltyNegativeVolume    = 10
	penaltyNoMovement        = 5
	penaltyExtremeVolatility = 20
	penaltyContinuityBreak   = 15

	extremeVolatilityThreshold = 0.5
	priceGapThreshold          = 0.2
)

// formatPct renders a ratio as a percentage with one decimal, the form
// embedded in measured anomaly flags (0.55 -> "55.0%").
func formatPct(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// Validate scores a raw bar against the intra-bar quality checks and
// returns the raw score with the anomaly flags that fired. Checks are
// additive and independent: one defect never masks another.
func Validate(raw contracts.RawBar) (int, []string) {
	score := 100
	var flags []string

	for _, v := range []float64{raw.Open, raw.High, raw.Low, raw.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, []string{fmt.Sprintf("DATA_PARSING_ERROR_non-finite price %v", v)}
		}
	}

	if !(raw.Low <= raw.Open && raw.Open <= raw.High && raw.Low <= raw.Close && raw.Close <= raw.High) {
		score -= penaltyInvalidSequence
		flags = append(flags, "INVALID_OHLC_SEQUENCE")
	}

	if raw.Open <= 0 || raw.High <= 0 || raw.Low <= 0 || raw.Close <= 0 {
		score -= penaltyNegativePrices
		flags = append(flags, "NEGATIVE_PRICES")
	}

	if raw.Volume < 0 {
		score -= penaltyNegativeVolume
		flags = append(flags, "NEGATIVE_VOLUME")
	}

	if raw.High == raw.Low && raw.High > 0 {
		score -= penaltyNoMovement
		flags = append(flags, "NO_PRICE_MOVEMENT")
	}

	if raw.Open > 0 {
		dailyChange := math.Abs(raw.Close-raw.Open) / raw.Open
		if dailyChange > extremeVolatilityThreshold {
			score -= penaltyExtremeVolatility
			flags = append(flags, "EXTREME_VOLATILITY_"+formatPct(dailyChange))
		}
	}

	return score, flags
}

// clampScore bounds a raw score to the stored [0, 100] range.
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
