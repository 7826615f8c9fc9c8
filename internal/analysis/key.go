// Package analysis caches computed analysis results keyed by symbol,
// window, and policy configuration.
package analysis

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/agustinp/tradepulse/internal/contracts"
)

// ConfigHash folds the trade policy parameters into a stable hash so
// results computed under different targets never collide in the cache.
func ConfigHash(profitTarget float64, maxHoldDays int) string {
	s := strconv.FormatFloat(profitTarget, 'g', -1, 64) + "_" + strconv.Itoa(maxHoldDays)
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// NewKey builds the cache key for one analysis request.
func NewKey(symbol string, start, end time.Time, profitTarget float64, maxHoldDays int) contracts.AnalysisKey {
	return contracts.AnalysisKey{
		Symbol:     symbol,
		StartDate:  start.Format("2006-01-02"),
		EndDate:    end.Format("2006-01-02"),
		ConfigHash: ConfigHash(profitTarget, maxHoldDays),
	}
}

// keyString renders a key in the flat form used for storage lookups.
func keyString(key contracts.AnalysisKey) string {
	return key.Symbol + ":" + key.StartDate + ":" + key.EndDate + ":" + key.ConfigHash
}
