// Package universe defines the fixed set of instruments the pipeline
// tracks: Buenos Aires equities, their ADRs, a handful of index ETFs,
// large-cap US tech, and major crypto pairs.
package universe

import "strings"

// Symbols is the tracked instrument list. Order is stable so batch
// jobs process instruments deterministically.
var Symbols = []string{
	// Buenos Aires equities
	"GGAL.BA", "PAMP.BA", "YPFD.BA", "ALUA.BA", "TECO2.BA",
	"MIRG.BA", "CEPU.BA", "BMA.BA", "SUPV.BA", "LOMA.BA",
	// Argentine ADRs
	"GGAL", "PAM", "YPF", "BMA", "SUPV", "TEO", "CRESY", "IRS", "TGS",
	// ETFs
	"SPY", "QQQ", "IWM", "EEM", "GLD",
	// US large caps
	"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA", "META", "NVDA", "NFLX",
	// Crypto
	"BTC-USD", "ETH-USD", "ADA-USD", "DOT-USD",
	"THETA-USD", "TON11419-USD",
	"XRP-USD", "AAVE-USD", "APT21794-USD", "ARB11841-USD", "ATOM-USD",
	"AVAX-USD", "BCH-USD", "DOGE-USD", "ETC-USD", "FIL-USD",
	"INJ-USD", "LINK-USD", "LTC-USD", "MANA-USD",
	"NEAR-USD", "NEO-USD", "OP-USD",
	"RUNE-USD", "SAND-USD", "SOL-USD",
}

var etfs = map[string]bool{
	"SPY": true, "QQQ": true, "IWM": true, "EEM": true, "GLD": true,
}

// Contains reports whether the symbol is part of the tracked universe.
func Contains(symbol string) bool {
	for _, s := range Symbols {
		if s == symbol {
			return true
		}
	}
	return false
}

// IsBuenosAires reports whether the symbol trades on the Buenos Aires
// exchange.
func IsBuenosAires(symbol string) bool {
	return strings.HasSuffix(symbol, ".BA")
}

// IsCrypto reports whether the symbol is a crypto pair. Crypto trades
// every day, so weekend gaps are expected for everything else only.
func IsCrypto(symbol string) bool {
	return strings.HasSuffix(symbol, "-USD")
}

// IsETF reports whether the symbol is one of the tracked index ETFs.
func IsETF(symbol string) bool {
	return etfs[symbol]
}

// Categories groups the universe for reporting.
func Categories() map[string][]string {
	out := map[string][]string{
		"argentinas": {},
		"etfs":       {},
		"crypto":     {},
		"other":      {},
	}
	for _, s := range Symbols {
		switch {
		case IsBuenosAires(s):
			out["argentinas"] = append(out["argentinas"], s)
		case IsETF(s):
			out["etfs"] = append(out["etfs"], s)
		case IsCrypto(s):
			out["crypto"] = append(out["crypto"], s)
		default:
			out["other"] = append(out["other"], s)
		}
	}
	return out
}
