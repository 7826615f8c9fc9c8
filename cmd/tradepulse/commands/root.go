package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tradepulse",
	Short: "TradePulse - EOD market data pipeline and WVF signal analysis",
	Long: `TradePulse CLI

Daily OHLCV ingestion with quality scoring, Williams VIX Fix signal
computation, and forward-walk trade simulation.

Usage:
  go run ./cmd/tradepulse [command]

Examples:
  go run ./cmd/tradepulse api
  go run ./cmd/tradepulse eod --date 2026-08-28
  go run ./cmd/tradepulse backfill --years 2
  go run ./cmd/tradepulse analyze --symbol AAPL --from 2025-01-01 --to 2025-12-31`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}
