package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/agustinp/tradepulse/internal/backtest"
	"github.com/agustinp/tradepulse/internal/universe"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute WVF signals and simulate trades for one symbol",
	Long: `Computes the Williams VIX Fix indicator over stored bars,
takes every buy signal in the window, and walks each trade forward
under the profit-target / time-box policy.

Example:
  go run ./cmd/tradepulse analyze --symbol AAPL --from 2025-01-01 --to 2025-12-31
  go run ./cmd/tradepulse analyze --symbol BTC-USD --from 2025-01-01 --to 2025-12-31 --target 0.06 --max-days 20`,
	RunE: runAnalyze,
}

var (
	analyzeSymbol  string
	analyzeFrom    string
	analyzeTo      string
	analyzeTarget  float64
	analyzeMaxDays int
	analyzeOutput  string
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeSymbol, "symbol", "", "symbol to analyze (required)")
	analyzeCmd.Flags().StringVar(&analyzeFrom, "from", "", "range start (YYYY-MM-DD, required)")
	analyzeCmd.Flags().StringVar(&analyzeTo, "to", "", "range end (YYYY-MM-DD, required)")
	analyzeCmd.Flags().Float64Var(&analyzeTarget, "target", 0, "profit target fraction (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeMaxDays, "max-days", 0, "holding limit in observations (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "text", "output format (text, json)")
	analyzeCmd.MarkFlagRequired("symbol")
	analyzeCmd.MarkFlagRequired("from")
	analyzeCmd.MarkFlagRequired("to")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if !universe.Contains(analyzeSymbol) {
		return fmt.Errorf("unknown symbol %q", analyzeSymbol)
	}

	from, err := time.Parse("2006-01-02", analyzeFrom)
	if err != nil {
		return fmt.Errorf("invalid --from %q (expected YYYY-MM-DD)", analyzeFrom)
	}
	to, err := time.Parse("2006-01-02", analyzeTo)
	if err != nil {
		return fmt.Errorf("invalid --to %q (expected YYYY-MM-DD)", analyzeTo)
	}

	application, err := bootstrap()
	if err != nil {
		return err
	}
	defer application.Close()

	policy := backtest.Policy{
		ProfitTarget: application.cfg.Analysis.ProfitTarget,
		MaxHoldDays:  application.cfg.Analysis.MaxHoldDays,
	}
	if analyzeTarget > 0 {
		policy.ProfitTarget = analyzeTarget
	}
	if analyzeMaxDays > 0 {
		policy.MaxHoldDays = analyzeMaxDays
	}

	result, err := application.analyzer.Analyze(cmd.Context(), backtest.Request{
		Symbol:    analyzeSymbol,
		StartDate: from,
		EndDate:   to,
		Policy:    policy,
	})
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	if analyzeOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Printf("%s %s to %s (target %.1f%%, max hold %d days)\n",
		result.Symbol,
		result.StartDate.Format("2006-01-02"),
		result.EndDate.Format("2006-01-02"),
		policy.ProfitTarget*100,
		policy.MaxHoldDays)

	for _, trade := range result.Trades {
		fmt.Printf("#%-3d %s %8.2f -> %s %8.2f  %5.1f%%  %2dd  %s\n",
			trade.TradeNum,
			trade.EntryDate.Format("2006-01-02"),
			trade.EntryPrice,
			trade.ExitDate.Format("2006-01-02"),
			trade.ExitPrice,
			trade.ProfitPct,
			trade.HoldingDays,
			trade.Outcome)
	}

	summary := result.Summary
	fmt.Printf("\n%d trades, %.1f%% win rate, %.2f%% avg profit, %.1f avg hold days\n",
		summary.TotalTrades, summary.WinRate, summary.AvgProfitPct, summary.AvgHoldDays)
	return nil
}
