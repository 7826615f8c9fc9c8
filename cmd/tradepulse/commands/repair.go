package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/agustinp/tradepulse/internal/universe"
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Backfill missing weekday bars for one symbol",
	Long: `Walks the weekdays in a date range, skips dates already
stored, and fetches and validates a bar for each missing one.

Example:
  go run ./cmd/tradepulse repair --symbol AAPL --from 2026-01-01 --to 2026-03-31`,
	RunE: runRepair,
}

var (
	repairSymbol string
	repairFrom   string
	repairTo     string
)

func init() {
	rootCmd.AddCommand(repairCmd)

	repairCmd.Flags().StringVar(&repairSymbol, "symbol", "", "symbol to repair (required)")
	repairCmd.Flags().StringVar(&repairFrom, "from", "", "range start (YYYY-MM-DD, required)")
	repairCmd.Flags().StringVar(&repairTo, "to", "", "range end (YYYY-MM-DD, required)")
	repairCmd.MarkFlagRequired("symbol")
	repairCmd.MarkFlagRequired("from")
	repairCmd.MarkFlagRequired("to")
}

func runRepair(cmd *cobra.Command, args []string) error {
	if !universe.Contains(repairSymbol) {
		return fmt.Errorf("unknown symbol %q", repairSymbol)
	}

	from, err := time.Parse("2006-01-02", repairFrom)
	if err != nil {
		return fmt.Errorf("invalid --from %q (expected YYYY-MM-DD)", repairFrom)
	}
	to, err := time.Parse("2006-01-02", repairTo)
	if err != nil {
		return fmt.Errorf("invalid --to %q (expected YYYY-MM-DD)", repairTo)
	}
	if to.Before(from) {
		return fmt.Errorf("--to must not precede --from")
	}

	application, err := bootstrap()
	if err != nil {
		return err
	}
	defer application.Close()

	result, err := application.repairer.Repair(cmd.Context(), repairSymbol, from, to)
	if err != nil {
		return fmt.Errorf("repair: %w", err)
	}

	fmt.Printf("%s: %d dates checked, %d repaired, %d bars stored\n",
		result.Symbol, result.DatesChecked, result.DatesRepaired, result.StoredBars)
	for _, failure := range result.FailedDates {
		fmt.Printf("  failed %s\n", failure)
	}
	return nil
}
