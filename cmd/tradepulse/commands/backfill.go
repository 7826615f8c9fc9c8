package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agustinp/tradepulse/internal/ingest"
	"github.com/agustinp/tradepulse/internal/universe"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Load historical bars for the whole universe",
	Long: `Fetches multi-year history for every symbol lacking it and
stores bars through the same quality gate as the nightly run. Symbols
that already hold sufficient history are skipped unless --force is set.

Example:
  go run ./cmd/tradepulse backfill
  go run ./cmd/tradepulse backfill --years 2 --force`,
	RunE: runBackfill,
}

var (
	backfillYears int
	backfillForce bool
)

func init() {
	rootCmd.AddCommand(backfillCmd)

	backfillCmd.Flags().IntVar(&backfillYears, "years", 1, "years of history to load")
	backfillCmd.Flags().BoolVar(&backfillForce, "force", false, "reload even when history is sufficient")
}

func runBackfill(cmd *cobra.Command, args []string) error {
	if backfillYears < 1 {
		return fmt.Errorf("--years must be positive")
	}

	application, err := bootstrap()
	if err != nil {
		return err
	}
	defer application.Close()

	run, results, err := application.backfiller.Run(
		cmd.Context(), universe.Symbols, backfillYears, backfillForce)
	if err != nil {
		return fmt.Errorf("backfill: %w", err)
	}

	for _, res := range results {
		if res.Status == ingest.StatusStored {
			fmt.Printf("%-12s stored=%d skipped=%d\n", res.Symbol, res.Stored, res.Skipped)
		} else {
			fmt.Printf("%-12s FAILED: %s\n", res.Symbol, res.Reason)
		}
	}
	fmt.Printf("\n%s: %d loaded, %d failed, %d skipped as sufficient\n",
		run.Status, run.SymbolsProcessed, run.SymbolsFailed,
		len(universe.Symbols)-len(results))
	return nil
}
