package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var eodCmd = &cobra.Command{
	Use:   "eod",
	Short: "Run the end-of-day ingestion once",
	Long: `Fetches, validates, and stores one bar per universe symbol
for a business date, then records the job run.

Example:
  go run ./cmd/tradepulse eod
  go run ./cmd/tradepulse eod --date 2026-08-28`,
	RunE: runEOD,
}

var eodDate string

func init() {
	rootCmd.AddCommand(eodCmd)

	eodCmd.Flags().StringVar(&eodDate, "date", "", "business date (YYYY-MM-DD, default today)")
}

func runEOD(cmd *cobra.Command, args []string) error {
	date := time.Now().UTC()
	if eodDate != "" {
		parsed, err := time.Parse("2006-01-02", eodDate)
		if err != nil {
			return fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", eodDate)
		}
		date = parsed
	}

	application, err := bootstrap()
	if err != nil {
		return err
	}
	defer application.Close()

	run, err := application.eodJob.Run(cmd.Context(), date)
	if err != nil {
		return fmt.Errorf("eod run: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}
