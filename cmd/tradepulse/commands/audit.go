package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agustinp/tradepulse/internal/contracts"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Scan stored history for gaps, low quality, and thin symbols",
	Long: `Runs the three integrity scans over the stored bar history:
date gaps above five calendar days, bars with quality score below 80,
and symbols with fewer than 30 bars. Findings are persisted and printed.

Example:
  go run ./cmd/tradepulse audit
  go run ./cmd/tradepulse audit --output json`,
	RunE: runAudit,
}

var auditOutput string

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVar(&auditOutput, "output", "text", "output format (text, json)")
}

func runAudit(cmd *cobra.Command, args []string) error {
	application, err := bootstrap()
	if err != nil {
		return err
	}
	defer application.Close()

	report, err := application.auditor.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("integrity scan: %w", err)
	}

	if auditOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	for _, finding := range report.Findings {
		fmt.Printf("[%-7s] %-12s %-14s %s\n",
			finding.Status, finding.Symbol, finding.CheckType, finding.Details)
	}
	fmt.Printf("\n%d findings (%d warnings, %d failures)\n",
		len(report.Findings),
		report.Count(contracts.FindingWarning),
		report.Count(contracts.FindingFail))
	return nil
}
