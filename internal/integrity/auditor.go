// Package integrity scans stored history for defects and repairs
// missing spans.
package integrity

import (
	"context"
	"fmt"
	"time"

	"github.com/agustinp/tradepulse/internal/contracts"
	"github.com/agustinp/tradepulse/pkg/logger"
)

// Scan thresholds.
const (
	// maxGapDays is the widest calendar gap between consecutive bars
	// that still passes; anything wider is a suspected hole. Long
	// weekends and single holidays fit inside it.
	maxGapDays = 5
	// lowQualityThreshold marks stored bars worth a second look even
	// though they cleared the ingestion gate.
	lowQualityThreshold = 80
	// minHistoryBars is the thinnest history a symbol can hold before
	// it is flagged as insufficient for analysis.
	minHistoryBars = 30
)

// Auditor runs the integrity scans against the bar store.
type Auditor struct {
	bars     contracts.BarRepository
	findings contracts.FindingRepository
	symbols  []string
	logger   *logger.Logger
}

// NewAuditor creates an auditor over the given universe.
func NewAuditor(bars contracts.BarRepository, findings contracts.FindingRepository, symbols []string, log *logger.Logger) *Auditor {
	return &Auditor{
		bars:     bars,
		findings: findings,
		symbols:  symbols,
		logger:   log.WithField("module", "integrity"),
	}
}

// Scan runs all three checks over every universe symbol and persists
// each finding. The report carries everything found in this pass.
func (a *Auditor) Scan(ctx context.Context) (*contracts.IntegrityReport, error) {
	report := &contracts.IntegrityReport{
		ScannedSymbols: len(a.symbols),
		StartedAt:      time.Now(),
	}

	for _, symbol := range a.symbols {
		findings, err := a.scanSymbol(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", symbol, err)
		}
		report.Findings = append(report.Findings, findings...)
	}

	lowQuality, err := a.scanLowQuality(ctx)
	if err != nil {
		return nil, err
	}
	report.Findings = append(report.Findings, lowQuality...)

	for i := range report.Findings {
		if err := a.findings.Append(ctx, &report.Findings[i]); err != nil {
			return nil, fmt.Errorf("persist finding: %w", err)
		}
	}

	report.FinishedAt = time.Now()
	a.logger.WithFields(map[string]interface{}{
		"symbols":  report.ScannedSymbols,
		"findings": len(report.Findings),
		"failures": report.Count(contracts.FindingFail),
	}).Info("Integrity scan completed")

	return report, nil
}

// scanSymbol runs the per-symbol checks: date gaps and thin history.
func (a *Auditor) scanSymbol(ctx context.Context, symbol string) ([]contracts.IntegrityFinding, error) {
	dates, err := a.bars.ListDates(ctx, symbol)
	if err != nil {
		return nil, err
	}

	var findings []contracts.IntegrityFinding

	for i := 1; i < len(dates); i++ {
		gapDays := int(dates[i].Sub(dates[i-1]).Hours() / 24)
		if gapDays > maxGapDays {
			findings = append(findings, contracts.IntegrityFinding{
				Symbol:       symbol,
				BusinessDate: dates[i],
				CheckType:    contracts.CheckDateGap,
				Status:       contracts.FindingWarning,
				Details: fmt.Sprintf("%d day gap from %s to %s",
					gapDays, dates[i-1].Format("2006-01-02"), dates[i].Format("2006-01-02")),
				CheckedAt: time.Now(),
			})
		}
	}

	if len(dates) > 0 && len(dates) < minHistoryBars {
		findings = append(findings, contracts.IntegrityFinding{
			Symbol:       symbol,
			BusinessDate: dates[len(dates)-1],
			CheckType:    contracts.CheckThinHistory,
			Status:       contracts.FindingFail,
			Details:      fmt.Sprintf("only %d bars stored, need %d", len(dates), minHistoryBars),
			CheckedAt:    time.Now(),
		})
	}

	return findings, nil
}

// scanLowQuality flags stored bars scoring below the review threshold,
// worst first.
func (a *Auditor) scanLowQuality(ctx context.Context) ([]contracts.IntegrityFinding, error) {
	bars, err := a.bars.ListLowQuality(ctx, lowQualityThreshold)
	if err != nil {
		return nil, err
	}

	findings := make([]contracts.IntegrityFinding, 0, len(bars))
	for _, bar := range bars {
		findings = append(findings, contracts.IntegrityFinding{
			Symbol:       bar.Symbol,
			BusinessDate: bar.BusinessDate,
			CheckType:    contracts.CheckLowQuality,
			Status:       contracts.FindingWarning,
			Details:      fmt.Sprintf("quality %d: %s", bar.QualityScore, bar.FlagString()),
			CheckedAt:    time.Now(),
		})
	}
	return findings, nil
}
