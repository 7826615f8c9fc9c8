// Package jobs adapts the ingestion and refresh services to the
// scheduler's Job interface.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/agustinp/tradepulse/internal/contracts"
	"github.com/agustinp/tradepulse/internal/ingest"
	"github.com/agustinp/tradepulse/pkg/logger"
)

// EOD runs the end-of-day ingestion for the trigger's fire date.
type EOD struct {
	job    *ingest.EODJob
	logger *logger.Logger
}

func NewEOD(job *ingest.EODJob, log *logger.Logger) *EOD {
	return &EOD{job: job, logger: log}
}

func (j *EOD) Name() string { return ingest.EODJobName }

// Run ingests bars for the calendar date of now, which the scheduler
// has already moved into the configured market timezone.
func (j *EOD) Run(ctx context.Context, now time.Time) error {
	run, err := j.job.Run(ctx, now)
	if err != nil {
		return err
	}
	if run.Status == contracts.JobFailed {
		return fmt.Errorf("eod run failed for %s: %d symbols failed",
			now.Format("2006-01-02"), run.SymbolsFailed)
	}
	if run.Status == contracts.JobPartial {
		j.logger.WithFields(map[string]interface{}{
			"date":   now.Format("2006-01-02"),
			"failed": run.SymbolsFailed,
		}).Warn("EOD run partially succeeded")
	}
	return nil
}
