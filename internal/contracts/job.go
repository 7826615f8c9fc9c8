package contracts

import "time"

// JobStatus is the lifecycle state of an ingestion job run.
type JobStatus string

const (
	JobRunning JobStatus = "RUNNING"
	JobSuccess JobStatus = "SUCCESS"
	JobPartial JobStatus = "PARTIAL"
	JobFailed  JobStatus = "FAILED"
)

// JobRun records one execution of a batch job against a business date.
// A (JobName, BusinessDate) pair identifies the run; re-running the
// same job for the same date overwrites the earlier record.
type JobRun struct {
	ID               int64      `json:"id"`
	JobName          string     `json:"job_name"`
	BusinessDate     time.Time  `json:"business_date"`
	Status           JobStatus  `json:"status"`
	SymbolsProcessed int        `json:"symbols_processed"`
	SymbolsFailed    int        `json:"symbols_failed"`
	StartedAt        time.Time  `json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
	ErrorDetails     []string   `json:"error_details,omitempty"`
}

// Duration returns how long the run took, or zero if still running.
func (j *JobRun) Duration() time.Duration {
	if j.FinishedAt == nil {
		return 0
	}
	return j.FinishedAt.Sub(j.StartedAt)
}

// Resolve derives the terminal status from the processed/failed
// counters: all failed means FAILED, some failed means PARTIAL.
func (j *JobRun) Resolve() JobStatus {
	switch {
	case j.SymbolsProcessed == 0 && j.SymbolsFailed > 0:
		return JobFailed
	case j.SymbolsFailed > 0:
		return JobPartial
	default:
		return JobSuccess
	}
}
