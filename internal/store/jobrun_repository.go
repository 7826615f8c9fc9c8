package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agustinp/tradepulse/internal/contracts"
)

// JobRunRepository implements contracts.JobRunRepository on Postgres.
type JobRunRepository struct {
	pool *pgxpool.Pool
}

// NewJobRunRepository creates a new job run repository.
func NewJobRunRepository(pool *pgxpool.Pool) *JobRunRepository {
	return &JobRunRepository{pool: pool}
}

// Start registers a run as RUNNING. A re-run for the same
// (job_name, business_date) replaces the previous record.
func (r *JobRunRepository) Start(ctx context.Context, run *contracts.JobRun) error {
	run.Status = contracts.JobRunning
	run.StartedAt = time.Now()

	query := `
		INSERT INTO job_runs (job_name, business_date, status, symbols_processed, symbols_failed, started_at, finished_at, error_details)
		VALUES ($1, $2, $3, 0, 0, $4, NULL, '')
		ON CONFLICT (job_name, business_date) DO UPDATE SET
			status = EXCLUDED.status,
			symbols_processed = 0,
			symbols_failed = 0,
			started_at = EXCLUDED.started_at,
			finished_at = NULL,
			error_details = ''
		RETURNING id
	`

	return r.pool.QueryRow(ctx, query,
		run.JobName, run.BusinessDate, run.Status, run.StartedAt,
	).Scan(&run.ID)
}

// Finish records the terminal status and counters of a run.
func (r *JobRunRepository) Finish(ctx context.Context, run *contracts.JobRun) error {
	now := time.Now()
	run.FinishedAt = &now

	query := `
		UPDATE job_runs
		SET status = $1, symbols_processed = $2, symbols_failed = $3, finished_at = $4, error_details = $5
		WHERE job_name = $6 AND business_date = $7
	`

	_, err := r.pool.Exec(ctx, query,
		run.Status, run.SymbolsProcessed, run.SymbolsFailed, run.FinishedAt,
		strings.Join(run.ErrorDetails, "\n"), run.JobName, run.BusinessDate,
	)
	return err
}

const jobRunColumns = `id, job_name, business_date, status, symbols_processed, symbols_failed, started_at, finished_at, error_details`

func scanJobRun(row pgx.Row) (*contracts.JobRun, error) {
	var run contracts.JobRun
	var details string
	err := row.Scan(
		&run.ID, &run.JobName, &run.BusinessDate, &run.Status,
		&run.SymbolsProcessed, &run.SymbolsFailed, &run.StartedAt,
		&run.FinishedAt, &details,
	)
	if err != nil {
		return nil, err
	}
	if details != "" {
		run.ErrorDetails = strings.Split(details, "\n")
	}
	return &run, nil
}

// GetByDate retrieves all runs for a business date, newest first.
func (r *JobRunRepository) GetByDate(ctx context.Context, date time.Time) ([]*contracts.JobRun, error) {
	query := `
		SELECT ` + jobRunColumns + `
		FROM job_runs
		WHERE business_date = $1
		ORDER BY started_at DESC
	`

	rows, err := r.pool.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*contracts.JobRun
	for rows.Next() {
		run, err := scanJobRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetLatest retrieves the most recently started run of a job, or nil
// when the job has never run.
func (r *JobRunRepository) GetLatest(ctx context.Context, jobName string) (*contracts.JobRun, error) {
	query := `
		SELECT ` + jobRunColumns + `
		FROM job_runs
		WHERE job_name = $1
		ORDER BY started_at DESC
		LIMIT 1
	`

	run, err := scanJobRun(r.pool.QueryRow(ctx, query, jobName))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return run, err
}
