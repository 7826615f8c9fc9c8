package scheduler

import (
	"context"
	"sync"
	"time"
)

// Job is a unit of work fired by a trigger. The now argument is the
// fire time already converted to the trigger's timezone.
type Job interface {
	// Name identifies the job in logs and history.
	Name() string

	// Run executes the job.
	Run(ctx context.Context, now time.Time) error
}

// JobResult records one execution of a job.
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// historyLimit bounds how many results are kept per job.
const historyLimit = 100

// JobHistory stores recent execution results for one job.
type JobHistory struct {
	mu      sync.RWMutex
	results []JobResult
}

// Add appends a result, evicting the oldest beyond the limit.
func (h *JobHistory) Add(result JobResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.results = append(h.results, result)
	if len(h.results) > historyLimit {
		h.results = h.results[len(h.results)-historyLimit:]
	}
}

// Latest returns the most recent result, or nil when none exist.
func (h *JobHistory) Latest() *JobResult {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.results) == 0 {
		return nil
	}
	last := h.results[len(h.results)-1]
	return &last
}

// Len returns the number of recorded results.
func (h *JobHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.results)
}

// SuccessRate returns the fraction of recorded runs that succeeded.
func (h *JobHistory) SuccessRate() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.results) == 0 {
		return 0.0
	}

	succeeded := 0
	for _, result := range h.results {
		if result.Success {
			succeeded++
		}
	}
	return float64(succeeded) / float64(len(h.results))
}
