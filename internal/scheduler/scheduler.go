package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/agustinp/tradepulse/pkg/config"
	"github.com/agustinp/tradepulse/pkg/logger"
)

// Scheduler drives two independent periodic triggers: the daily EOD
// ingestion run and the short-interval price refresh. Each trigger
// owns its own cron instance so reconfiguring one never disturbs the
// other; reconfiguration swaps in a freshly built cron and an
// in-flight fire completes under the configuration it started with.
type Scheduler struct {
	eodJob     Job
	refreshJob Job
	logger     *logger.Logger

	mu          sync.RWMutex
	running     bool
	eodCfg      EODConfig
	refreshCfg  RefreshConfig
	eodCron     *cron.Cron
	refreshCron *cron.Cron

	history map[string]*JobHistory
}

// New builds a scheduler from the boot configuration. The config has
// already been validated at load time, but Validate runs again so a
// hand-built config cannot slip through.
func New(cfg config.SchedulerConfig, eodJob, refreshJob Job, log *logger.Logger) (*Scheduler, error) {
	eodCfg := EODConfig{
		Enabled:        cfg.Enabled,
		Time:           cfg.EODTime,
		Timezone:       cfg.Timezone,
		MarketDaysOnly: cfg.MarketDaysOnly,
	}
	refreshCfg := RefreshConfig{
		Enabled:         cfg.RefreshEnabled,
		IntervalMinutes: cfg.RefreshInterval,
	}

	if err := eodCfg.Validate(); err != nil {
		return nil, err
	}
	if err := refreshCfg.Validate(); err != nil {
		return nil, err
	}

	return &Scheduler{
		eodJob:     eodJob,
		refreshJob: refreshJob,
		logger:     log,
		eodCfg:     eodCfg,
		refreshCfg: refreshCfg,
		history: map[string]*JobHistory{
			eodJob.Name():     {},
			refreshJob.Name(): {},
		},
	}, nil
}

// Start launches both triggers according to their current configs.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.eodCron = s.buildEODCron(s.eodCfg)
	s.refreshCron = s.buildRefreshCron(s.refreshCfg)

	s.logger.WithFields(map[string]interface{}{
		"eod_time":         s.eodCfg.Time,
		"timezone":         s.eodCfg.Timezone,
		"refresh_interval": s.refreshCfg.IntervalMinutes,
	}).Info("Scheduler started")
}

// Stop halts both triggers, waiting for in-flight fires to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	eodCron, refreshCron := s.eodCron, s.refreshCron
	s.eodCron, s.refreshCron = nil, nil
	s.running = false
	s.mu.Unlock()

	waitStop(eodCron)
	waitStop(refreshCron)
	s.logger.Info("Scheduler stopped")
}

func waitStop(c *cron.Cron) {
	if c == nil {
		return
	}
	<-c.Stop().Done()
}

// ConfigureEOD validates and atomically installs a new EOD trigger
// configuration. On validation failure the previous configuration
// stays in effect.
func (s *Scheduler) ConfigureEOD(cfg EODConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	old := s.eodCron
	s.eodCfg = cfg
	if s.running {
		s.eodCron = s.buildEODCron(cfg)
	}
	s.mu.Unlock()

	waitStop(old)
	s.logger.WithFields(map[string]interface{}{
		"enabled":          cfg.Enabled,
		"time":             cfg.Time,
		"timezone":         cfg.Timezone,
		"market_days_only": cfg.MarketDaysOnly,
	}).Info("EOD trigger reconfigured")
	return nil
}

// ConfigureRefresh validates and atomically installs a new price
// refresh configuration.
func (s *Scheduler) ConfigureRefresh(cfg RefreshConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	old := s.refreshCron
	s.refreshCfg = cfg
	if s.running {
		s.refreshCron = s.buildRefreshCron(cfg)
	}
	s.mu.Unlock()

	waitStop(old)
	s.logger.WithFields(map[string]interface{}{
		"enabled":  cfg.Enabled,
		"interval": cfg.IntervalMinutes,
	}).Info("Price refresh trigger reconfigured")
	return nil
}

// buildEODCron returns a started cron for the EOD trigger, or nil
// when disabled. The config is captured by value so a later
// reconfiguration cannot change what an installed schedule does.
func (s *Scheduler) buildEODCron(cfg EODConfig) *cron.Cron {
	if !cfg.Enabled {
		return nil
	}

	c := cron.New(cron.WithLocation(cfg.location()))
	_, err := c.AddFunc(cfg.cronSpec(), func() {
		s.fireEOD(cfg, time.Now().In(cfg.location()))
	})
	if err != nil {
		// Unreachable after Validate, but never install a broken cron.
		s.logger.WithError(err).Error("Failed to schedule EOD trigger")
		return nil
	}
	c.Start()
	return c
}

func (s *Scheduler) buildRefreshCron(cfg RefreshConfig) *cron.Cron {
	if !cfg.Enabled {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(cfg.cronSpec(), func() {
		s.runJob(s.refreshJob, time.Now())
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to schedule price refresh trigger")
		return nil
	}
	c.Start()
	return c
}

// fireEOD applies the market-day gate before running the EOD job.
func (s *Scheduler) fireEOD(cfg EODConfig, now time.Time) {
	if cfg.MarketDaysOnly && isWeekend(now) {
		s.logger.WithField("date", now.Format("2006-01-02")).
			Info("EOD trigger skipped, not a market day")
		return
	}
	s.runJob(s.eodJob, now)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// runJob executes a job once and records the outcome. Failed runs are
// recorded, not retried; the next scheduled fire is the retry.
func (s *Scheduler) runJob(job Job, now time.Time) {
	start := time.Now()
	s.logger.WithField("job", job.Name()).Info("Job started")

	err := job.Run(context.Background(), now)

	end := time.Now()
	result := JobResult{
		JobName:   job.Name(),
		StartTime: start,
		EndTime:   end,
		Duration:  end.Sub(start),
		Success:   err == nil,
	}
	if err != nil {
		result.Error = err.Error()
	}

	s.mu.RLock()
	history := s.history[job.Name()]
	s.mu.RUnlock()
	if history != nil {
		history.Add(result)
	}

	if err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"job":      job.Name(),
			"duration": result.Duration.String(),
		}).Error("Job failed")
		return
	}
	s.logger.WithFields(map[string]interface{}{
		"job":      job.Name(),
		"duration": result.Duration.String(),
	}).Info("Job completed")
}

// TriggerStatus describes one trigger for status reporting.
type TriggerStatus struct {
	Enabled     bool       `json:"enabled"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	TotalRuns   int        `json:"total_runs"`
	SuccessRate float64    `json:"success_rate"`
	LastResult  *JobResult `json:"last_result,omitempty"`
}

// Status is a point-in-time view of the scheduler.
type Status struct {
	Running     bool          `json:"running"`
	IsMarketDay bool          `json:"is_market_day"`
	EOD         EODConfig     `json:"eod_config"`
	Refresh     RefreshConfig `json:"price_refresh_config"`
	EODTrigger  TriggerStatus `json:"eod_trigger"`
	RefreshTrg  TriggerStatus `json:"price_refresh_trigger"`
}

// Status reports both triggers' configuration, next fire time, and
// recent run outcomes. IsMarketDay reflects today's weekday in the
// EOD trigger's timezone.
func (s *Scheduler) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		Running:     s.running,
		IsMarketDay: !isWeekend(time.Now().In(s.eodCfg.location())),
		EOD:         s.eodCfg,
		Refresh:     s.refreshCfg,
		EODTrigger:  s.triggerStatus(s.eodCfg.Enabled, s.eodCron, s.eodJob),
		RefreshTrg:  s.triggerStatus(s.refreshCfg.Enabled, s.refreshCron, s.refreshJob),
	}
}

// EOD returns the active EOD trigger configuration.
func (s *Scheduler) EOD() EODConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eodCfg
}

// Refresh returns the active price refresh configuration.
func (s *Scheduler) Refresh() RefreshConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshCfg
}

func (s *Scheduler) triggerStatus(enabled bool, c *cron.Cron, job Job) TriggerStatus {
	status := TriggerStatus{Enabled: enabled}

	if history := s.history[job.Name()]; history != nil {
		status.TotalRuns = history.Len()
		status.SuccessRate = history.SuccessRate()
		status.LastResult = history.Latest()
	}

	if c != nil {
		if entries := c.Entries(); len(entries) > 0 {
			next := entries[0].Next
			status.NextRun = &next
		}
	}
	return status
}
