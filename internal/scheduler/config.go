package scheduler

import (
	"fmt"
	"time"
)

// EODConfig controls the daily end-of-day ingestion trigger.
type EODConfig struct {
	Enabled        bool   `json:"enabled"`
	Time           string `json:"time"`     // wall clock "HH:MM"
	Timezone       string `json:"timezone"` // IANA name
	MarketDaysOnly bool   `json:"market_days_only"`
}

// Validate rejects a malformed EOD configuration before it replaces
// the active one.
func (c EODConfig) Validate() error {
	if _, err := time.Parse("15:04", c.Time); err != nil {
		return fmt.Errorf("time must be HH:MM, got %q", c.Time)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q", c.Timezone)
	}
	return nil
}

// location returns the configured timezone. Call Validate first.
func (c EODConfig) location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// cronSpec renders the trigger as a standard 5-field cron expression.
func (c EODConfig) cronSpec() string {
	at, _ := time.Parse("15:04", c.Time)
	return fmt.Sprintf("%d %d * * *", at.Minute(), at.Hour())
}

// RefreshConfig controls the periodic price snapshot trigger.
type RefreshConfig struct {
	Enabled         bool `json:"enabled"`
	IntervalMinutes int  `json:"interval_minutes"`
}

// Validate bounds the refresh interval.
func (c RefreshConfig) Validate() error {
	if c.IntervalMinutes < 1 || c.IntervalMinutes > 60 {
		return fmt.Errorf("interval must be 1-60 minutes, got %d", c.IntervalMinutes)
	}
	return nil
}

func (c RefreshConfig) cronSpec() string {
	return fmt.Sprintf("@every %dm", c.IntervalMinutes)
}
