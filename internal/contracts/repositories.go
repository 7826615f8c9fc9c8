package contracts

import (
	"context"
	"time"
)

// BarRepository manages stored end-of-day bars.
type BarRepository interface {
	Upsert(ctx context.Context, bar *Bar) error
	GetByDate(ctx context.Context, symbol string, date time.Time) (*Bar, error)
	GetRange(ctx context.Context, symbol string, from, to time.Time) ([]*Bar, error)
	// GetLastBefore returns the most recent bar strictly before date,
	// or nil when the symbol has no earlier history.
	GetLastBefore(ctx context.Context, symbol string, date time.Time) (*Bar, error)
	Exists(ctx context.Context, symbol string, date time.Time) (bool, error)
	// ListDates returns all stored business dates for a symbol in
	// ascending order.
	ListDates(ctx context.Context, symbol string) ([]time.Time, error)
	// ListLowQuality returns bars scoring below threshold, worst first.
	ListLowQuality(ctx context.Context, threshold int) ([]*Bar, error)
	CountBySymbol(ctx context.Context, symbol string) (int, error)
	Stats(ctx context.Context) (*StoreStats, error)
}

// StoreStats summarizes the stored history.
type StoreStats struct {
	TotalBars       int64          `json:"total_bars"`
	SymbolCount     int            `json:"symbol_count"`
	EarliestDate    time.Time      `json:"earliest_date"`
	LatestDate      time.Time      `json:"latest_date"`
	AvgQuality      float64        `json:"avg_quality"`
	MinQuality      int            `json:"min_quality"`
	LowQualityCount int64          `json:"low_quality_count"`
	BarsBySymbol    map[string]int `json:"bars_by_symbol"`
}

// JobRunRepository manages ingestion job run records.
type JobRunRepository interface {
	// Start registers a run as RUNNING, replacing any earlier run for
	// the same (JobName, BusinessDate) pair.
	Start(ctx context.Context, run *JobRun) error
	// Finish records the terminal status and counters of a run.
	Finish(ctx context.Context, run *JobRun) error
	GetByDate(ctx context.Context, date time.Time) ([]*JobRun, error)
	GetLatest(ctx context.Context, jobName string) (*JobRun, error)
}

// FindingRepository persists integrity scan findings.
type FindingRepository interface {
	Append(ctx context.Context, finding *IntegrityFinding) error
	GetBySymbol(ctx context.Context, symbol string, limit int) ([]*IntegrityFinding, error)
}

// MarketDataProvider fetches market data from an external source.
type MarketDataProvider interface {
	// FetchDaily returns daily bars for [from, to], oldest first.
	FetchDaily(ctx context.Context, symbol string, from, to time.Time) ([]RawBar, error)
	FetchQuote(ctx context.Context, symbol string) (*Quote, error)
}

// AnalysisCache stores computed analysis results keyed by instrument,
// window, and policy configuration.
type AnalysisCache interface {
	Get(ctx context.Context, key AnalysisKey) (*AnalysisResult, bool)
	Put(ctx context.Context, key AnalysisKey, result *AnalysisResult) error
	Clear(ctx context.Context) error
}

// AnalysisKey identifies one cached analysis result. ConfigHash folds
// the policy parameters so results computed under different targets
// never collide.
type AnalysisKey struct {
	Symbol     string
	StartDate  string
	EndDate    string
	ConfigHash string
}
