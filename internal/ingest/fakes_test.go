package ingest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/agustinp/tradepulse/internal/contracts"
)

// memBarRepo is an in-memory contracts.BarRepository for tests.
type memBarRepo struct {
	bars map[string]map[string]*contracts.Bar // symbol -> date -> bar
}

func newMemBarRepo() *memBarRepo {
	return &memBarRepo{bars: make(map[string]map[string]*contracts.Bar)}
}

func dateKey(t time.Time) string { return t.Format("2006-01-02") }

func (m *memBarRepo) Upsert(_ context.Context, bar *contracts.Bar) error {
	if m.bars[bar.Symbol] == nil {
		m.bars[bar.Symbol] = make(map[string]*contracts.Bar)
	}
	clone := *bar
	m.bars[bar.Symbol][bar.DateKey()] = &clone
	return nil
}

func (m *memBarRepo) GetByDate(_ context.Context, symbol string, date time.Time) (*contracts.Bar, error) {
	return m.bars[symbol][dateKey(date)], nil
}

func (m *memBarRepo) GetRange(_ context.Context, symbol string, from, to time.Time) ([]*contracts.Bar, error) {
	var out []*contracts.Bar
	for _, b := range m.bars[symbol] {
		if !b.BusinessDate.Before(from) && !b.BusinessDate.After(to) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BusinessDate.Before(out[j].BusinessDate) })
	return out, nil
}

func (m *memBarRepo) GetLastBefore(_ context.Context, symbol string, date time.Time) (*contracts.Bar, error) {
	var best *contracts.Bar
	for _, b := range m.bars[symbol] {
		if b.BusinessDate.Before(date) && (best == nil || b.BusinessDate.After(best.BusinessDate)) {
			best = b
		}
	}
	return best, nil
}

func (m *memBarRepo) Exists(_ context.Context, symbol string, date time.Time) (bool, error) {
	return m.bars[symbol][dateKey(date)] != nil, nil
}

func (m *memBarRepo) ListDates(_ context.Context, symbol string) ([]time.Time, error) {
	var dates []time.Time
	for _, b := range m.bars[symbol] {
		dates = append(dates, b.BusinessDate)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func (m *memBarRepo) ListLowQuality(_ context.Context, threshold int) ([]*contracts.Bar, error) {
	var out []*contracts.Bar
	for _, days := range m.bars {
		for _, b := range days {
			if b.QualityScore < threshold {
				out = append(out, b)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QualityScore < out[j].QualityScore })
	return out, nil
}

func (m *memBarRepo) CountBySymbol(_ context.Context, symbol string) (int, error) {
	return len(m.bars[symbol]), nil
}

func (m *memBarRepo) Stats(_ context.Context) (*contracts.StoreStats, error) {
	stats := &contracts.StoreStats{BarsBySymbol: make(map[string]int)}
	for symbol, days := range m.bars {
		stats.BarsBySymbol[symbol] = len(days)
		stats.TotalBars += int64(len(days))
	}
	stats.SymbolCount = len(m.bars)
	return stats, nil
}

// memJobRunRepo is an in-memory contracts.JobRunRepository for tests.
type memJobRunRepo struct {
	runs map[string]*contracts.JobRun // job_name|date -> run
}

func newMemJobRunRepo() *memJobRunRepo {
	return &memJobRunRepo{runs: make(map[string]*contracts.JobRun)}
}

func runKey(name string, date time.Time) string {
	return name + "|" + dateKey(date)
}

func (m *memJobRunRepo) Start(_ context.Context, run *contracts.JobRun) error {
	run.Status = contracts.JobRunning
	run.StartedAt = time.Now()
	run.ID = int64(len(m.runs) + 1)
	clone := *run
	m.runs[runKey(run.JobName, run.BusinessDate)] = &clone
	return nil
}

func (m *memJobRunRepo) Finish(_ context.Context, run *contracts.JobRun) error {
	now := time.Now()
	run.FinishedAt = &now
	clone := *run
	m.runs[runKey(run.JobName, run.BusinessDate)] = &clone
	return nil
}

func (m *memJobRunRepo) GetByDate(_ context.Context, date time.Time) ([]*contracts.JobRun, error) {
	var out []*contracts.JobRun
	for _, run := range m.runs {
		if dateKey(run.BusinessDate) == dateKey(date) {
			out = append(out, run)
		}
	}
	return out, nil
}

func (m *memJobRunRepo) GetLatest(_ context.Context, jobName string) (*contracts.JobRun, error) {
	var best *contracts.JobRun
	for _, run := range m.runs {
		if run.JobName == jobName && (best == nil || run.StartedAt.After(best.StartedAt)) {
			best = run
		}
	}
	return best, nil
}

// fakeProvider serves canned bars per symbol.
type fakeProvider struct {
	bars   map[string][]contracts.RawBar
	errs   map[string]error
	quotes map[string]*contracts.Quote
}

func (f *fakeProvider) FetchDaily(_ context.Context, symbol string, from, to time.Time) ([]contracts.RawBar, error) {
	if err := f.errs[symbol]; err != nil {
		return nil, err
	}
	var out []contracts.RawBar
	for _, b := range f.bars[symbol] {
		if !b.Date.Before(from) && !b.Date.After(to.AddDate(0, 0, 1)) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeProvider) FetchQuote(_ context.Context, symbol string) (*contracts.Quote, error) {
	q, ok := f.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("no quote for %s", symbol)
	}
	return q, nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func goodBar(date time.Time, close float64) contracts.RawBar {
	return contracts.RawBar{
		Date:     date,
		Open:     close - 1,
		High:     close + 1,
		Low:      close - 2,
		Close:    close,
		AdjClose: close,
		Volume:   1000,
	}
}
