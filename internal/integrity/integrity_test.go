package integrity

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agustinp/tradepulse/internal/contracts"
	"github.com/agustinp/tradepulse/internal/ingest"
	"github.com/agustinp/tradepulse/pkg/config"
	"github.com/agustinp/tradepulse/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", Env: "test"})
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// memBarRepo is an in-memory contracts.BarRepository for tests.
type memBarRepo struct {
	bars map[string]map[string]*contracts.Bar
}

func newMemBarRepo() *memBarRepo {
	return &memBarRepo{bars: make(map[string]map[string]*contracts.Bar)}
}

func (m *memBarRepo) put(bar *contracts.Bar) {
	if m.bars[bar.Symbol] == nil {
		m.bars[bar.Symbol] = make(map[string]*contracts.Bar)
	}
	m.bars[bar.Symbol][bar.DateKey()] = bar
}

func (m *memBarRepo) Upsert(_ context.Context, bar *contracts.Bar) error {
	clone := *bar
	m.put(&clone)
	return nil
}

func (m *memBarRepo) GetByDate(_ context.Context, symbol string, date time.Time) (*contracts.Bar, error) {
	return m.bars[symbol][date.Format("2006-01-02")], nil
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
	return m.bars[symbol][date.Format("2006-01-02")] != nil, nil
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
	return &contracts.StoreStats{}, nil
}

// memFindingRepo is an in-memory contracts.FindingRepository.
type memFindingRepo struct {
	findings []*contracts.IntegrityFinding
}

func (m *memFindingRepo) Append(_ context.Context, f *contracts.IntegrityFinding) error {
	f.ID = int64(len(m.findings) + 1)
	clone := *f
	m.findings = append(m.findings, &clone)
	return nil
}

func (m *memFindingRepo) GetBySymbol(_ context.Context, symbol string, limit int) ([]*contracts.IntegrityFinding, error) {
	var out []*contracts.IntegrityFinding
	for _, f := range m.findings {
		if f.Symbol == symbol && len(out) < limit {
			out = append(out, f)
		}
	}
	return out, nil
}

// fakeProvider serves canned bars per symbol/date.
type fakeProvider struct {
	bars map[string][]contracts.RawBar
}

func (f *fakeProvider) FetchDaily(_ context.Context, symbol string, from, to time.Time) ([]contracts.RawBar, error) {
	var out []contracts.RawBar
	for _, b := range f.bars[symbol] {
		if !b.Date.Before(from) && !b.Date.After(to.AddDate(0, 0, 1)) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeProvider) FetchQuote(_ context.Context, symbol string) (*contracts.Quote, error) {
	return nil, nil
}

func storedBar(symbol string, date time.Time, close float64, score int) *contracts.Bar {
	return &contracts.Bar{
		Symbol:       symbol,
		BusinessDate: date,
		Open:         close - 1,
		High:         close + 1,
		Low:          close - 2,
		Close:        close,
		Volume:       1000,
		QualityScore: score,
	}
}

func seedDenseHistory(repo *memBarRepo, symbol string, from time.Time, n int) {
	for i := 0; i < n; i++ {
		repo.put(storedBar(symbol, from.AddDate(0, 0, i), 100, 100))
	}
}

func TestAuditor_FindsDateGaps(t *testing.T) {
	repo := newMemBarRepo()
	// 40 contiguous days, then a 10-day hole, then 40 more.
	seedDenseHistory(repo, "AAPL", day(2024, 1, 1), 40)
	seedDenseHistory(repo, "AAPL", day(2024, 2, 19), 40)

	auditor := NewAuditor(repo, &memFindingRepo{}, []string{"AAPL"}, testLogger())
	report, err := auditor.Scan(context.Background())
	require.NoError(t, err)

	var gaps []contracts.IntegrityFinding
	for _, f := range report.Findings {
		if f.CheckType == contracts.CheckDateGap {
			gaps = append(gaps, f)
		}
	}
	require.Len(t, gaps, 1)
	assert.Equal(t, "AAPL", gaps[0].Symbol)
	assert.Equal(t, day(2024, 2, 19), gaps[0].BusinessDate)
	assert.Contains(t, gaps[0].Details, "2024-02-09")
}

func TestAuditor_WeekendGapPasses(t *testing.T) {
	repo := newMemBarRepo()
	// Friday then Monday: a 3-day calendar gap is normal.
	repo.put(storedBar("AAPL", day(2024, 3, 15), 100, 100))
	repo.put(storedBar("AAPL", day(2024, 3, 18), 101, 100))

	auditor := NewAuditor(repo, &memFindingRepo{}, []string{"AAPL"}, testLogger())
	report, err := auditor.Scan(context.Background())
	require.NoError(t, err)

	for _, f := range report.Findings {
		assert.NotEqual(t, contracts.CheckDateGap, f.CheckType)
	}
}

func TestAuditor_FlagsThinHistory(t *testing.T) {
	repo := newMemBarRepo()
	seedDenseHistory(repo, "NEWCO", day(2024, 3, 1), 5)

	auditor := NewAuditor(repo, &memFindingRepo{}, []string{"NEWCO"}, testLogger())
	report, err := auditor.Scan(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, len(report.Findings))
	f := report.Findings[0]
	assert.Equal(t, contracts.CheckThinHistory, f.CheckType)
	assert.Equal(t, contracts.FindingFail, f.Status)
	assert.Equal(t, 1, report.Count(contracts.FindingFail))
}

func TestAuditor_FlagsLowQualityWorstFirst(t *testing.T) {
	repo := newMemBarRepo()
	seedDenseHistory(repo, "AAPL", day(2024, 1, 1), 40)
	repo.put(storedBar("AAPL", day(2024, 1, 10), 100, 60))
	repo.put(storedBar("AAPL", day(2024, 1, 20), 100, 35))

	findings := &memFindingRepo{}
	auditor := NewAuditor(repo, findings, []string{"AAPL"}, testLogger())
	report, err := auditor.Scan(context.Background())
	require.NoError(t, err)

	var lowQ []contracts.IntegrityFinding
	for _, f := range report.Findings {
		if f.CheckType == contracts.CheckLowQuality {
			lowQ = append(lowQ, f)
		}
	}
	require.Len(t, lowQ, 2)
	assert.Contains(t, lowQ[0].Details, "quality 35")
	assert.Contains(t, lowQ[1].Details, "quality 60")

	// Every reported finding is also persisted.
	assert.Len(t, findings.findings, len(report.Findings))
}

func TestAuditor_EmptySymbolNotThin(t *testing.T) {
	repo := newMemBarRepo()
	auditor := NewAuditor(repo, &memFindingRepo{}, []string{"GHOST"}, testLogger())

	report, err := auditor.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Findings, "a symbol with no bars at all is a backfill concern, not a scan finding")
}

func newTestRepairer(repo *memBarRepo, provider *fakeProvider) *Repairer {
	writer := ingest.NewWriter(repo, 50, "yahoo", testLogger())
	return NewRepairer(provider, writer, repo, testLogger())
}

func rawBar(date time.Time, close float64) contracts.RawBar {
	return contracts.RawBar{
		Date: date, Open: close - 1, High: close + 1, Low: close - 2,
		Close: close, AdjClose: close, Volume: 1000,
	}
}

func TestRepairer_FillsMissingWeekdays(t *testing.T) {
	repo := newMemBarRepo()
	// Mon 2024-03-11 and Fri 2024-03-15 stored; Tue-Thu missing.
	repo.put(storedBar("AAPL", day(2024, 3, 11), 100, 100))
	repo.put(storedBar("AAPL", day(2024, 3, 15), 104, 100))

	provider := &fakeProvider{bars: map[string][]contracts.RawBar{
		"AAPL": {
			rawBar(day(2024, 3, 12), 101),
			rawBar(day(2024, 3, 13), 102),
			rawBar(day(2024, 3, 14), 103),
		},
	}}
	repairer := newTestRepairer(repo, provider)

	result, err := repairer.Repair(context.Background(), "AAPL", day(2024, 3, 11), day(2024, 3, 17))
	require.NoError(t, err)

	assert.Equal(t, 5, result.DatesChecked, "weekend days are not checked")
	assert.Equal(t, 3, result.DatesRepaired)
	assert.Empty(t, result.FailedDates)

	assert.Equal(t, 5, result.StoredBars)

	count, _ := repo.CountBySymbol(context.Background(), "AAPL")
	assert.Equal(t, 5, count)
}

func TestRepairer_RecordsHolidaysAsNoData(t *testing.T) {
	repo := newMemBarRepo()
	repo.put(storedBar("AAPL", day(2024, 3, 11), 100, 100))

	provider := &fakeProvider{bars: map[string][]contracts.RawBar{"AAPL": {}}}
	repairer := newTestRepairer(repo, provider)

	result, err := repairer.Repair(context.Background(), "AAPL", day(2024, 3, 11), day(2024, 3, 12))
	require.NoError(t, err)

	assert.Equal(t, 0, result.DatesRepaired)
	require.Len(t, result.FailedDates, 1)
	assert.Equal(t, "2024-03-12: "+ingest.ReasonNoData, result.FailedDates[0])
}

func TestRepairer_Idempotent(t *testing.T) {
	repo := newMemBarRepo()
	repo.put(storedBar("AAPL", day(2024, 3, 11), 100, 100))

	provider := &fakeProvider{bars: map[string][]contracts.RawBar{
		"AAPL": {rawBar(day(2024, 3, 12), 101)},
	}}
	repairer := newTestRepairer(repo, provider)
	ctx := context.Background()

	first, err := repairer.Repair(ctx, "AAPL", day(2024, 3, 11), day(2024, 3, 12))
	require.NoError(t, err)
	assert.Equal(t, 1, first.DatesRepaired)

	second, err := repairer.Repair(ctx, "AAPL", day(2024, 3, 11), day(2024, 3, 12))
	require.NoError(t, err)
	assert.Equal(t, 0, second.DatesRepaired, "second pass finds nothing to do")

	count, _ := repo.CountBySymbol(ctx, "AAPL")
	assert.Equal(t, 2, count)
}
