// Package store implements the Postgres-backed repositories.
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

// BarRepository implements contracts.BarRepository on Postgres.
type BarRepository struct {
	pool *pgxpool.Pool
}

// NewBarRepository creates a new bar repository.
func NewBarRepository(pool *pgxpool.Pool) *BarRepository {
	return &BarRepository{pool: pool}
}

const barColumns = `symbol, business_date, open, high, low, close, adj_close, volume,
		quality_score, anomaly_flags, source, updated_at`

func scanBar(row pgx.Row) (*contracts.Bar, error) {
	var b contracts.Bar
	var flags string
	err := row.Scan(
		&b.Symbol, &b.BusinessDate, &b.Open, &b.High, &b.Low, &b.Close,
		&b.AdjClose, &b.Volume, &b.QualityScore, &flags, &b.Source, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if flags != "" {
		b.AnomalyFlags = strings.Split(flags, ",")
	}
	return &b, nil
}

// Upsert inserts or replaces the bar for (symbol, business_date).
func (r *BarRepository) Upsert(ctx context.Context, bar *contracts.Bar) error {
	query := `
		INSERT INTO market_data (symbol, business_date, open, high, low, close, adj_close, volume,
			quality_score, anomaly_flags, source, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (symbol, business_date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			adj_close = EXCLUDED.adj_close,
			volume = EXCLUDED.volume,
			quality_score = EXCLUDED.quality_score,
			anomaly_flags = EXCLUDED.anomaly_flags,
			source = EXCLUDED.source,
			updated_at = NOW()
	`

	_, err := r.pool.Exec(ctx, query,
		bar.Symbol, bar.BusinessDate, bar.Open, bar.High, bar.Low, bar.Close,
		bar.AdjClose, bar.Volume, bar.QualityScore, bar.FlagString(), bar.Source,
	)
	return err
}

// GetByDate retrieves the bar for a symbol and business date, or nil
// when none is stored.
func (r *BarRepository) GetByDate(ctx context.Context, symbol string, date time.Time) (*contracts.Bar, error) {
	query := `
		SELECT ` + barColumns + `
		FROM market_data
		WHERE symbol = $1 AND business_date = $2
	`

	b, err := scanBar(r.pool.QueryRow(ctx, query, symbol, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

// GetRange retrieves bars for a symbol within [from, to], oldest first.
func (r *BarRepository) GetRange(ctx context.Context, symbol string, from, to time.Time) ([]*contracts.Bar, error) {
	query := `
		SELECT ` + barColumns + `
		FROM market_data
		WHERE symbol = $1 AND business_date BETWEEN $2 AND $3
		ORDER BY business_date ASC
	`

	rows, err := r.pool.Query(ctx, query, symbol, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []*contracts.Bar
	for rows.Next() {
		b, err := scanBar(rows)
		if err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// GetLastBefore retrieves the most recent bar strictly before date,
// or nil when the symbol has no earlier history.
func (r *BarRepository) GetLastBefore(ctx context.Context, symbol string, date time.Time) (*contracts.Bar, error) {
	query := `
		SELECT ` + barColumns + `
		FROM market_data
		WHERE symbol = $1 AND business_date < $2
		ORDER BY business_date DESC
		LIMIT 1
	`

	b, err := scanBar(r.pool.QueryRow(ctx, query, symbol, date))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

// Exists reports whether a bar is stored for (symbol, date).
func (r *BarRepository) Exists(ctx context.Context, symbol string, date time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM market_data WHERE symbol = $1 AND business_date = $2)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, symbol, date).Scan(&exists)
	return exists, err
}

// ListDates returns all stored business dates for a symbol, ascending.
func (r *BarRepository) ListDates(ctx context.Context, symbol string) ([]time.Time, error) {
	query := `
		SELECT business_date
		FROM market_data
		WHERE symbol = $1
		ORDER BY business_date ASC
	`

	rows, err := r.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// ListLowQuality returns bars scoring below threshold, worst first.
func (r *BarRepository) ListLowQuality(ctx context.Context, threshold int) ([]*contracts.Bar, error) {
	query := `
		SELECT ` + barColumns + `
		FROM market_data
		WHERE quality_score < $1
		ORDER BY quality_score ASC, symbol, business_date
	`

	rows, err := r.pool.Query(ctx, query, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []*contracts.Bar
	for rows.Next() {
		b, err := scanBar(rows)
		if err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// CountBySymbol returns the number of stored bars for a symbol.
func (r *BarRepository) CountBySymbol(ctx context.Context, symbol string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM market_data WHERE symbol = $1`, symbol,
	).Scan(&count)
	return count, err
}

// Stats summarizes the stored history across all symbols.
func (r *BarRepository) Stats(ctx context.Context) (*contracts.StoreStats, error) {
	stats := &contracts.StoreStats{BarsBySymbol: make(map[string]int)}

	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(DISTINCT symbol),
			COALESCE(MIN(business_date), '0001-01-01'::date),
			COALESCE(MAX(business_date), '0001-01-01'::date),
			COALESCE(AVG(quality_score), 0),
			COALESCE(MIN(quality_score), 0),
			COUNT(*) FILTER (WHERE quality_score < 80)
		FROM market_data
	`).Scan(&stats.TotalBars, &stats.SymbolCount, &stats.EarliestDate, &stats.LatestDate,
		&stats.AvgQuality, &stats.MinQuality, &stats.LowQualityCount)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT symbol, COUNT(*)
		FROM market_data
		GROUP BY symbol
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var symbol string
		var count int
		if err := rows.Scan(&symbol, &count); err != nil {
			return nil, err
		}
		stats.BarsBySymbol[symbol] = count
	}
	return stats, rows.Err()
}
